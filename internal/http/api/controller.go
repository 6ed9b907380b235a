package api

import "github.com/gin-gonic/gin"

// Controller is the gin group a Module mounts its endpoints on.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFuncWithTenant) {
	c.Group.GET(path, ResolveEndpointWithTenant(h))
}

func (c *Controller) POST(path string, h HandlerFuncWithTenant) {
	c.Group.POST(path, ResolveEndpointWithTenant(h))
}

func (c *Controller) PATCH(path string, h HandlerFuncWithTenant) {
	c.Group.PATCH(path, ResolveEndpointWithTenant(h))
}

func (c *Controller) DELETE(path string, h HandlerFuncWithTenant) {
	c.Group.DELETE(path, ResolveEndpointWithTenant(h))
}

// Public registers an endpoint that does not need a tenant.
func (c *Controller) Public(method, path string, h HandlerFunc) {
	c.Group.Handle(method, path, ResolveEndpoint(h))
}
