package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/middleware"
)

// Module attaches a feature's endpoints to a Controller.
type Module interface {
	Mount(c *Controller)
}

type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

type GroupConfig struct {
	Prefix string
	// Auth puts the tenant JWT middleware in front of every module in the group.
	Auth       bool
	SecretKey  string
	Middleware []gin.HandlerFunc
}

var errMissingSecret = errors.New("api: auth enabled but SecretKey is empty")

// MountGroup mounts modules under cfg.Prefix on parent.
func MountGroup(parent gin.IRouter, cfg GroupConfig, modules ...Module) (*gin.RouterGroup, error) {
	if cfg.Auth && cfg.SecretKey == "" {
		return nil, errMissingSecret
	}

	grp := parent.Group(cfg.Prefix)
	for _, mw := range cfg.Middleware {
		grp.Use(mw)
	}
	if cfg.Auth {
		grp.Use(middleware.JWTMiddleware(cfg.SecretKey))
	}

	controller := &Controller{Group: grp}
	for _, m := range modules {
		m.Mount(controller)
	}
	log.Debug().Str("prefix", cfg.Prefix).Bool("auth", cfg.Auth).Int("modules", len(modules)).Msg("mounted api group")
	return grp, nil
}
