package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/db"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api"
	adminapi "github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api/admin/control/endpoints"
	clientapi "github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api/tv/endpoints"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/redis"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/schedule"
)

type Dependencies struct {
	Store     db.Store
	Notifier  schedule.Notifier
	Revisions *redis.Revisions
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, secret string, deps Dependencies) error {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"ETag",
		},
		AllowCredentials: false,
	}))

	service := schedule.NewService(deps.Store, deps.Notifier)
	query := schedule.NewQuery(deps.Store)
	resolver := schedule.NewResolver(deps.Store)

	if _, err := api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: secret,
	},
		adminapi.ScheduleModule(service, query),
		adminapi.ScreenModule(deps.Store, service, resolver),
	); err != nil {
		return err
	}

	// a typed nil *redis.Revisions is fine here: its methods are nil-safe
	_, err := api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		clientapi.ScreenModule(deps.Store, resolver, deps.Revisions),
	)
	return err
}
