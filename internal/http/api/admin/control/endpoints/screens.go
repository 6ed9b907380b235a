package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/db"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/schedule"
)

type ScreenController struct {
	store    db.Queries
	service  *schedule.Service
	resolver *schedule.Resolver
}

func NewScreenController(store db.Queries, service *schedule.Service, resolver *schedule.Resolver) *ScreenController {
	return &ScreenController{store: store, service: service, resolver: resolver}
}

// ScreenModule mounts the schedule assignment endpoints for screens.
func ScreenModule(store db.Queries, service *schedule.Service, resolver *schedule.Resolver) api.Module {
	ctl := NewScreenController(store, service, resolver)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/screens", ctl.listScreens)
		c.PATCH("/screens/:id/schedule", ctl.assignSchedule)
	})
}

func mapScreen(s model.Screen) packets.ScreenResponse {
	return packets.ScreenResponse{
		ID:          s.ID,
		Name:        s.Name,
		Status:      s.Status,
		Orientation: s.Orientation,
		ScheduleID:  s.ScheduleID,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

// withResolution fills in where the screen's content currently comes from.
func (s *ScreenController) withResolution(ctx *gin.Context, screen model.Screen) packets.ScreenResponse {
	out := mapScreen(screen)
	res, err := s.resolver.Resolve(ctx.Request.Context(), screen)
	if err != nil {
		log.Warn().Err(err).Str("screen_id", screen.ID).Msg("[screens] could not resolve schedule")
		return out
	}
	out.Source = string(res.Source)
	if res.Schedule != nil {
		id := res.Schedule.ID
		out.EffectiveID = &id
	}
	return out
}

func (s *ScreenController) listScreens(ctx *gin.Context, tenant model.Tenant) (any, *api.APIError) {
	screens, err := s.store.ListScreens(ctx.Request.Context(), tenant.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list screens"}
	}

	out := make([]packets.ScreenResponse, 0, len(screens))
	for _, sc := range screens {
		out = append(out, s.withResolution(ctx, sc))
	}
	return out, nil
}

func (s *ScreenController) assignSchedule(ctx *gin.Context, tenant model.Tenant) (any, *api.APIError) {
	var request packets.AssignScreenScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error(), InvariantCode: "VALIDATION"}
	}

	screen, err := s.service.AssignScreen(ctx.Request.Context(), tenant.ID, ctx.Param("id"), request.ScheduleID)
	if err != nil {
		return nil, api.FromError(err)
	}
	return s.withResolution(ctx, screen), nil
}
