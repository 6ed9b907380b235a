package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/schedule"
)

type ScheduleController struct {
	service *schedule.Service
	query   *schedule.Query
}

func NewScheduleController(service *schedule.Service, query *schedule.Query) *ScheduleController {
	return &ScheduleController{service: service, query: query}
}

// ScheduleModule mounts all authenticated /schedules endpoints.
func ScheduleModule(service *schedule.Service, query *schedule.Query) api.Module {
	ctl := NewScheduleController(service, query)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", ctl.listSchedules)
		c.POST("/schedules", ctl.createSchedule)
		c.POST("/schedules/duplicate", ctl.duplicateSchedule)
		c.GET("/schedules/:id", ctl.getSchedule)
		c.PATCH("/schedules/:id", ctl.updateSchedule)
		c.DELETE("/schedules/:id", ctl.deleteSchedule)
		c.PATCH("/schedules/:id/set-default", ctl.setDefault)
	})
}

func mapSchedule(v schedule.ScheduleView) packets.ScheduleResponse {
	items := make([]packets.SlideResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = packets.SlideResponse{
			ID:            it.ID,
			ContentItemID: it.ContentItemID,
			Order:         it.Order,
			Title:         it.Title,
			Type:          it.Type,
			Duration:      it.Duration,
			Missing:       it.Missing,
		}
	}
	return packets.ScheduleResponse{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		IsActive:    v.IsActive,
		IsDefault:   v.IsDefault,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		Items:       items,
	}
}

func toSlideRefs(in []packets.SlideRequest) []schedule.SlideRef {
	out := make([]schedule.SlideRef, len(in))
	for i, s := range in {
		out[i] = schedule.SlideRef{ID: s.ID, Order: s.Order}
	}
	return out
}

// respond enriches sc for the UI.
func (s *ScheduleController) respond(ctx *gin.Context, tenantID string, sc model.ContentSchedule) (packets.ScheduleResponse, *api.APIError) {
	views, err := s.query.Enrich(ctx.Request.Context(), tenantID, sc)
	if err != nil {
		return packets.ScheduleResponse{}, api.FromError(err)
	}
	return mapSchedule(views[0]), nil
}

func (s *ScheduleController) listSchedules(ctx *gin.Context, tenant model.Tenant) (any, *api.APIError) {
	views, err := s.query.ListSchedules(ctx.Request.Context(), tenant.ID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenant.ID).Msg("[schedules] list failed")
		return nil, api.FromError(err)
	}

	response := make([]packets.ScheduleResponse, 0, len(views))
	for _, v := range views {
		response = append(response, mapSchedule(v))
	}
	return response, nil
}

func (s *ScheduleController) getSchedule(ctx *gin.Context, tenant model.Tenant) (any, *api.APIError) {
	view, err := s.query.GetSchedule(ctx.Request.Context(), tenant.ID, ctx.Param("id"))
	if err != nil {
		return nil, api.FromError(err)
	}
	return mapSchedule(view), nil
}

func (s *ScheduleController) createSchedule(ctx *gin.Context, tenant model.Tenant) (any, *api.APIError) {
	var request packets.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error(), InvariantCode: "VALIDATION"}
	}

	isActive := true
	if request.IsActive != nil {
		isActive = *request.IsActive
	}
	sc, err := s.service.Create(ctx.Request.Context(), schedule.CreateInput{
		TenantID:    tenant.ID,
		Name:        request.Name,
		Description: request.Description,
		IsActive:    isActive,
		Slides:      toSlideRefs(request.Slides),
	})
	if err != nil {
		return nil, api.FromError(err)
	}

	response, apiErr := s.respond(ctx, tenant.ID, sc)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.Created{Body: response}, nil
}

func (s *ScheduleController) updateSchedule(ctx *gin.Context, tenant model.Tenant) (any, *api.APIError) {
	var request packets.UpdateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error(), InvariantCode: "VALIDATION"}
	}

	in := schedule.UpdateInput{
		Name:        request.Name,
		Description: request.Description,
		IsActive:    request.IsActive,
	}
	// absent or null leaves the slides alone, [] clears them
	raw := bytes.TrimSpace(request.Slides)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var slides []packets.SlideRequest
		if err := json.Unmarshal(raw, &slides); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "slides must be an array", InvariantCode: "VALIDATION"}
		}
		refs := toSlideRefs(slides)
		in.Slides = &refs
	}

	sc, err := s.service.Update(ctx.Request.Context(), tenant.ID, ctx.Param("id"), in)
	if err != nil {
		return nil, api.FromError(err)
	}

	response, apiErr := s.respond(ctx, tenant.ID, sc)
	if apiErr != nil {
		return nil, apiErr
	}
	return response, nil
}

func (s *ScheduleController) deleteSchedule(ctx *gin.Context, tenant model.Tenant) (any, *api.APIError) {
	if err := s.service.Delete(ctx.Request.Context(), tenant.ID, ctx.Param("id")); err != nil {
		return nil, api.FromError(err)
	}
	return api.NoContent, nil
}

func (s *ScheduleController) setDefault(ctx *gin.Context, tenant model.Tenant) (any, *api.APIError) {
	sc, err := s.service.SetDefault(ctx.Request.Context(), tenant.ID, ctx.Param("id"))
	if err != nil {
		return nil, api.FromError(err)
	}

	response, apiErr := s.respond(ctx, tenant.ID, sc)
	if apiErr != nil {
		return nil, apiErr
	}
	return response, nil
}

func (s *ScheduleController) duplicateSchedule(ctx *gin.Context, tenant model.Tenant) (any, *api.APIError) {
	var request packets.DuplicateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error(), InvariantCode: "VALIDATION"}
	}

	sc, err := s.service.Duplicate(ctx.Request.Context(), schedule.DuplicateInput{
		TenantID:         tenant.ID,
		SourceScheduleID: request.SourceScheduleID,
		Name:             request.Name,
	})
	if err != nil {
		return nil, api.FromError(err)
	}

	response, apiErr := s.respond(ctx, tenant.ID, sc)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.Created{Body: response}, nil
}
