package endpoints

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/db"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api/tv/packets"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/schedule"
)

// RevisionReader returns the tenant's schedule revision. It is backed by redis.
type RevisionReader interface {
	Get(ctx context.Context, tenantID string) (int64, error)
}

type TvController struct {
	store     db.Queries
	resolver  *schedule.Resolver
	revisions RevisionReader
}

func NewTvController(store db.Queries, resolver *schedule.Resolver, revisions RevisionReader) *TvController {
	return &TvController{store: store, resolver: resolver, revisions: revisions}
}

// ScreenModule mounts the endpoints screens poll. They are addressed by screen id.
func ScreenModule(store db.Queries, resolver *schedule.Resolver, revisions RevisionReader) api.Module {
	ctl := NewTvController(store, resolver, revisions)
	return api.ModuleFunc(func(c *api.Controller) {
		c.Group.GET("/screens/:id/schedule", ctl.getDisplay)
		c.Public(http.MethodGet, "/screens/:id/revision", ctl.getRevision)
	})
}

func mapDisplay(p schedule.DisplayPayload) packets.DisplayResponse {
	out := packets.DisplayResponse{
		ScreenID: p.Screen.ID,
		Source:   string(p.Source),
		Slides:   make([]packets.SlideResponse, 0, len(p.Slides)),
	}
	if p.Schedule != nil {
		id := p.Schedule.ID
		out.ScheduleID = &id
		out.ScheduleName = p.Schedule.Name
	}
	for _, s := range p.Slides {
		out.Slides = append(out.Slides, packets.SlideResponse{
			ID:       s.ScheduleItemID,
			Order:    s.Order,
			Title:    s.Content.Title,
			Type:     s.Content.Type,
			Payload:  s.Content.Payload,
			Duration: s.Content.Duration,
		})
	}
	return out
}

// GET /api/tv/screens/:id/schedule
//
// Answers 304 when If-None-Match matches the payload hash.
func (t *TvController) getDisplay(c *gin.Context) {
	payload, err := t.resolver.Display(c.Request.Context(), c.Param("id"))
	if err != nil {
		apiErr := api.FromError(err)
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}

	body, err := json.Marshal(mapDisplay(payload))
	if err != nil {
		log.Error().Err(err).Str("screen_id", payload.Screen.ID).Msg("[tv] encode display payload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error, please retry"})
		return
	}

	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GET /api/tv/screens/:id/revision
func (t *TvController) getRevision(c *gin.Context) (any, *api.APIError) {
	screen, err := t.store.GetScreen(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "internal error, please retry"}
	}

	var rev int64
	if t.revisions != nil {
		rev, err = t.revisions.Get(c.Request.Context(), screen.TenantID)
		if err != nil {
			log.Warn().Err(err).Str("tenant_id", screen.TenantID).Msg("[tv] revision unavailable")
			return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "revision unavailable"}
		}
	}
	return packets.RevisionResponse{ScreenID: screen.ID, Revision: rev}, nil
}
