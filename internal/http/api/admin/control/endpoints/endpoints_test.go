package endpoints_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/db"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api/admin/control/endpoints"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/schedule"
)

const (
	secret = "supersecret"
	tenant = "masjid-al-noor"
)

type harness struct {
	t      *testing.T
	router *gin.Engine
	store  db.Store
	token  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, _ := db.OpenTestStore(t)

	service := schedule.NewService(store, nil)
	query := schedule.NewQuery(store)
	resolver := schedule.NewResolver(store)

	r := gin.New()
	_, err := api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin", Auth: true, SecretKey: secret},
		endpoints.ScheduleModule(service, query),
		endpoints.ScreenModule(store, service, resolver),
	)
	require.NoError(t, err)

	token, err := middleware.GenerateJWT(tenant, secret, time.Hour)
	require.NoError(t, err)
	return &harness{t: t, router: r, store: store, token: token}
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token)
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) content(title string) model.ContentItem {
	h.t.Helper()
	now := time.Now().UTC()
	item, err := h.store.CreateContentItem(context.Background(), model.ContentItem{
		ID:        uuid.NewString(),
		TenantID:  tenant,
		Title:     title,
		Type:      model.ContentTypeEvent,
		Duration:  10,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(h.t, err)
	return item
}

func (h *harness) createSchedule(name string, slideIDs ...string) packets.ScheduleResponse {
	h.t.Helper()
	slides := make([]packets.SlideRequest, len(slideIDs))
	for i, id := range slideIDs {
		slides[i] = packets.SlideRequest{ID: id}
	}
	w := h.do(http.MethodPost, "/api/admin/schedules", packets.CreateScheduleRequest{Name: name, Slides: slides})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[packets.ScheduleResponse](h.t, w)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details"`
}

func TestScheduleEndpoints(t *testing.T) {
	h := newHarness(t)
	a := h.content("Eid bazaar")
	b := h.content("Youth night")

	main := h.createSchedule("Main", a.ID, b.ID)
	assert.True(t, main.IsDefault)
	assert.True(t, main.IsActive)
	require.Len(t, main.Items, 2)
	assert.Equal(t, "Eid bazaar", main.Items[0].Title)
	assert.Equal(t, model.ContentTypeEvent, main.Items[0].Type)

	t.Run("requires a token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/admin/schedules", nil)
		h.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create without a name", func(t *testing.T) {
		w := h.do(http.MethodPost, "/api/admin/schedules", map[string]any{"slides": []any{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("create with a placeholder slide", func(t *testing.T) {
		w := h.do(http.MethodPost, "/api/admin/schedules", map[string]any{
			"name":   "Draft",
			"slides": []map[string]any{{"id": "placeholder-1"}},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[errorBody](t, w)
		assert.Equal(t, "INVALID_SLIDE_ID", body.Code)
		assert.NotEmpty(t, body.Details)
	})

	t.Run("deleting the last schedule", func(t *testing.T) {
		w := h.do(http.MethodDelete, "/api/admin/schedules/"+main.ID, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[errorBody](t, w)
		assert.Equal(t, "LAST_SCHEDULE", body.Code)
		assert.Equal(t, "Cannot delete the last content schedule", body.Error)
	})

	other := h.createSchedule("Ramadan", b.ID)
	assert.False(t, other.IsDefault)

	t.Run("deleting the default", func(t *testing.T) {
		w := h.do(http.MethodDelete, "/api/admin/schedules/"+main.ID, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "IS_DEFAULT", decode[errorBody](t, w).Code)
	})

	t.Run("patch without slides keeps them", func(t *testing.T) {
		w := h.do(http.MethodPatch, "/api/admin/schedules/"+main.ID, `{"name":"Main hall","slides":null}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[packets.ScheduleResponse](t, w)
		assert.Equal(t, "Main hall", got.Name)
		assert.Len(t, got.Items, 2)
	})

	t.Run("patch with reordered slides", func(t *testing.T) {
		w := h.do(http.MethodPatch, "/api/admin/schedules/"+main.ID,
			`{"slides":[{"id":"`+a.ID+`","order":5},{"id":"`+b.ID+`","order":2}]}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[packets.ScheduleResponse](t, w)
		require.Len(t, got.Items, 2)
		assert.Equal(t, b.ID, got.Items[0].ContentItemID)
		assert.Equal(t, 0, got.Items[0].Order)
		assert.Equal(t, a.ID, got.Items[1].ContentItemID)
	})

	t.Run("patch with empty slides clears them", func(t *testing.T) {
		w := h.do(http.MethodPatch, "/api/admin/schedules/"+other.ID, `{"slides":[]}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Empty(t, decode[packets.ScheduleResponse](t, w).Items)
	})

	t.Run("patch with malformed slides", func(t *testing.T) {
		w := h.do(http.MethodPatch, "/api/admin/schedules/"+other.ID, `{"slides":{"id":"x"}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deactivating the default", func(t *testing.T) {
		w := h.do(http.MethodPatch, "/api/admin/schedules/"+main.ID, `{"isActive":false}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "DEFAULT_INACTIVE", decode[errorBody](t, w).Code)
	})

	t.Run("set default", func(t *testing.T) {
		w := h.do(http.MethodPatch, "/api/admin/schedules/"+other.ID+"/set-default", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, decode[packets.ScheduleResponse](t, w).IsDefault)

		w = h.do(http.MethodGet, "/api/admin/schedules", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[[]packets.ScheduleResponse](t, w)
		require.Len(t, list, 2)
		assert.Equal(t, other.ID, list[0].ID)
		assert.False(t, list[1].IsDefault)
	})

	t.Run("duplicate", func(t *testing.T) {
		w := h.do(http.MethodPost, "/api/admin/schedules/duplicate", packets.DuplicateScheduleRequest{
			SourceScheduleID: main.ID,
			Name:             "Main copy",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		dup := decode[packets.ScheduleResponse](t, w)
		assert.False(t, dup.IsDefault)
		require.Len(t, dup.Items, 2)
		assert.Equal(t, b.ID, dup.Items[0].ContentItemID)
	})

	t.Run("delete a non-default schedule", func(t *testing.T) {
		w := h.do(http.MethodDelete, "/api/admin/schedules/"+main.ID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = h.do(http.MethodGet, "/api/admin/schedules/"+main.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("deleted content shows as a placeholder", func(t *testing.T) {
		require.NoError(t, h.store.DeleteContentItem(context.Background(), tenant, b.ID))
		w := h.do(http.MethodGet, "/api/admin/schedules/"+other.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[packets.ScheduleResponse](t, w).Items)

		w = h.do(http.MethodGet, "/api/admin/schedules", nil)
		for _, sc := range decode[[]packets.ScheduleResponse](t, w) {
			for _, it := range sc.Items {
				if it.ContentItemID == b.ID {
					assert.Equal(t, schedule.UnknownContentType, it.Type)
					assert.True(t, it.Missing)
				}
			}
		}
	})
}

func TestScreenEndpoints(t *testing.T) {
	h := newHarness(t)
	main := h.createSchedule("Main")
	other := h.createSchedule("Ramadan")

	now := time.Now().UTC()
	screen, err := h.store.CreateScreen(context.Background(), model.Screen{
		ID:          uuid.NewString(),
		TenantID:    tenant,
		Name:        "Lobby",
		Status:      "online",
		Orientation: "portrait",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)

	w := h.do(http.MethodGet, "/api/admin/screens", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]packets.ScreenResponse](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "default", list[0].Source)
	require.NotNil(t, list[0].EffectiveID)
	assert.Equal(t, main.ID, *list[0].EffectiveID)

	w = h.do(http.MethodPatch, "/api/admin/screens/"+screen.ID+"/schedule", map[string]any{"scheduleId": other.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[packets.ScreenResponse](t, w)
	assert.Equal(t, "assigned", got.Source)
	require.NotNil(t, got.ScheduleID)
	assert.Equal(t, other.ID, *got.ScheduleID)

	w = h.do(http.MethodPatch, "/api/admin/screens/"+screen.ID+"/schedule", `{"scheduleId":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[packets.ScreenResponse](t, w)
	assert.Nil(t, got.ScheduleID)
	assert.Equal(t, "default", got.Source)

	w = h.do(http.MethodPatch, "/api/admin/screens/"+screen.ID+"/schedule", map[string]any{"scheduleId": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodPatch, "/api/admin/screens/"+uuid.NewString()+"/schedule", `{"scheduleId":null}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
