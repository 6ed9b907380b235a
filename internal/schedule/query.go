package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/db"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
)

// shown for slides whose content item was deleted
const (
	UnknownContentType     = "Unknown"
	UnknownContentDuration = 0
)

type SlideView struct {
	ID            string
	ContentItemID string
	Order         int
	Title         string
	Type          string
	Duration      int
	Missing       bool
}

type ScheduleView struct {
	ID          string
	Name        string
	Description *string
	IsActive    bool
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []SlideView
}

// Query is the read side used by the admin UI.
type Query struct {
	store db.Queries
}

func NewQuery(store db.Queries) *Query {
	return &Query{store: store}
}

func (q *Query) ListSchedules(ctx context.Context, tenantID string) ([]ScheduleView, error) {
	list, err := q.store.ListSchedules(ctx, tenantID)
	if err != nil {
		return nil, &InternalError{Op: "list schedules", Err: err}
	}
	return q.Enrich(ctx, tenantID, list...)
}

func (q *Query) GetSchedule(ctx context.Context, tenantID, scheduleID string) (ScheduleView, error) {
	sc, err := q.store.GetSchedule(ctx, tenantID, scheduleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ScheduleView{}, &NotFoundError{Resource: "schedule", ID: scheduleID}
		}
		return ScheduleView{}, &InternalError{Op: "get schedule", Err: err}
	}
	views, err := q.Enrich(ctx, tenantID, sc)
	if err != nil {
		return ScheduleView{}, err
	}
	return views[0], nil
}

// Enrich attaches a snapshot of each slide's content type and duration. Slides whose
// content item is gone keep their position and get placeholder values.
func (q *Query) Enrich(ctx context.Context, tenantID string, schedules ...model.ContentSchedule) ([]ScheduleView, error) {
	var ids []string
	seen := make(map[string]struct{})
	for _, sc := range schedules {
		for _, it := range sc.Items {
			if _, ok := seen[it.ContentItemID]; ok {
				continue
			}
			seen[it.ContentItemID] = struct{}{}
			ids = append(ids, it.ContentItemID)
		}
	}

	content, err := q.store.GetContentItems(ctx, tenantID, ids)
	if err != nil {
		return nil, &InternalError{Op: "load content items", Err: err}
	}

	out := make([]ScheduleView, len(schedules))
	for i, sc := range schedules {
		out[i] = viewOf(sc, content)
	}
	return out, nil
}

func viewOf(sc model.ContentSchedule, content map[string]model.ContentItem) ScheduleView {
	items := make([]SlideView, len(sc.Items))
	for i, it := range sc.Items {
		items[i] = SlideView{
			ID:            it.ID,
			ContentItemID: it.ContentItemID,
			Order:         it.Order,
			Type:          UnknownContentType,
			Duration:      UnknownContentDuration,
			Missing:       true,
		}
		if c, ok := content[it.ContentItemID]; ok {
			items[i].Title = c.Title
			items[i].Type = c.Type
			items[i].Duration = c.Duration
			items[i].Missing = false
		}
	}
	return ScheduleView{
		ID:          sc.ID,
		Name:        sc.Name,
		Description: sc.Description,
		IsActive:    sc.IsActive,
		IsDefault:   sc.IsDefault,
		CreatedAt:   sc.CreatedAt,
		UpdatedAt:   sc.UpdatedAt,
		Items:       items,
	}
}
