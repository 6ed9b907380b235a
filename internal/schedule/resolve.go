package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/db"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
)

// Source says where a screen's effective schedule came from.
type Source string

const (
	SourceAssigned Source = "assigned"
	SourceDefault  Source = "default"
	// SourceNone means the tenant has no schedules yet. It is not an error.
	SourceNone Source = "none"
)

type Resolution struct {
	Screen   model.Screen
	Source   Source
	Schedule *model.ContentSchedule
}

// Empty reports the "no content configured" result.
func (r Resolution) Empty() bool { return r.Schedule == nil }

// PlayableSlide is a slide the display can render right now.
type PlayableSlide struct {
	ScheduleItemID string
	Order          int
	Content        model.ContentItem
}

type DisplayPayload struct {
	Resolution
	Slides []PlayableSlide
}

// Resolver picks the schedule a screen should play. It only reads and takes no locks.
type Resolver struct {
	store db.Queries
	now   func() time.Time
}

func NewResolver(store db.Queries) *Resolver {
	return &Resolver{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (r *Resolver) ResolveForScreen(ctx context.Context, screenID string) (Resolution, error) {
	screen, err := r.store.GetScreen(ctx, screenID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Resolution{}, &NotFoundError{Resource: "screen", ID: screenID}
		}
		return Resolution{}, &InternalError{Op: "load screen", Err: err}
	}
	return r.Resolve(ctx, screen)
}

// Resolve returns the screen's assigned schedule if it still exists and is active,
// otherwise the tenant default, otherwise an empty resolution.
func (r *Resolver) Resolve(ctx context.Context, screen model.Screen) (Resolution, error) {
	res := Resolution{Screen: screen, Source: SourceNone}

	if screen.ScheduleID != nil {
		sc, err := r.store.GetSchedule(ctx, screen.TenantID, *screen.ScheduleID)
		switch {
		case err == nil && sc.IsActive:
			res.Source = SourceAssigned
			res.Schedule = &sc
			return res, nil
		case err == nil:
			log.Debug().Str("screen_id", screen.ID).Str("schedule_id", sc.ID).
				Msg("assigned schedule inactive, falling back to default")
		case errors.Is(err, db.ErrNotFound):
			log.Debug().Str("screen_id", screen.ID).Str("schedule_id", *screen.ScheduleID).
				Msg("assigned schedule gone, falling back to default")
		default:
			return Resolution{}, &InternalError{Op: "load assigned schedule", Err: err}
		}
	}

	def, err := r.store.GetDefaultSchedule(ctx, screen.TenantID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return res, nil
		}
		return Resolution{}, &InternalError{Op: "load default schedule", Err: err}
	}
	res.Source = SourceDefault
	res.Schedule = &def
	return res, nil
}

// Display resolves the screen and keeps only slides whose content exists, is active
// and is inside its activation window now.
func (r *Resolver) Display(ctx context.Context, screenID string) (DisplayPayload, error) {
	res, err := r.ResolveForScreen(ctx, screenID)
	if err != nil {
		return DisplayPayload{}, err
	}
	out := DisplayPayload{Resolution: res, Slides: []PlayableSlide{}}
	if res.Empty() {
		return out, nil
	}

	ids := make([]string, 0, len(res.Schedule.Items))
	for _, it := range res.Schedule.Items {
		ids = append(ids, it.ContentItemID)
	}
	content, err := r.store.GetContentItems(ctx, res.Screen.TenantID, ids)
	if err != nil {
		return DisplayPayload{}, &InternalError{Op: "load content items", Err: err}
	}

	now := r.now()
	for _, it := range res.Schedule.Items {
		c, ok := content[it.ContentItemID]
		if !ok || !c.PlayableAt(now) {
			continue
		}
		out.Slides = append(out.Slides, PlayableSlide{ScheduleItemID: it.ID, Order: it.Order, Content: c})
	}
	return out, nil
}
