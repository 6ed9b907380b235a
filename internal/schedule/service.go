package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/db"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
)

// first-schedule creates that lose the default race are retried once as non-default
const createAttempts = 2

type CreateInput struct {
	TenantID    string  `validate:"required"`
	Name        string  `validate:"required,max=120"`
	Description *string `validate:"omitempty,max=1000"`
	IsActive    bool
	Slides      []SlideRef
}

// UpdateInput is a partial update. A nil Slides leaves the slide list alone; a
// non-nil empty Slides clears it.
type UpdateInput struct {
	Name        *string `validate:"omitempty,max=120"`
	Description *string `validate:"omitempty,max=1000"`
	IsActive    *bool
	Slides      *[]SlideRef
}

type DuplicateInput struct {
	TenantID         string `validate:"required"`
	SourceScheduleID string `validate:"required"`
	Name             string `validate:"required,max=120"`
}

// Service owns every schedule mutation and the rules around the default schedule.
type Service struct {
	store    db.Store
	notifier Notifier
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

func NewService(store db.Store, notifier Notifier) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Service{
		store:    store,
		notifier: notifier,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Create inserts a schedule and its slides. The tenant's first schedule becomes the
// default and is forced active.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.ContentSchedule, error) {
	if err := s.validateStruct(in); err != nil {
		return model.ContentSchedule{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.ContentSchedule{}, &ValidationError{Message: "name must not be blank", Fields: []string{"name"}}
	}
	if err := s.checkSlides(ctx, in.TenantID, in.Slides); err != nil {
		return model.ContentSchedule{}, err
	}

	orders := positionalOrders(in.Slides)
	var created model.ContentSchedule
	var err error
	for attempt := 1; attempt <= createAttempts; attempt++ {
		created, err = s.create(ctx, in, name, orders)
		if !errors.Is(err, db.ErrDefaultConflict) {
			break
		}
		log.Warn().Str("tenant_id", in.TenantID).Int("attempt", attempt).
			Msg("lost first-schedule default race, retrying as non-default")
	}
	if err != nil {
		return model.ContentSchedule{}, s.internal("create schedule", err)
	}

	log.Info().Str("tenant_id", in.TenantID).Str("schedule_id", created.ID).
		Bool("is_default", created.IsDefault).Int("slides", len(created.Items)).Msg("schedule created")
	s.notify(ctx, Event{TenantID: in.TenantID, ScheduleID: created.ID, Action: ActionCreated})
	return created, nil
}

func (s *Service) create(ctx context.Context, in CreateInput, name string, orders []int) (model.ContentSchedule, error) {
	var out model.ContentSchedule
	err := s.store.WithTenantLock(ctx, in.TenantID, func(q db.Queries) error {
		count, err := q.CountSchedules(ctx, in.TenantID)
		if err != nil {
			return err
		}

		now := s.now()
		sc := model.ContentSchedule{
			ID:          s.newID(),
			TenantID:    in.TenantID,
			Name:        name,
			Description: in.Description,
			IsActive:    in.IsActive,
			IsDefault:   count == 0,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if sc.IsDefault {
			sc.IsActive = true
		}
		if err := q.InsertSchedule(ctx, sc); err != nil {
			return err
		}
		if err := q.ReplaceScheduleItems(ctx, sc.ID, s.buildItems(sc.ID, in.Slides, orders, now)); err != nil {
			return err
		}

		out, err = q.GetSchedule(ctx, in.TenantID, sc.ID)
		return err
	})
	return out, err
}

// Update applies a partial update. Slide replacement is all-or-nothing.
func (s *Service) Update(ctx context.Context, tenantID, scheduleID string, in UpdateInput) (model.ContentSchedule, error) {
	if err := s.validateStruct(in); err != nil {
		return model.ContentSchedule{}, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return model.ContentSchedule{}, &ValidationError{Message: "name must not be blank", Fields: []string{"name"}}
	}

	var orders []int
	if in.Slides != nil && len(*in.Slides) > 0 {
		if err := s.checkSlides(ctx, tenantID, *in.Slides); err != nil {
			return model.ContentSchedule{}, err
		}
		orders = normalizeOrders(*in.Slides)
	}

	var out model.ContentSchedule
	err := s.store.WithTenantLock(ctx, tenantID, func(q db.Queries) error {
		sc, err := q.GetSchedule(ctx, tenantID, scheduleID)
		if err != nil {
			return err
		}
		if in.IsActive != nil && !*in.IsActive && sc.IsDefault {
			return errDeactivateDefault()
		}

		now := s.now()
		if in.Name != nil {
			sc.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			sc.Description = in.Description
		}
		if in.IsActive != nil {
			sc.IsActive = *in.IsActive
		}
		sc.UpdatedAt = now
		if err := q.UpdateSchedule(ctx, sc); err != nil {
			return err
		}

		if in.Slides != nil {
			items := s.buildItems(sc.ID, *in.Slides, orders, now)
			if err := q.ReplaceScheduleItems(ctx, sc.ID, items); err != nil {
				return err
			}
		}

		out, err = q.GetSchedule(ctx, tenantID, scheduleID)
		return err
	})
	if err != nil {
		return model.ContentSchedule{}, s.mapErr("update schedule", scheduleID, err)
	}

	log.Info().Str("tenant_id", tenantID).Str("schedule_id", scheduleID).
		Bool("slides_replaced", in.Slides != nil).Msg("schedule updated")
	s.notify(ctx, Event{TenantID: tenantID, ScheduleID: scheduleID, Action: ActionUpdated})
	return out, nil
}

// SetDefault moves the tenant's default flag to scheduleID and forces it active.
func (s *Service) SetDefault(ctx context.Context, tenantID, scheduleID string) (model.ContentSchedule, error) {
	sc, err := s.store.SwapDefault(ctx, tenantID, scheduleID)
	if err != nil {
		return model.ContentSchedule{}, s.mapErr("set default schedule", scheduleID, err)
	}

	log.Info().Str("tenant_id", tenantID).Str("schedule_id", scheduleID).Msg("default schedule changed")
	s.notify(ctx, Event{TenantID: tenantID, ScheduleID: scheduleID, Action: ActionDefaultChanged})
	return sc, nil
}

// Delete removes a schedule and its slides. Screens still pointing at it fall back
// to the default on their next resolve.
func (s *Service) Delete(ctx context.Context, tenantID, scheduleID string) error {
	err := s.store.WithTenantLock(ctx, tenantID, func(q db.Queries) error {
		sc, err := q.GetSchedule(ctx, tenantID, scheduleID)
		if err != nil {
			return err
		}
		count, err := q.CountSchedules(ctx, tenantID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return errLastSchedule()
		}
		if sc.IsDefault {
			return errDeleteDefault()
		}
		return q.DeleteSchedule(ctx, tenantID, scheduleID)
	})
	if err != nil {
		return s.mapErr("delete schedule", scheduleID, err)
	}

	log.Info().Str("tenant_id", tenantID).Str("schedule_id", scheduleID).Msg("schedule deleted")
	s.notify(ctx, Event{TenantID: tenantID, ScheduleID: scheduleID, Action: ActionDeleted})
	return nil
}

// Duplicate copies a schedule and its slide list under a new name. The copy is
// active and never the default; content items are shared, not copied.
func (s *Service) Duplicate(ctx context.Context, in DuplicateInput) (model.ContentSchedule, error) {
	if err := s.validateStruct(in); err != nil {
		return model.ContentSchedule{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.ContentSchedule{}, &ValidationError{Message: "name must not be blank", Fields: []string{"name"}}
	}

	var out model.ContentSchedule
	err := s.store.WithTenantLock(ctx, in.TenantID, func(q db.Queries) error {
		src, err := q.GetSchedule(ctx, in.TenantID, in.SourceScheduleID)
		if err != nil {
			return err
		}

		now := s.now()
		dup := model.ContentSchedule{
			ID:          s.newID(),
			TenantID:    in.TenantID,
			Name:        name,
			Description: src.Description,
			IsActive:    true,
			IsDefault:   false,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := q.InsertSchedule(ctx, dup); err != nil {
			return err
		}

		items := make([]model.ScheduleItem, len(src.Items))
		for i, it := range src.Items {
			items[i] = model.ScheduleItem{
				ID:            s.newID(),
				ScheduleID:    dup.ID,
				ContentItemID: it.ContentItemID,
				Order:         it.Order,
				CreatedAt:     now,
			}
		}
		if err := q.ReplaceScheduleItems(ctx, dup.ID, items); err != nil {
			return err
		}

		out, err = q.GetSchedule(ctx, in.TenantID, dup.ID)
		return err
	})
	if err != nil {
		return model.ContentSchedule{}, s.mapErr("duplicate schedule", in.SourceScheduleID, err)
	}

	log.Info().Str("tenant_id", in.TenantID).Str("source_id", in.SourceScheduleID).
		Str("schedule_id", out.ID).Msg("schedule duplicated")
	s.notify(ctx, Event{TenantID: in.TenantID, ScheduleID: out.ID, Action: ActionDuplicated})
	return out, nil
}

// AssignScreen points a screen at scheduleID, or back at the tenant default when nil.
func (s *Service) AssignScreen(ctx context.Context, tenantID, screenID string, scheduleID *string) (model.Screen, error) {
	if scheduleID != nil {
		if _, err := s.store.GetSchedule(ctx, tenantID, *scheduleID); err != nil {
			return model.Screen{}, s.mapErr("assign screen", *scheduleID, err)
		}
	}

	screen, err := s.store.SetScreenSchedule(ctx, tenantID, screenID, scheduleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return model.Screen{}, &NotFoundError{Resource: "screen", ID: screenID}
		}
		return model.Screen{}, s.internal("assign screen", err)
	}

	ev := Event{TenantID: tenantID, ScreenID: screenID, Action: ActionScreenAssigned}
	if scheduleID != nil {
		ev.ScheduleID = *scheduleID
	}
	s.notify(ctx, ev)
	return screen, nil
}

// checkSlides rejects placeholder ids and ids that are not content items of the tenant.
func (s *Service) checkSlides(ctx context.Context, tenantID string, slides []SlideRef) error {
	if len(slides) == 0 {
		return nil
	}
	if err := checkSlideIDs(slides); err != nil {
		return err
	}

	ids := slideIDs(slides)
	found, err := s.store.GetContentItems(ctx, tenantID, ids)
	if err != nil {
		return s.internal("load content items", err)
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "unknown content items", Fields: missing}
	}
	return nil
}

func (s *Service) buildItems(scheduleID string, slides []SlideRef, orders []int, now time.Time) []model.ScheduleItem {
	items := make([]model.ScheduleItem, len(slides))
	for i, sl := range slides {
		items[i] = model.ScheduleItem{
			ID:            s.newID(),
			ScheduleID:    scheduleID,
			ContentItemID: sl.ID,
			Order:         orders[i],
			CreatedAt:     now,
		}
	}
	return items
}

func (s *Service) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return &ValidationError{Message: "invalid input", Fields: fields}
	}
	return &ValidationError{Message: err.Error()}
}

// mapErr passes taxonomy errors through and converts storage errors.
func (s *Service) mapErr(op, scheduleID string, err error) error {
	var inv *InvariantError
	var val *ValidationError
	var nf *NotFoundError
	switch {
	case errors.As(err, &inv), errors.As(err, &val), errors.As(err, &nf):
		return err
	case errors.Is(err, db.ErrNotFound):
		return &NotFoundError{Resource: "schedule", ID: scheduleID}
	default:
		return s.internal(op, err)
	}
}

func (s *Service) internal(op string, err error) error {
	var ie *InternalError
	if errors.As(err, &ie) {
		return err
	}
	log.Error().Err(err).Str("op", op).Msg("schedule operation failed")
	return &InternalError{Op: op, Err: err}
}

func (s *Service) notify(ctx context.Context, ev Event) {
	s.notifier.SchedulesChanged(context.WithoutCancel(ctx), ev)
}
