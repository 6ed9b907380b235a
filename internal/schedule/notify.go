package schedule

import "context"

const (
	ActionCreated        = "created"
	ActionUpdated        = "updated"
	ActionDeleted        = "deleted"
	ActionDuplicated     = "duplicated"
	ActionDefaultChanged = "default_changed"
	ActionScreenAssigned = "screen_assigned"
)

// Event describes a committed change to a tenant's schedules.
type Event struct {
	TenantID   string
	ScheduleID string
	ScreenID   string
	Action     string
}

// Notifier is told about every committed mutation. It must not fail the caller.
type Notifier interface {
	SchedulesChanged(ctx context.Context, ev Event)
}

type nopNotifier struct{}

func (nopNotifier) SchedulesChanged(context.Context, Event) {}
