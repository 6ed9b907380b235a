// Package notify tells screens that their tenant's schedules changed.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/mqtt"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/schedule"
)

type Publisher interface {
	Publish(topic string, payload []byte) error
}

type RevisionCounter interface {
	Bump(ctx context.Context, tenantID string) (int64, error)
}

// Message is the JSON body published on the tenant topic.
type Message struct {
	Type       string `json:"type"`
	TenantID   string `json:"tenant_id"`
	ScheduleID string `json:"schedule_id,omitempty"`
	ScreenID   string `json:"screen_id,omitempty"`
	Action     string `json:"action"`
	Revision   int64  `json:"revision"`
	Timestamp  int64  `json:"timestamp"`
}

// Notifier bumps the tenant revision and publishes a schedules_updated message.
// Either dependency may be nil. Failures are logged and swallowed.
type Notifier struct {
	publisher Publisher
	revisions RevisionCounter
	now       func() time.Time
}

var _ schedule.Notifier = (*Notifier)(nil)

func New(publisher Publisher, revisions RevisionCounter) *Notifier {
	return &Notifier{publisher: publisher, revisions: revisions, now: time.Now}
}

func (n *Notifier) SchedulesChanged(ctx context.Context, ev schedule.Event) {
	var rev int64
	if n.revisions != nil {
		r, err := n.revisions.Bump(ctx, ev.TenantID)
		if err != nil {
			log.Warn().Err(err).Str("tenant_id", ev.TenantID).Msg("schedule revision not bumped")
		}
		rev = r
	}

	if n.publisher == nil {
		return
	}
	body, err := json.Marshal(Message{
		Type:       "schedules_updated",
		TenantID:   ev.TenantID,
		ScheduleID: ev.ScheduleID,
		ScreenID:   ev.ScreenID,
		Action:     ev.Action,
		Revision:   rev,
		Timestamp:  n.now().Unix(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to encode schedule notice")
		return
	}
	if err := n.publisher.Publish(mqtt.TenantTopic(ev.TenantID), body); err != nil {
		log.Warn().Err(err).Str("tenant_id", ev.TenantID).Str("action", ev.Action).
			Msg("failed to notify screens")
	}
}
