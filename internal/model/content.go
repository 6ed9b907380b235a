package model

import "time"

// content types known to the console; the store accepts any non-empty type string
const (
	ContentTypeAnnouncement = "ANNOUNCEMENT"
	ContentTypeEvent        = "EVENT"
	ContentTypeVerseHadith  = "VERSE_HADITH"
	ContentTypeCustom       = "CUSTOM"
	ContentTypeAsmaAlHusna  = "ASMA_AL_HUSNA"
)

// ContentItem is owned by the content CRUD subsystem; schedules only hold its id.
type ContentItem struct {
	ID        string     `db:"id"          json:"id"`
	TenantID  string     `db:"tenant_id"   json:"tenant_id"`
	Title     string     `db:"title"       json:"title"`
	Type      string     `db:"type"        json:"type"`
	Payload   string     `db:"payload"     json:"payload"`
	Duration  int        `db:"duration"    json:"duration"`
	IsActive  bool       `db:"is_active"   json:"is_active"`
	StartDate *time.Time `db:"start_date"  json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date"    json:"end_date,omitempty"`
	CreatedAt time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"  json:"updated_at"`
}

// PlayableAt reports whether the item is active and inside its activation window.
func (c ContentItem) PlayableAt(at time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.StartDate != nil && at.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && at.After(*c.EndDate) {
		return false
	}
	return true
}
