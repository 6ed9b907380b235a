package model

import "time"

type ContentSchedule struct {
	ID          string         `db:"id"           json:"id"`
	TenantID    string         `db:"tenant_id"    json:"tenant_id"`
	Name        string         `db:"name"         json:"name"`
	Description *string        `db:"description"  json:"description,omitempty"`
	IsActive    bool           `db:"is_active"    json:"is_active"`
	IsDefault   bool           `db:"is_default"   json:"is_default"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"   json:"updated_at"`
	Items       []ScheduleItem `db:"-"            json:"items,omitempty"`
}

// ScheduleItem is one slide. Order is unique within a schedule.
type ScheduleItem struct {
	ID            string    `db:"id"               json:"id"`
	ScheduleID    string    `db:"schedule_id"      json:"schedule_id"`
	ContentItemID string    `db:"content_item_id"  json:"content_item_id"`
	Order         int       `db:"item_order"       json:"order"`
	CreatedAt     time.Time `db:"created_at"       json:"created_at"`
}
