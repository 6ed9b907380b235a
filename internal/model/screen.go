package model

import "time"

// Screen represents a display device in the system.
// A nil ScheduleID means the screen plays the tenant default.
type Screen struct {
	ID          string    `db:"id"           json:"id"`
	TenantID    string    `db:"tenant_id"    json:"tenant_id"`
	Name        string    `db:"name"         json:"name"`
	Status      string    `db:"status"       json:"status"`
	Orientation string    `db:"orientation"  json:"orientation"`
	ScheduleID  *string   `db:"schedule_id"  json:"schedule_id"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}
