package packets

import "time"

type SlideResponse struct {
	ID            string `json:"id"`
	ContentItemID string `json:"contentItemId"`
	Order         int    `json:"order"`
	Title         string `json:"title,omitempty"`
	Type          string `json:"type"`
	Duration      int    `json:"duration"`
	Missing       bool   `json:"missing,omitempty"`
}

type ScheduleResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
	IsDefault   bool            `json:"isDefault"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Items       []SlideResponse `json:"items"`
}

// ScreenResponse flattens times to RFC3339
type ScreenResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Orientation string  `json:"orientation"`
	ScheduleID  *string `json:"scheduleId"`
	Source      string  `json:"source,omitempty"`
	EffectiveID *string `json:"effectiveScheduleId,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}
