package packets

import "encoding/json"

// SlideRequest is one entry of a slide list. Order is optional.
type SlideRequest struct {
	ID    string `json:"id"`
	Order *int   `json:"order"`
}

type CreateScheduleRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description *string        `json:"description"`
	IsActive    *bool          `json:"isActive"`
	Slides      []SlideRequest `json:"slides"`
}

// UpdateScheduleRequest keeps Slides raw so that an absent field and [] differ.
type UpdateScheduleRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	IsActive    *bool           `json:"isActive"`
	Slides      json.RawMessage `json:"slides"`
}

type DuplicateScheduleRequest struct {
	SourceScheduleID string `json:"sourceScheduleId" binding:"required"`
	Name             string `json:"name" binding:"required"`
}

// AssignScreenScheduleRequest sets or (with null) clears a screen's schedule.
type AssignScreenScheduleRequest struct {
	ScheduleID *string `json:"scheduleId"`
}
