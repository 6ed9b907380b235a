package packets

// RESPONSES FOR /api/tv/screens/*

type SlideResponse struct {
	ID       string `json:"id"`
	Order    int    `json:"order"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Payload  string `json:"payload"`
	Duration int    `json:"duration"`
}

// DisplayResponse is what a screen renders. Source "none" with no schedule means
// the tenant has nothing configured yet.
type DisplayResponse struct {
	ScreenID     string          `json:"screenId"`
	Source       string          `json:"source"`
	ScheduleID   *string         `json:"scheduleId"`
	ScheduleName string          `json:"scheduleName,omitempty"`
	Slides       []SlideResponse `json:"slides"`
}

type RevisionResponse struct {
	ScreenID string `json:"screenId"`
	Revision int64  `json:"revision"`
}
