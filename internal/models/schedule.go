package models

import "net/url"

// ScheduleBlock is a recurring weekly study slot. DayOfWeek runs 0 (Monday) to 6.
type ScheduleBlock struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	DayOfWeek    int       `json:"day_of_week"`
	StartTime    string    `json:"start_time"`
	Duration     int       `json:"duration"`
	ActivityType string    `json:"activity_type"`
	ActivityName string    `json:"activity_name"`
	Completed    bool      `json:"completed"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
}

// ScheduleBlockCreate is the payload for POST /schedule.
type ScheduleBlockCreate struct {
	DayOfWeek    int    `json:"day_of_week"`
	StartTime    string `json:"start_time"`
	Duration     int    `json:"duration"`
	ActivityType string `json:"activity_type"`
	ActivityName string `json:"activity_name"`
	Completed    bool   `json:"completed"`
}

// ScheduleBlockUpdate is the payload for PUT /schedule/{id}. Nil fields are left unchanged.
type ScheduleBlockUpdate struct {
	DayOfWeek    *int    `json:"day_of_week,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	Duration     *int    `json:"duration,omitempty"`
	ActivityType *string `json:"activity_type,omitempty"`
	ActivityName *string `json:"activity_name,omitempty"`
	Completed    *bool   `json:"completed,omitempty"`
}

// ScheduleFilter narrows GET /schedule.
type ScheduleFilter struct {
	DayOfWeek *int
}

// Query implements [Filter].
func (f ScheduleFilter) Query() url.Values {
	q := url.Values{}
	setInt(q, "day_of_week", f.DayOfWeek)
	return q
}
