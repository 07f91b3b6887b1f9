package model

import (
	"strconv"
	"time"
)

// User is the client-side view of an account.
type User struct {
	Email          string `json:"email"`
	DisplayName    string `json:"name,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	EmailVerified  bool   `json:"email_verified"`
	FirstTimeLogin bool   `json:"first_time_login"`
}

// Project groups tasks. Name is unique within a user's projects and serves
// as the soft join key from Task.Project.
type Project struct {
	ID      int64  `json:"id,omitempty"`
	LocalID string `json:"local_id,omitempty"`

	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	TeamID *int64 `json:"team,omitempty"`

	Revision  int64     `json:"revision,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (p Project) Key() string {
	if p.ID != 0 {
		return formatID(p.ID)
	}
	return p.LocalID
}

// Team is a named group of members that projects can belong to.
type Team struct {
	ID      int64  `json:"id,omitempty"`
	LocalID string `json:"local_id,omitempty"`

	Name    string   `json:"name"`
	Color   string   `json:"color,omitempty"`
	Members []string `json:"members,omitempty"`

	Revision  int64     `json:"revision,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (t Team) Key() string {
	if t.ID != 0 {
		return formatID(t.ID)
	}
	return t.LocalID
}

// CalendarEvent is an externally sourced event. The engine only reads it
// and dedups by ID on ingestion.
type CalendarEvent struct {
	ID     string    `json:"id"`
	Title  string    `json:"title,omitempty"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	AllDay bool      `json:"all_day,omitempty"`
}

// CachedInterval marks a date span already fetched for calendar events.
// Bounds are inclusive date strings ("2006-01-02").
type CachedInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Covers reports whether [start, end] is fully contained in the interval.
func (ci CachedInterval) Covers(start, end string) bool {
	return ci.Start <= start && end <= ci.End
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
