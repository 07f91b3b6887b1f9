package eventcache

import (
	"context"
	"time"

	"todofast/internal/model"
)

// EventSource fetches calendar events for an inclusive date range. The
// gateway and the Google Calendar client both satisfy it.
type EventSource interface {
	ListEvents(ctx context.Context, startDate, endDate string) ([]model.CalendarEvent, error)
}

// Cache is a lazily filled calendar event cache. Ranges are fetched at
// most once: a request fully inside an already-fetched interval is served
// from memory, and concurrent requests for the same range share one fetch.
type Cache interface {
	// Events returns every cached event.
	Events() []model.CalendarEvent

	// EventsIn returns the cached events overlapping the date range.
	EventsIn(startDate, endDate string) []model.CalendarEvent

	// RequestRange ensures the range is cached, fetching it if no
	// recorded interval covers it, and returns the events in range.
	RequestRange(ctx context.Context, startDate, endDate string) ([]model.CalendarEvent, error)

	// Prime fetches the initial window of windowMonths on each side of
	// the reference date.
	Prime(ctx context.Context, around time.Time, windowMonths int) error

	// StartPolling refreshes every cached interval on the given period
	// until the returned stop function or the context cancels it.
	// Starting again cancels the previous poller.
	StartPolling(ctx context.Context, interval time.Duration) (stop func())

	// StopPolling cancels the running poller, if any.
	StopPolling()

	// Reset drops all cached events and intervals and stops polling.
	Reset()
}
