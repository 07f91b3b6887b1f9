package gateway

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"todofast/internal/model"
	"todofast/pkg/dates"
)

// ListEvents fetches calendar events for an inclusive date range. The
// endpoint reports soft failures ({"success": false}) when no provider is
// connected; that yields an empty slice, not an error.
func (c *Client) ListEvents(ctx context.Context, startDate, endDate string) ([]model.CalendarEvent, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)

	var res eventsResponse
	if err := c.call(ctx, "list events", http.MethodGet, "/calendar/events/?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, nil
	}

	events := make([]model.CalendarEvent, 0, len(res.Events))
	for _, rec := range res.Events {
		ev, err := rec.toModel()
		if err != nil {
			c.l.Warnf(ctx, "gateway: skipping malformed event %s: %v", rec.ID, err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (r eventRecord) toModel() (model.CalendarEvent, error) {
	start, allDay, err := parseEventTime(r.Start)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	end, _, err := parseEventTime(r.End)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	return model.CalendarEvent{
		ID:     r.ID,
		Title:  r.Title,
		Start:  start,
		End:    end,
		AllDay: allDay,
	}, nil
}

// parseEventTime accepts a bare date (all-day event) or RFC 3339.
func parseEventTime(v string) (time.Time, bool, error) {
	if len(v) == len(dates.DateFormat) {
		t, err := time.Parse(dates.DateFormat, v)
		return t, true, err
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, false, err
}
