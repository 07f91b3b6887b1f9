package eventcache

import (
	"context"
	"fmt"
	"time"

	"todofast/internal/model"
	"todofast/pkg/dates"
	"todofast/pkg/gcalendar"
)

// GoogleSource adapts a Google Calendar client to EventSource, for
// installations that read the provider directly instead of going through
// the backend relay.
type GoogleSource struct {
	Client     *gcalendar.Client
	CalendarID string
	Location   *time.Location
}

var _ EventSource = &GoogleSource{}

func (g *GoogleSource) ListEvents(ctx context.Context, startDate, endDate string) ([]model.CalendarEvent, error) {
	loc := g.Location
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(dates.DateFormat, startDate, loc)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.ParseInLocation(dates.DateFormat, endDate, loc)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}

	events, err := g.Client.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: g.CalendarID,
		TimeMin:    start,
		TimeMax:    end.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.CalendarEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, model.CalendarEvent{
			ID:     ev.ID,
			Title:  ev.Summary,
			Start:  ev.StartTime,
			End:    ev.EndTime,
			AllDay: ev.AllDay,
		})
	}
	return out, nil
}
