package eventcache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"todofast/internal/gateway"
	"todofast/internal/model"
	"todofast/pkg/dates"
	pkgLog "todofast/pkg/log"
)

type call struct {
	done chan struct{}
	err  error
}

type implCache struct {
	l      pkgLog.Logger
	source EventSource

	mu         sync.Mutex
	events     []model.CalendarEvent
	byID       map[string]int
	intervals  []model.CachedInterval
	inflight   map[string]*call
	cancelPoll context.CancelFunc
}

var _ Cache = &implCache{}

func New(l pkgLog.Logger, source EventSource) Cache {
	return &implCache{
		l:        l,
		source:   source,
		byID:     make(map[string]int),
		inflight: make(map[string]*call),
	}
}

func (c *implCache) Events() []model.CalendarEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CalendarEvent, len(c.events))
	copy(out, c.events)
	return out
}

func (c *implCache) EventsIn(startDate, endDate string) []model.CalendarEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eventsInLocked(startDate, endDate)
}

func (c *implCache) RequestRange(ctx context.Context, startDate, endDate string) ([]model.CalendarEvent, error) {
	if endDate < startDate {
		startDate, endDate = endDate, startDate
	}

	c.mu.Lock()
	if c.coveredLocked(startDate, endDate) {
		out := c.eventsInLocked(startDate, endDate)
		c.mu.Unlock()
		return out, nil
	}

	key := startDate + "|" + endDate
	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-inflight.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if inflight.err != nil {
			return nil, inflight.err
		}
		return c.EventsIn(startDate, endDate), nil
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	events, err := c.source.ListEvents(ctx, startDate, endDate)
	if err != nil {
		err = fmt.Errorf("fetch events %s..%s: %w", startDate, endDate, err)
	}

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		c.mergeLocked(events)
		c.recordIntervalLocked(startDate, endDate)
	}
	cl.err = err
	close(cl.done)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	out := c.eventsInLocked(startDate, endDate)
	c.mu.Unlock()
	return out, nil
}

func (c *implCache) Prime(ctx context.Context, around time.Time, windowMonths int) error {
	if windowMonths <= 0 {
		windowMonths = 1
	}
	start := around.AddDate(0, -windowMonths, 0).Format(dates.DateFormat)
	end := around.AddDate(0, windowMonths, 0).Format(dates.DateFormat)
	_, err := c.RequestRange(ctx, start, end)
	return err
}

func (c *implCache) StartPolling(ctx context.Context, interval time.Duration) (stop func()) {
	// Poll refreshes are background traffic and must pass the gateway's
	// background rate limiter.
	pollCtx, cancel := context.WithCancel(gateway.AsBackground(ctx))

	c.mu.Lock()
	if c.cancelPoll != nil {
		c.cancelPoll()
	}
	c.cancelPoll = cancel
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				c.refresh(pollCtx)
			}
		}
	}()
	return cancel
}

func (c *implCache) StopPolling() {
	c.mu.Lock()
	cancel := c.cancelPoll
	c.cancelPoll = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *implCache) Reset() {
	c.StopPolling()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
	c.byID = make(map[string]int)
	c.intervals = nil
}

// refresh refetches every recorded interval. Unlike the lazy fill, a
// refresh replaces the events inside the interval so remote deletions and
// edits propagate.
func (c *implCache) refresh(ctx context.Context) {
	c.mu.Lock()
	intervals := make([]model.CachedInterval, len(c.intervals))
	copy(intervals, c.intervals)
	c.mu.Unlock()

	for _, iv := range intervals {
		events, err := c.source.ListEvents(ctx, iv.Start, iv.End)
		if err != nil {
			c.l.Warnf(ctx, "eventcache: refresh %s..%s: %v", iv.Start, iv.End, err)
			continue
		}
		c.mu.Lock()
		c.replaceLocked(iv.Start, iv.End, events)
		c.mu.Unlock()
	}
}

func (c *implCache) coveredLocked(startDate, endDate string) bool {
	for _, iv := range c.intervals {
		if iv.Covers(startDate, endDate) {
			return true
		}
	}
	return false
}

// recordIntervalLocked adds the interval, folding overlapping or touching
// intervals into one so containment checks keep matching grown ranges.
func (c *implCache) recordIntervalLocked(startDate, endDate string) {
	merged := model.CachedInterval{Start: startDate, End: endDate}
	rest := c.intervals[:0]
	for _, iv := range c.intervals {
		if iv.Start <= merged.End && merged.Start <= iv.End {
			if iv.Start < merged.Start {
				merged.Start = iv.Start
			}
			if iv.End > merged.End {
				merged.End = iv.End
			}
			continue
		}
		rest = append(rest, iv)
	}
	c.intervals = append(rest, merged)
}

// mergeLocked adds fetched events, keeping the existing copy on id
// collisions so overlapping fetches never flicker.
func (c *implCache) mergeLocked(events []model.CalendarEvent) {
	for _, ev := range events {
		if _, ok := c.byID[ev.ID]; ok {
			continue
		}
		c.events = append(c.events, ev)
		c.byID[ev.ID] = len(c.events) - 1
	}
}

// replaceLocked swaps out every event inside the date range for the
// freshly fetched set.
func (c *implCache) replaceLocked(startDate, endDate string, events []model.CalendarEvent) {
	kept := c.events[:0]
	for _, ev := range c.events {
		if eventInRange(ev, startDate, endDate) {
			continue
		}
		kept = append(kept, ev)
	}
	c.events = kept
	c.reindexLocked()
	c.mergeLocked(events)
}

func (c *implCache) reindexLocked() {
	c.byID = make(map[string]int, len(c.events))
	for i, ev := range c.events {
		c.byID[ev.ID] = i
	}
}

func (c *implCache) eventsInLocked(startDate, endDate string) []model.CalendarEvent {
	var out []model.CalendarEvent
	for _, ev := range c.events {
		if eventInRange(ev, startDate, endDate) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func eventInRange(ev model.CalendarEvent, startDate, endDate string) bool {
	evStart := ev.Start.Format(dates.DateFormat)
	evEnd := ev.End.Format(dates.DateFormat)
	if evEnd < evStart {
		evEnd = evStart
	}
	return evStart <= endDate && evEnd >= startDate
}
