// Package view projects the engine's task collection into what a client
// renders: date-bucketed sections and named filters. Everything here is
// pure; nothing touches the network or the cache.
package view

import (
	"strconv"
	"strings"
	"time"

	"todofast/internal/model"
	"todofast/pkg/dates"
)

// Mode selects how much of the horizon a classification shows.
type Mode string

const (
	// ModeAll buckets every incomplete task.
	ModeAll Mode = "all"
	// ModeToday shows only what is overdue or due today.
	ModeToday Mode = "today"
)

// Section keys, in render order.
const (
	SectionOverdue  = "overdue"
	SectionToday    = "today"
	SectionUpcoming = "upcoming"
	SectionNoDate   = "no_date"
)

// Named filter views. Project and team views are built with ProjectView
// and TeamView.
const (
	ViewInbox     = "inbox"
	ViewCompleted = "completed"

	projectViewPrefix = "project-"
	teamViewPrefix    = "team-"
)

// Section is one rendered bucket of tasks.
type Section struct {
	Key   string
	Tasks []model.Task
}

// Classify buckets incomplete top-level tasks by due date relative to
// reference. Sections come out in fixed order with empty ones omitted.
// Completed tasks are excluded; subtasks stay nested under their parents
// and are never classified on their own.
func Classify(tasks []model.Task, reference time.Time, mode Mode) []Section {
	today := reference.Format(dates.DateFormat)

	buckets := map[string][]model.Task{}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		key := SectionNoDate
		if t.DueTime != "" {
			switch due := dates.DatePart(t.DueTime); {
			case due < today:
				key = SectionOverdue
			case due == today:
				key = SectionToday
			default:
				key = SectionUpcoming
			}
		}
		buckets[key] = append(buckets[key], t)
	}

	order := []string{SectionOverdue, SectionToday, SectionUpcoming, SectionNoDate}
	if mode == ModeToday {
		order = []string{SectionOverdue, SectionToday}
	}
	var out []Section
	for _, key := range order {
		if len(buckets[key]) == 0 {
			continue
		}
		out = append(out, Section{Key: key, Tasks: buckets[key]})
	}
	return out
}

// ProjectView names the filter view for a project key.
func ProjectView(key string) string { return projectViewPrefix + key }

// TeamView names the filter view for a team id.
func TeamView(id int64) string { return teamViewPrefix + strconv.FormatInt(id, 10) }

// FilterForView selects the tasks a named view shows. The inbox holds
// tasks with no project or a dangling project name; the completed view is
// the only one that shows finished tasks.
func FilterForView(tasks []model.Task, projects []model.Project, view string) []model.Task {
	switch {
	case view == ViewCompleted:
		return filter(tasks, func(t model.Task) bool { return t.Completed })

	case view == ViewInbox:
		names := projectNames(projects)
		return filter(tasks, func(t model.Task) bool {
			return !t.Completed && (t.Project == "" || !names[t.Project])
		})

	case strings.HasPrefix(view, projectViewPrefix):
		key := strings.TrimPrefix(view, projectViewPrefix)
		var name string
		for _, p := range projects {
			if p.Key() == key {
				name = p.Name
				break
			}
		}
		if name == "" {
			return nil
		}
		return filter(tasks, func(t model.Task) bool { return !t.Completed && t.Project == name })

	case strings.HasPrefix(view, teamViewPrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(view, teamViewPrefix), 10, 64)
		if err != nil {
			return nil
		}
		names := map[string]bool{}
		for _, p := range projects {
			if p.TeamID != nil && *p.TeamID == id {
				names[p.Name] = true
			}
		}
		return filter(tasks, func(t model.Task) bool { return !t.Completed && names[t.Project] })

	default:
		return filter(tasks, func(t model.Task) bool { return !t.Completed })
	}
}

func filter(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func projectNames(projects []model.Project) map[string]bool {
	names := make(map[string]bool, len(projects))
	for _, p := range projects {
		names[p.Name] = true
	}
	return names
}
