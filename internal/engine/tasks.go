package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"todofast/internal/cache"
	"todofast/internal/gateway"
	"todofast/internal/model"
	"todofast/pkg/dates"
)

func (e *implEngine) CreateTask(ctx context.Context, sc model.Scope, input CreateTaskInput) (model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if input.DueTime != "" && !dates.Valid(input.DueTime) {
		return model.Task{}, ErrInvalidDueTime
	}

	t := model.Task{
		LocalID:     uuid.NewString(),
		Title:       title,
		Description: input.Description,
		Priority:    clampPriority(input.Priority),
		DueTime:     input.DueTime,
		Project:     input.Project,
		Revision:    1,
		UpdatedAt:   time.Now(),
	}

	e.apply(ctx, sc, func() []string {
		e.tasks = append(e.tasks, t)
		return []string{cache.DataTasks}
	}, func(bg context.Context) {
		rec, err := e.gw.CreateTask(bg, taskPayload(t))
		if err != nil {
			e.l.Warnf(bg, "engine: create task %q: %v", t.LocalID, err)
			return
		}
		e.confirmTask(bg, sc, t.LocalID, rec)
	})
	return t, nil
}

func (e *implEngine) UpdateTask(ctx context.Context, sc model.Scope, task model.Task) error {
	title := strings.TrimSpace(task.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if task.DueTime != "" && !dates.Valid(task.DueTime) {
		return ErrInvalidDueTime
	}

	key := task.Key()
	var (
		id      int64
		tag     int64
		payload gateway.TaskPayload
		found   bool
	)
	e.apply(ctx, sc, func() []string {
		cur, _ := e.findTaskLocked(key)
		if cur == nil {
			return nil
		}
		found = true
		cur.Title = title
		cur.Description = task.Description
		cur.Priority = clampPriority(task.Priority)
		cur.DueTime = task.DueTime
		cur.Project = task.Project
		cur.Completed = task.Completed
		cur.Revision++
		cur.UpdatedAt = time.Now()
		id, tag, payload = cur.ID, cur.Revision, taskPayload(*cur)
		return []string{cache.DataTasks}
	}, func(bg context.Context) {
		if !found || id == 0 {
			return
		}
		rec, err := e.gw.UpdateTask(bg, id, payload)
		if err != nil {
			e.l.Warnf(bg, "engine: update task %d: %v", id, err)
			return
		}
		e.mergeTaskRecord(bg, sc, key, rec, tag)
	})
	if !found {
		return ErrTaskNotFound
	}
	return nil
}

// ToggleTask flips a task's completion state. A failed reconciliation
// reverts the flip unless a later local edit already superseded it.
func (e *implEngine) ToggleTask(ctx context.Context, sc model.Scope, key string) error {
	var (
		id        int64
		tag       int64
		completed bool
		found     bool
	)
	e.apply(ctx, sc, func() []string {
		cur, _ := e.findTaskLocked(key)
		if cur == nil {
			return nil
		}
		found = true
		cur.Completed = !cur.Completed
		cur.Revision++
		cur.UpdatedAt = time.Now()
		id, tag, completed = cur.ID, cur.Revision, cur.Completed
		return []string{cache.DataTasks}
	}, func(bg context.Context) {
		if !found || id == 0 {
			return
		}
		if _, err := e.gw.SetTaskCompletion(bg, id, completed); err != nil {
			e.l.Warnf(bg, "engine: toggle task %d: %v", id, err)
			e.revertToggle(bg, sc, key, tag)
		}
	})
	if !found {
		return ErrTaskNotFound
	}
	return nil
}

func (e *implEngine) DeleteTask(ctx context.Context, sc model.Scope, key string) error {
	var (
		id    int64
		found bool
	)
	e.apply(ctx, sc, func() []string {
		cur, parent := e.findTaskLocked(key)
		if cur == nil {
			return nil
		}
		found = true
		id = cur.ID
		if parent != nil {
			parent.Subtasks = removeTask(parent.Subtasks, key)
		} else {
			e.tasks = removeTask(e.tasks, key)
		}
		return []string{cache.DataTasks}
	}, func(bg context.Context) {
		if !found || id == 0 {
			return
		}
		if err := e.gw.DeleteTask(bg, id); err != nil {
			e.l.Warnf(bg, "engine: delete task %d: %v", id, err)
		}
	})
	if !found {
		return ErrTaskNotFound
	}
	return nil
}

func (e *implEngine) CreateSubtask(ctx context.Context, sc model.Scope, parentKey string, input CreateTaskInput) (model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if input.DueTime != "" && !dates.Valid(input.DueTime) {
		return model.Task{}, ErrInvalidDueTime
	}

	sub := model.Task{
		LocalID:     uuid.NewString(),
		Title:       title,
		Description: input.Description,
		Priority:    clampPriority(input.Priority),
		DueTime:     input.DueTime,
		Revision:    1,
		UpdatedAt:   time.Now(),
	}

	var (
		parentID int64
		found    bool
	)
	e.apply(ctx, sc, func() []string {
		parent, outer := e.findTaskLocked(parentKey)
		if parent == nil || outer != nil {
			return nil
		}
		found = true
		parentID = parent.ID
		if parentID != 0 {
			sub.ParentID = &parentID
		}
		sub.Project = parent.Project
		parent.Subtasks = append(parent.Subtasks, sub)
		return []string{cache.DataTasks}
	}, func(bg context.Context) {
		if !found || parentID == 0 {
			return
		}
		rec, err := e.gw.CreateSubtask(bg, parentID, taskPayload(sub))
		if err != nil {
			e.l.Warnf(bg, "engine: create subtask of %d: %v", parentID, err)
			return
		}
		e.confirmTask(bg, sc, sub.LocalID, rec)
	})
	if !found {
		return model.Task{}, ErrTaskNotFound
	}
	return sub, nil
}

// RescheduleOverdue moves every incomplete task due before toDate to
// toDate, preserving the time-of-day portion. It returns the number of
// tasks moved.
func (e *implEngine) RescheduleOverdue(ctx context.Context, sc model.Scope, toDate string) int {
	type pending struct {
		key     string
		id      int64
		tag     int64
		payload gateway.TaskPayload
	}
	var moved []pending

	e.apply(ctx, sc, func() []string {
		for i := range e.tasks {
			t := &e.tasks[i]
			if t.Completed || t.DueTime == "" || dates.DatePart(t.DueTime) >= toDate {
				continue
			}
			if dates.HasTime(t.DueTime) {
				t.DueTime = toDate + t.DueTime[len(dates.DateFormat):]
			} else {
				t.DueTime = toDate
			}
			t.Revision++
			t.UpdatedAt = time.Now()
			moved = append(moved, pending{key: t.Key(), id: t.ID, tag: t.Revision, payload: taskPayload(*t)})
		}
		if len(moved) == 0 {
			return nil
		}
		return []string{cache.DataTasks}
	}, func(bg context.Context) {
		for _, p := range moved {
			if p.id == 0 {
				continue
			}
			rec, err := e.gw.UpdateTask(bg, p.id, p.payload)
			if err != nil {
				e.l.Warnf(bg, "engine: reschedule task %d: %v", p.id, err)
				continue
			}
			e.mergeTaskRecord(bg, sc, p.key, rec, p.tag)
		}
	})
	return len(moved)
}

// confirmTask attaches the server-assigned id to a locally created task.
// The task may have been deleted or edited meanwhile, so only identity
// fields are adopted.
func (e *implEngine) confirmTask(ctx context.Context, sc model.Scope, localID string, rec gateway.TaskRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur, _ := e.findTaskLocked(localID)
	if cur == nil {
		e.l.Debugf(ctx, "engine: task %q deleted before confirmation, dropping id %d", localID, rec.ID)
		return
	}
	cur.ID = rec.ID
	if cur.ParentID == nil && rec.ParentTask != nil {
		cur.ParentID = rec.ParentTask
	}
	e.persistLocked(ctx, sc, cache.DataTasks)
}

// mergeTaskRecord folds a server echo into the local task. When a later
// local edit bumped the revision past tag, only the canonical id is taken
// so the newer edit survives.
func (e *implEngine) mergeTaskRecord(ctx context.Context, sc model.Scope, key string, rec gateway.TaskRecord, tag int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur, _ := e.findTaskLocked(key)
	if cur == nil {
		return
	}
	if cur.ID == 0 {
		cur.ID = rec.ID
	}
	if cur.Revision > tag {
		e.persistLocked(ctx, sc, cache.DataTasks)
		return
	}
	cur.Title = rec.Title
	cur.Description = rec.Description
	cur.Priority = rec.Priority
	cur.DueTime = rec.DueTime
	cur.Project = rec.Project
	cur.Completed = rec.IsCompleted
	e.persistLocked(ctx, sc, cache.DataTasks)
}

func (e *implEngine) revertToggle(ctx context.Context, sc model.Scope, key string, tag int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur, _ := e.findTaskLocked(key)
	if cur == nil || cur.Revision != tag {
		return
	}
	cur.Completed = !cur.Completed
	cur.Revision++
	cur.UpdatedAt = time.Now()
	e.persistLocked(ctx, sc, cache.DataTasks)
}

// findTaskLocked locates a task by key across the top level and one level
// of subtasks. Callers hold e.mu.
func (e *implEngine) findTaskLocked(key string) (task, parent *model.Task) {
	for i := range e.tasks {
		if e.tasks[i].Key() == key {
			return &e.tasks[i], nil
		}
		for j := range e.tasks[i].Subtasks {
			if e.tasks[i].Subtasks[j].Key() == key {
				return &e.tasks[i].Subtasks[j], &e.tasks[i]
			}
		}
	}
	return nil, nil
}

func removeTask(tasks []model.Task, key string) []model.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if t.Key() != key {
			out = append(out, t)
		}
	}
	return out
}

func taskPayload(t model.Task) gateway.TaskPayload {
	return gateway.TaskPayload{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueTime:     t.DueTime,
		ProjectName: t.Project,
		ParentTask:  t.ParentID,
		Completed:   t.Completed,
	}
}

func clampPriority(p int) int {
	if p < 1 || p > 4 {
		return 4
	}
	return p
}
