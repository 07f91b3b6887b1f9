package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todofast/internal/cache"
	"todofast/internal/gateway"
	"todofast/internal/model"
)

// LoadAll replaces the collections with fresh server state. When the
// gateway fails the cached snapshots are restored instead, so a user with
// no connectivity still sees their last known data.
func (e *implEngine) LoadAll(ctx context.Context, sc model.Scope) error {
	tasks, projects, teams, err := e.fetchAll(ctx)
	if err != nil {
		e.l.Warnf(ctx, "engine: bulk load failed, falling back to cache: %v", err)
		if cacheErr := e.LoadFromCache(sc); cacheErr != nil {
			return fmt.Errorf("bulk load: %w", err)
		}
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = tasks
	e.projects = projects
	e.teams = teams
	e.persistLocked(ctx, sc, cache.DataTasks, cache.DataProjects, cache.DataTeams)
	return nil
}

func (e *implEngine) LoadFromCache(sc model.Scope) error {
	var (
		tasks    []model.Task
		projects []model.Project
		teams    []model.Team
	)
	missing := 0
	for _, load := range []struct {
		dataType string
		out      any
	}{
		{cache.DataTasks, &tasks},
		{cache.DataProjects, &projects},
		{cache.DataTeams, &teams},
	} {
		err := e.store.Get(cache.UserKey(sc.UserID, load.dataType), load.out)
		switch {
		case errors.Is(err, cache.ErrNotFound):
			missing++
		case err != nil:
			return fmt.Errorf("load %s from cache: %w", load.dataType, err)
		}
	}
	if missing == 3 {
		return cache.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = tasks
	e.projects = projects
	e.teams = teams
	return nil
}

// Reload refetches the collections and merges them in. Anything edited
// locally after the fetch started wins over the server copy, and
// unconfirmed local entities are never dropped.
func (e *implEngine) Reload(ctx context.Context, sc model.Scope) error {
	fetchStart := time.Now()
	tasks, projects, teams, err := e.fetchAll(gateway.AsBackground(ctx))
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = mergeReloadTasks(e.tasks, tasks, fetchStart)
	e.projects = mergeReloadProjects(e.projects, projects, fetchStart)
	e.teams = mergeReloadTeams(e.teams, teams, fetchStart)
	e.persistLocked(ctx, sc, cache.DataTasks, cache.DataProjects, cache.DataTeams)
	return nil
}

func (e *implEngine) fetchAll(ctx context.Context) ([]model.Task, []model.Project, []model.Team, error) {
	taskRecs, err := e.gw.ListTasks(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	projectRecs, err := e.gw.ListProjects(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	teamRecs, err := e.gw.ListTeams(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return tasksFromRecords(taskRecs), projectsFromRecords(projectRecs), teamsFromRecords(teamRecs), nil
}

// tasksFromRecords nests the flat server list: records carrying a parent
// reference become subtasks, everything else stays top level. A subtask
// whose parent is missing is promoted to top level rather than lost.
func tasksFromRecords(recs []gateway.TaskRecord) []model.Task {
	byID := make(map[int64]int, len(recs))
	var tasks []model.Task
	for _, r := range recs {
		if r.ParentTask != nil {
			continue
		}
		tasks = append(tasks, taskFromRecord(r))
		byID[r.ID] = len(tasks) - 1
	}
	for _, r := range recs {
		if r.ParentTask == nil {
			continue
		}
		sub := taskFromRecord(r)
		if i, ok := byID[*r.ParentTask]; ok {
			tasks[i].Subtasks = append(tasks[i].Subtasks, sub)
		} else {
			sub.ParentID = nil
			tasks = append(tasks, sub)
		}
	}
	return tasks
}

func taskFromRecord(r gateway.TaskRecord) model.Task {
	updatedAt, _ := time.Parse(time.RFC3339, r.UpdatedAt)
	return model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		DueTime:     r.DueTime,
		Project:     r.Project,
		ParentID:    r.ParentTask,
		Completed:   r.IsCompleted,
		UpdatedAt:   updatedAt,
	}
}

func projectsFromRecords(recs []gateway.ProjectRecord) []model.Project {
	out := make([]model.Project, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.Project{
			ID:     r.ID,
			Name:   r.Name,
			Color:  r.Color,
			TeamID: r.TeamID,
		})
	}
	return out
}

func teamsFromRecords(recs []gateway.TeamRecord) []model.Team {
	out := make([]model.Team, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.Team{
			ID:      r.ID,
			Name:    r.Name,
			Color:   r.Color,
			Members: r.Members,
		})
	}
	return out
}

func mergeReloadTasks(local, incoming []model.Task, fetchStart time.Time) []model.Task {
	byKey := make(map[string]*model.Task, len(local))
	for i := range local {
		byKey[local[i].Key()] = &local[i]
	}

	result := make([]model.Task, 0, len(incoming))
	for _, inc := range incoming {
		l, ok := byKey[inc.Key()]
		if !ok {
			result = append(result, inc)
			continue
		}
		if l.UpdatedAt.After(fetchStart) {
			result = append(result, *l)
			continue
		}
		inc.LocalID = l.LocalID
		inc.Revision = l.Revision
		inc.Subtasks = mergeReloadTasks(l.Subtasks, inc.Subtasks, fetchStart)
		result = append(result, inc)
	}

	seen := make(map[string]bool, len(incoming))
	for _, inc := range incoming {
		seen[inc.Key()] = true
	}
	for i := range local {
		l := local[i]
		if seen[l.Key()] {
			continue
		}
		if l.ID == 0 || l.UpdatedAt.After(fetchStart) {
			result = append(result, l)
		}
	}
	return result
}

func mergeReloadProjects(local, incoming []model.Project, fetchStart time.Time) []model.Project {
	byKey := make(map[string]*model.Project, len(local))
	for i := range local {
		byKey[local[i].Key()] = &local[i]
	}

	result := make([]model.Project, 0, len(incoming))
	seen := make(map[string]bool, len(incoming))
	for _, inc := range incoming {
		seen[inc.Key()] = true
		if l, ok := byKey[inc.Key()]; ok {
			if l.UpdatedAt.After(fetchStart) {
				result = append(result, *l)
				continue
			}
			inc.LocalID = l.LocalID
			inc.Revision = l.Revision
		}
		result = append(result, inc)
	}
	for i := range local {
		l := local[i]
		if !seen[l.Key()] && (l.ID == 0 || l.UpdatedAt.After(fetchStart)) {
			result = append(result, l)
		}
	}
	return result
}

func mergeReloadTeams(local, incoming []model.Team, fetchStart time.Time) []model.Team {
	byKey := make(map[string]*model.Team, len(local))
	for i := range local {
		byKey[local[i].Key()] = &local[i]
	}

	result := make([]model.Team, 0, len(incoming))
	seen := make(map[string]bool, len(incoming))
	for _, inc := range incoming {
		seen[inc.Key()] = true
		if l, ok := byKey[inc.Key()]; ok {
			if l.UpdatedAt.After(fetchStart) {
				result = append(result, *l)
				continue
			}
			inc.LocalID = l.LocalID
			inc.Revision = l.Revision
		}
		result = append(result, inc)
	}
	for i := range local {
		l := local[i]
		if !seen[l.Key()] && (l.ID == 0 || l.UpdatedAt.After(fetchStart)) {
			result = append(result, l)
		}
	}
	return result
}
