package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"todofast/internal/cache"
	"todofast/internal/gateway"
	"todofast/internal/model"
)

func (e *implEngine) CreateProject(ctx context.Context, sc model.Scope, input CreateProjectInput) (model.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Project{}, ErrEmptyName
	}

	p := model.Project{
		LocalID:   uuid.NewString(),
		Name:      name,
		Color:     input.Color,
		TeamID:    input.TeamID,
		Revision:  1,
		UpdatedAt: time.Now(),
	}

	var dup bool
	e.apply(ctx, sc, func() []string {
		if e.projectByNameLocked(name) != nil {
			dup = true
			return nil
		}
		e.projects = append(e.projects, p)
		return []string{cache.DataProjects}
	}, func(bg context.Context) {
		if dup {
			return
		}
		rec, err := e.gw.CreateProject(bg, gateway.ProjectPayload{Name: name, Color: p.Color, TeamID: p.TeamID})
		if err != nil {
			e.l.Warnf(bg, "engine: create project %q: %v", name, err)
			return
		}
		e.confirmProject(bg, sc, p.LocalID, rec)
	})
	if dup {
		return model.Project{}, ErrDuplicateProject
	}
	return p, nil
}

// RenameProject renames a project and rewrites the project name on every
// task that referenced the old one, subtasks included. Tasks reference
// projects by name, so the cascade keeps them attached.
func (e *implEngine) RenameProject(ctx context.Context, sc model.Scope, key, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}

	var (
		id     int64
		color  string
		teamID *int64
		found  bool
		dup    bool
	)
	e.apply(ctx, sc, func() []string {
		cur := e.findProjectLocked(key)
		if cur == nil {
			return nil
		}
		if other := e.projectByNameLocked(newName); other != nil && other != cur {
			dup = true
			return nil
		}
		found = true
		oldName := cur.Name
		cur.Name = newName
		cur.Revision++
		cur.UpdatedAt = time.Now()
		id, color, teamID = cur.ID, cur.Color, cur.TeamID

		for i := range e.tasks {
			if e.tasks[i].Project == oldName {
				e.tasks[i].Project = newName
			}
			for j := range e.tasks[i].Subtasks {
				if e.tasks[i].Subtasks[j].Project == oldName {
					e.tasks[i].Subtasks[j].Project = newName
				}
			}
		}
		return []string{cache.DataProjects, cache.DataTasks}
	}, func(bg context.Context) {
		if !found || id == 0 {
			return
		}
		if _, err := e.gw.UpdateProject(bg, id, gateway.ProjectPayload{Name: newName, Color: color, TeamID: teamID}); err != nil {
			e.l.Warnf(bg, "engine: rename project %d: %v", id, err)
		}
	})
	if dup {
		return ErrDuplicateProject
	}
	if !found {
		return ErrProjectNotFound
	}
	return nil
}

// DeleteProject removes the project. Tasks keep their project name; a
// dangling name simply stops matching any project view.
func (e *implEngine) DeleteProject(ctx context.Context, sc model.Scope, key string) error {
	var (
		id    int64
		found bool
	)
	e.apply(ctx, sc, func() []string {
		cur := e.findProjectLocked(key)
		if cur == nil {
			return nil
		}
		found = true
		id = cur.ID
		out := e.projects[:0]
		for _, p := range e.projects {
			if p.Key() != key {
				out = append(out, p)
			}
		}
		e.projects = out
		return []string{cache.DataProjects}
	}, func(bg context.Context) {
		if !found || id == 0 {
			return
		}
		if err := e.gw.DeleteProject(bg, id); err != nil {
			e.l.Warnf(bg, "engine: delete project %d: %v", id, err)
		}
	})
	if !found {
		return ErrProjectNotFound
	}
	return nil
}

func (e *implEngine) confirmProject(ctx context.Context, sc model.Scope, localID string, rec gateway.ProjectRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.findProjectLocked(localID)
	if cur == nil {
		e.l.Debugf(ctx, "engine: project %q deleted before confirmation, dropping id %d", localID, rec.ID)
		return
	}
	cur.ID = rec.ID
	e.persistLocked(ctx, sc, cache.DataProjects)
}

func (e *implEngine) findProjectLocked(key string) *model.Project {
	for i := range e.projects {
		if e.projects[i].Key() == key {
			return &e.projects[i]
		}
	}
	return nil
}

func (e *implEngine) projectByNameLocked(name string) *model.Project {
	for i := range e.projects {
		if e.projects[i].Name == name {
			return &e.projects[i]
		}
	}
	return nil
}
