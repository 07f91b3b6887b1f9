package engine

import (
	"context"

	"todofast/internal/model"
)

// Engine is the optimistic mutation pipeline. Every mutation lands in the
// in-memory collections and the persistent cache synchronously, then
// reconciles against the remote gateway in the background. The in-memory
// collections are the source of truth for the session; the cache is a
// mirror.
type Engine interface {
	// Snapshots of the current in-memory collections.
	Tasks() []model.Task
	Projects() []model.Project
	Teams() []model.Team

	// LoadAll bulk-loads tasks, projects and teams from the gateway,
	// falling back to the cached snapshots when the gateway fails.
	LoadAll(ctx context.Context, sc model.Scope) error

	// LoadFromCache restores the collections from the user's cached
	// snapshots without touching the network.
	LoadFromCache(sc model.Scope) error

	// Reload refetches the collections in the background. Entities
	// edited locally after the fetch started are kept over the stale
	// server copies.
	Reload(ctx context.Context, sc model.Scope) error

	// Reset drops all in-memory collections (logout).
	Reset()

	// Flush blocks until every in-flight reconciliation has finished.
	Flush()

	// Tasks
	CreateTask(ctx context.Context, sc model.Scope, input CreateTaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, sc model.Scope, task model.Task) error
	ToggleTask(ctx context.Context, sc model.Scope, key string) error
	DeleteTask(ctx context.Context, sc model.Scope, key string) error
	CreateSubtask(ctx context.Context, sc model.Scope, parentKey string, input CreateTaskInput) (model.Task, error)
	RescheduleOverdue(ctx context.Context, sc model.Scope, toDate string) int

	// Projects
	CreateProject(ctx context.Context, sc model.Scope, input CreateProjectInput) (model.Project, error)
	RenameProject(ctx context.Context, sc model.Scope, key, newName string) error
	DeleteProject(ctx context.Context, sc model.Scope, key string) error

	// Teams
	CreateTeam(ctx context.Context, sc model.Scope, input CreateTeamInput) (model.Team, error)
	UpdateTeam(ctx context.Context, sc model.Scope, team model.Team) error
	DeleteTeam(ctx context.Context, sc model.Scope, key string) error
}
