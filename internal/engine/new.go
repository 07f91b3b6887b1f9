package engine

import (
	"context"
	"sync"
	"time"

	"todofast/internal/cache"
	"todofast/internal/gateway"
	"todofast/internal/model"
	pkgLog "todofast/pkg/log"
)

type implEngine struct {
	l       pkgLog.Logger
	gw      gateway.Gateway
	store   cache.Store
	timeout time.Duration

	mu       sync.Mutex
	tasks    []model.Task
	projects []model.Project
	teams    []model.Team

	wg sync.WaitGroup
}

var _ Engine = &implEngine{}

// New builds an Engine on top of the given gateway and cache store.
// reconcileTimeout bounds each background reconciliation.
func New(l pkgLog.Logger, gw gateway.Gateway, store cache.Store, reconcileTimeout time.Duration) Engine {
	if reconcileTimeout <= 0 {
		reconcileTimeout = 2 * time.Minute
	}
	return &implEngine{
		l:       l,
		gw:      gw,
		store:   store,
		timeout: reconcileTimeout,
	}
}

func (e *implEngine) Tasks() []model.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneTasks(e.tasks)
}

func (e *implEngine) Projects() []model.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Project, len(e.projects))
	copy(out, e.projects)
	return out
}

func (e *implEngine) Teams() []model.Team {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Team, len(e.teams))
	copy(out, e.teams)
	return out
}

func (e *implEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = nil
	e.projects = nil
	e.teams = nil
}

func (e *implEngine) Flush() {
	e.wg.Wait()
}

// apply runs mutate under the engine lock, persists the named collections
// for the scoped user, then schedules reconcile on a bounded background
// context. A nil reconcile makes the mutation local-only.
func (e *implEngine) apply(ctx context.Context, sc model.Scope, mutate func() []string, reconcile func(ctx context.Context)) {
	e.mu.Lock()
	kinds := mutate()
	e.persistLocked(ctx, sc, kinds...)
	e.mu.Unlock()

	if reconcile == nil {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		bg, cancel := context.WithTimeout(gateway.AsBackground(context.Background()), e.timeout)
		defer cancel()
		reconcile(bg)
	}()
}

// persistLocked writes the named collections to the user's cache. Callers
// hold e.mu. Cache failures are logged and swallowed; the in-memory state
// stays authoritative.
func (e *implEngine) persistLocked(ctx context.Context, sc model.Scope, kinds ...string) {
	for _, kind := range kinds {
		var err error
		switch kind {
		case cache.DataTasks:
			err = e.store.Put(cache.UserKey(sc.UserID, cache.DataTasks), e.tasks)
		case cache.DataProjects:
			err = e.store.Put(cache.UserKey(sc.UserID, cache.DataProjects), e.projects)
		case cache.DataTeams:
			err = e.store.Put(cache.UserKey(sc.UserID, cache.DataTeams), e.teams)
		}
		if err != nil {
			e.l.Warnf(ctx, "engine: persist %s: %v", kind, err)
		}
	}
}

func cloneTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if len(out[i].Subtasks) > 0 {
			subs := make([]model.Task, len(out[i].Subtasks))
			copy(subs, out[i].Subtasks)
			out[i].Subtasks = subs
		}
	}
	return out
}
