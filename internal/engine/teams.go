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

func (e *implEngine) CreateTeam(ctx context.Context, sc model.Scope, input CreateTeamInput) (model.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Team{}, ErrEmptyName
	}

	t := model.Team{
		LocalID:   uuid.NewString(),
		Name:      name,
		Color:     input.Color,
		Members:   input.Members,
		Revision:  1,
		UpdatedAt: time.Now(),
	}

	e.apply(ctx, sc, func() []string {
		e.teams = append(e.teams, t)
		return []string{cache.DataTeams}
	}, func(bg context.Context) {
		rec, err := e.gw.CreateTeam(bg, gateway.TeamPayload{Name: name, Color: t.Color, Members: t.Members})
		if err != nil {
			e.l.Warnf(bg, "engine: create team %q: %v", name, err)
			return
		}
		e.confirmTeam(bg, sc, t.LocalID, rec)
	})
	return t, nil
}

func (e *implEngine) UpdateTeam(ctx context.Context, sc model.Scope, team model.Team) error {
	name := strings.TrimSpace(team.Name)
	if name == "" {
		return ErrEmptyName
	}

	key := team.Key()
	var (
		id    int64
		found bool
	)
	e.apply(ctx, sc, func() []string {
		cur := e.findTeamLocked(key)
		if cur == nil {
			return nil
		}
		found = true
		cur.Name = name
		cur.Color = team.Color
		cur.Members = team.Members
		cur.Revision++
		cur.UpdatedAt = time.Now()
		id = cur.ID
		return []string{cache.DataTeams}
	}, func(bg context.Context) {
		if !found || id == 0 {
			return
		}
		if _, err := e.gw.UpdateTeam(bg, id, gateway.TeamPayload{Name: name, Color: team.Color, Members: team.Members}); err != nil {
			e.l.Warnf(bg, "engine: update team %d: %v", id, err)
		}
	})
	if !found {
		return ErrTeamNotFound
	}
	return nil
}

func (e *implEngine) DeleteTeam(ctx context.Context, sc model.Scope, key string) error {
	var (
		id    int64
		found bool
	)
	e.apply(ctx, sc, func() []string {
		cur := e.findTeamLocked(key)
		if cur == nil {
			return nil
		}
		found = true
		id = cur.ID
		out := e.teams[:0]
		for _, t := range e.teams {
			if t.Key() != key {
				out = append(out, t)
			}
		}
		e.teams = out
		return []string{cache.DataTeams}
	}, func(bg context.Context) {
		if !found || id == 0 {
			return
		}
		if err := e.gw.DeleteTeam(bg, id); err != nil {
			e.l.Warnf(bg, "engine: delete team %d: %v", id, err)
		}
	})
	if !found {
		return ErrTeamNotFound
	}
	return nil
}

func (e *implEngine) confirmTeam(ctx context.Context, sc model.Scope, localID string, rec gateway.TeamRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.findTeamLocked(localID)
	if cur == nil {
		e.l.Debugf(ctx, "engine: team %q deleted before confirmation, dropping id %d", localID, rec.ID)
		return
	}
	cur.ID = rec.ID
	e.persistLocked(ctx, sc, cache.DataTeams)
}

func (e *implEngine) findTeamLocked(key string) *model.Team {
	for i := range e.teams {
		if e.teams[i].Key() == key {
			return &e.teams[i]
		}
	}
	return nil
}
