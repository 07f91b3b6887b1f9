package engine

import (
	"context"
	"sync"

	"github.com/spf13/afero"

	"todofast/internal/cache"
	"todofast/internal/gateway"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// Mock gateway for testing. Unset funcs return zero values and the call is
// still recorded, so tests can assert what the engine reached for.
type mockGateway struct {
	gateway.Gateway

	mu    sync.Mutex
	calls []string

	listTasksFunc         func(ctx context.Context) ([]gateway.TaskRecord, error)
	listProjectsFunc      func(ctx context.Context) ([]gateway.ProjectRecord, error)
	listTeamsFunc         func(ctx context.Context) ([]gateway.TeamRecord, error)
	createTaskFunc        func(ctx context.Context, p gateway.TaskPayload) (gateway.TaskRecord, error)
	updateTaskFunc        func(ctx context.Context, id int64, p gateway.TaskPayload) (gateway.TaskRecord, error)
	setTaskCompletionFunc func(ctx context.Context, id int64, completed bool) (gateway.TaskRecord, error)
	deleteTaskFunc        func(ctx context.Context, id int64) error
	createSubtaskFunc     func(ctx context.Context, parentID int64, p gateway.TaskPayload) (gateway.TaskRecord, error)
	createProjectFunc     func(ctx context.Context, p gateway.ProjectPayload) (gateway.ProjectRecord, error)
	updateProjectFunc     func(ctx context.Context, id int64, p gateway.ProjectPayload) (gateway.ProjectRecord, error)
	deleteProjectFunc     func(ctx context.Context, id int64) error
	createTeamFunc        func(ctx context.Context, p gateway.TeamPayload) (gateway.TeamRecord, error)
	updateTeamFunc        func(ctx context.Context, id int64, p gateway.TeamPayload) (gateway.TeamRecord, error)
	deleteTeamFunc        func(ctx context.Context, id int64) error
}

func (m *mockGateway) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *mockGateway) callCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockGateway) ListTasks(ctx context.Context) ([]gateway.TaskRecord, error) {
	m.record("ListTasks")
	if m.listTasksFunc != nil {
		return m.listTasksFunc(ctx)
	}
	return nil, nil
}

func (m *mockGateway) ListProjects(ctx context.Context) ([]gateway.ProjectRecord, error) {
	m.record("ListProjects")
	if m.listProjectsFunc != nil {
		return m.listProjectsFunc(ctx)
	}
	return nil, nil
}

func (m *mockGateway) ListTeams(ctx context.Context) ([]gateway.TeamRecord, error) {
	m.record("ListTeams")
	if m.listTeamsFunc != nil {
		return m.listTeamsFunc(ctx)
	}
	return nil, nil
}

func (m *mockGateway) CreateTask(ctx context.Context, p gateway.TaskPayload) (gateway.TaskRecord, error) {
	m.record("CreateTask")
	if m.createTaskFunc != nil {
		return m.createTaskFunc(ctx, p)
	}
	return gateway.TaskRecord{}, nil
}

func (m *mockGateway) UpdateTask(ctx context.Context, id int64, p gateway.TaskPayload) (gateway.TaskRecord, error) {
	m.record("UpdateTask")
	if m.updateTaskFunc != nil {
		return m.updateTaskFunc(ctx, id, p)
	}
	return gateway.TaskRecord{}, nil
}

func (m *mockGateway) SetTaskCompletion(ctx context.Context, id int64, completed bool) (gateway.TaskRecord, error) {
	m.record("SetTaskCompletion")
	if m.setTaskCompletionFunc != nil {
		return m.setTaskCompletionFunc(ctx, id, completed)
	}
	return gateway.TaskRecord{}, nil
}

func (m *mockGateway) DeleteTask(ctx context.Context, id int64) error {
	m.record("DeleteTask")
	if m.deleteTaskFunc != nil {
		return m.deleteTaskFunc(ctx, id)
	}
	return nil
}

func (m *mockGateway) CreateSubtask(ctx context.Context, parentID int64, p gateway.TaskPayload) (gateway.TaskRecord, error) {
	m.record("CreateSubtask")
	if m.createSubtaskFunc != nil {
		return m.createSubtaskFunc(ctx, parentID, p)
	}
	return gateway.TaskRecord{}, nil
}

func (m *mockGateway) CreateProject(ctx context.Context, p gateway.ProjectPayload) (gateway.ProjectRecord, error) {
	m.record("CreateProject")
	if m.createProjectFunc != nil {
		return m.createProjectFunc(ctx, p)
	}
	return gateway.ProjectRecord{}, nil
}

func (m *mockGateway) UpdateProject(ctx context.Context, id int64, p gateway.ProjectPayload) (gateway.ProjectRecord, error) {
	m.record("UpdateProject")
	if m.updateProjectFunc != nil {
		return m.updateProjectFunc(ctx, id, p)
	}
	return gateway.ProjectRecord{}, nil
}

func (m *mockGateway) DeleteProject(ctx context.Context, id int64) error {
	m.record("DeleteProject")
	if m.deleteProjectFunc != nil {
		return m.deleteProjectFunc(ctx, id)
	}
	return nil
}

func (m *mockGateway) CreateTeam(ctx context.Context, p gateway.TeamPayload) (gateway.TeamRecord, error) {
	m.record("CreateTeam")
	if m.createTeamFunc != nil {
		return m.createTeamFunc(ctx, p)
	}
	return gateway.TeamRecord{}, nil
}

func (m *mockGateway) UpdateTeam(ctx context.Context, id int64, p gateway.TeamPayload) (gateway.TeamRecord, error) {
	m.record("UpdateTeam")
	if m.updateTeamFunc != nil {
		return m.updateTeamFunc(ctx, id, p)
	}
	return gateway.TeamRecord{}, nil
}

func (m *mockGateway) DeleteTeam(ctx context.Context, id int64) error {
	m.record("DeleteTeam")
	if m.deleteTeamFunc != nil {
		return m.deleteTeamFunc(ctx, id)
	}
	return nil
}

func newTestStore() cache.Store {
	store, _ := cache.NewWithFs(afero.NewMemMapFs(), "cache")
	return store
}
