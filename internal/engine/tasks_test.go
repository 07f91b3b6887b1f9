package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"todofast/internal/cache"
	"todofast/internal/gateway"
	"todofast/internal/model"
)

var testScope = model.Scope{UserID: "alice@example.com"}

func seedTasks(t *testing.T, eng Engine, gw *mockGateway, recs []gateway.TaskRecord) {
	t.Helper()
	gw.listTasksFunc = func(ctx context.Context) ([]gateway.TaskRecord, error) { return recs, nil }
	if err := eng.LoadAll(context.Background(), testScope); err != nil {
		t.Fatalf("seed load: %v", err)
	}
	gw.listTasksFunc = nil
}

func TestCreateTask(t *testing.T) {
	t.Run("Rejects Empty Title", func(t *testing.T) {
		eng := New(&mockLogger{}, &mockGateway{}, newTestStore(), time.Minute)
		_, err := eng.CreateTask(context.Background(), testScope, CreateTaskInput{Title: "   "})
		if !errors.Is(err, ErrEmptyTitle) {
			t.Errorf("expected ErrEmptyTitle, got %v", err)
		}
	})

	t.Run("Rejects Malformed Due Time", func(t *testing.T) {
		eng := New(&mockLogger{}, &mockGateway{}, newTestStore(), time.Minute)
		_, err := eng.CreateTask(context.Background(), testScope, CreateTaskInput{Title: "x", DueTime: "tomorrow"})
		if !errors.Is(err, ErrInvalidDueTime) {
			t.Errorf("expected ErrInvalidDueTime, got %v", err)
		}
	})

	t.Run("Visible And Cached Even When Gateway Fails", func(t *testing.T) {
		gw := &mockGateway{
			createTaskFunc: func(ctx context.Context, p gateway.TaskPayload) (gateway.TaskRecord, error) {
				return gateway.TaskRecord{}, errors.New("connection refused")
			},
		}
		store := newTestStore()
		eng := New(&mockLogger{}, gw, store, time.Minute)

		created, err := eng.CreateTask(context.Background(), testScope, CreateTaskInput{Title: "buy milk", Priority: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.LocalID == "" {
			t.Errorf("expected a local id on an unconfirmed task")
		}
		eng.Flush()

		tasks := eng.Tasks()
		if len(tasks) != 1 || tasks[0].Title != "buy milk" {
			t.Fatalf("expected the task in memory, got %+v", tasks)
		}
		if tasks[0].ID != 0 {
			t.Errorf("expected the task to stay unconfirmed, got id %d", tasks[0].ID)
		}

		var cached []model.Task
		if err := store.Get(cache.UserKey(testScope.UserID, cache.DataTasks), &cached); err != nil {
			t.Fatalf("expected cached snapshot: %v", err)
		}
		if len(cached) != 1 || cached[0].Title != "buy milk" {
			t.Errorf("cached snapshot mismatch: %+v", cached)
		}
	})

	t.Run("Confirmation Assigns Server ID", func(t *testing.T) {
		gw := &mockGateway{
			createTaskFunc: func(ctx context.Context, p gateway.TaskPayload) (gateway.TaskRecord, error) {
				return gateway.TaskRecord{ID: 42, Title: p.Title}, nil
			},
		}
		eng := New(&mockLogger{}, gw, newTestStore(), time.Minute)

		if _, err := eng.CreateTask(context.Background(), testScope, CreateTaskInput{Title: "buy milk"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		eng.Flush()

		tasks := eng.Tasks()
		if len(tasks) != 1 || tasks[0].ID != 42 {
			t.Fatalf("expected confirmed id 42, got %+v", tasks)
		}
		if tasks[0].Key() != "42" {
			t.Errorf("expected key to follow the server id, got %q", tasks[0].Key())
		}
	})

	t.Run("Deleted Before Confirmation Discards Server ID", func(t *testing.T) {
		release := make(chan struct{})
		gw := &mockGateway{
			createTaskFunc: func(ctx context.Context, p gateway.TaskPayload) (gateway.TaskRecord, error) {
				<-release
				return gateway.TaskRecord{ID: 7}, nil
			},
		}
		eng := New(&mockLogger{}, gw, newTestStore(), time.Minute)

		created, err := eng.CreateTask(context.Background(), testScope, CreateTaskInput{Title: "ephemeral"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := eng.DeleteTask(context.Background(), testScope, created.LocalID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		close(release)
		eng.Flush()

		if tasks := eng.Tasks(); len(tasks) != 0 {
			t.Errorf("expected no tasks after delete, got %+v", tasks)
		}
		if n := gw.callCount("DeleteTask"); n != 0 {
			t.Errorf("expected no remote delete for an unconfirmed task, got %d", n)
		}
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("Unknown Key", func(t *testing.T) {
		eng := New(&mockLogger{}, &mockGateway{}, newTestStore(), time.Minute)
		err := eng.UpdateTask(context.Background(), testScope, model.Task{ID: 99, Title: "x"})
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("Stale Echo Does Not Clobber Newer Edit", func(t *testing.T) {
		gw := &mockGateway{}
		eng := New(&mockLogger{}, gw, newTestStore(), time.Minute)
		seedTasks(t, eng, gw, []gateway.TaskRecord{{ID: 1, Title: "old"}})

		firstStarted := make(chan struct{})
		releaseFirst := make(chan struct{})
		var mu sync.Mutex
		calls := 0
		gw.updateTaskFunc = func(ctx context.Context, id int64, p gateway.TaskPayload) (gateway.TaskRecord, error) {
			mu.Lock()
			calls++
			first := calls == 1
			mu.Unlock()
			if first {
				close(firstStarted)
				<-releaseFirst
			}
			return gateway.TaskRecord{ID: id, Title: p.Title, Priority: p.Priority}, nil
		}

		if err := eng.UpdateTask(context.Background(), testScope, model.Task{ID: 1, Title: "first edit"}); err != nil {
			t.Fatalf("first update: %v", err)
		}
		<-firstStarted
		if err := eng.UpdateTask(context.Background(), testScope, model.Task{ID: 1, Title: "second edit"}); err != nil {
			t.Fatalf("second update: %v", err)
		}
		// Let the reconciliation of the older edit finish last.
		time.Sleep(20 * time.Millisecond)
		close(releaseFirst)
		eng.Flush()

		tasks := eng.Tasks()
		if len(tasks) != 1 || tasks[0].Title != "second edit" {
			t.Errorf("expected the newer edit to survive, got %+v", tasks)
		}
	})
}

func TestToggleTask(t *testing.T) {
	t.Run("Reverts On Failure", func(t *testing.T) {
		gw := &mockGateway{
			setTaskCompletionFunc: func(ctx context.Context, id int64, completed bool) (gateway.TaskRecord, error) {
				return gateway.TaskRecord{}, errors.New("boom")
			},
		}
		eng := New(&mockLogger{}, gw, newTestStore(), time.Minute)
		seedTasks(t, eng, gw, []gateway.TaskRecord{{ID: 1, Title: "t"}})

		if err := eng.ToggleTask(context.Background(), testScope, "1"); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if tasks := eng.Tasks(); !tasks[0].Completed {
			t.Fatalf("expected optimistic flip before reconciliation")
		}
		eng.Flush()
		if tasks := eng.Tasks(); tasks[0].Completed {
			t.Errorf("expected the flip to be reverted after the failure")
		}
	})

	t.Run("Keeps Flip On Success", func(t *testing.T) {
		gw := &mockGateway{}
		eng := New(&mockLogger{}, gw, newTestStore(), time.Minute)
		seedTasks(t, eng, gw, []gateway.TaskRecord{{ID: 1, Title: "t"}})

		if err := eng.ToggleTask(context.Background(), testScope, "1"); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		eng.Flush()
		if tasks := eng.Tasks(); !tasks[0].Completed {
			t.Errorf("expected the flip to stick")
		}
	})

	t.Run("Failed Toggle Does Not Revert A Later Edit", func(t *testing.T) {
		release := make(chan struct{})
		gw := &mockGateway{
			setTaskCompletionFunc: func(ctx context.Context, id int64, completed bool) (gateway.TaskRecord, error) {
				<-release
				return gateway.TaskRecord{}, errors.New("boom")
			},
			updateTaskFunc: func(ctx context.Context, id int64, p gateway.TaskPayload) (gateway.TaskRecord, error) {
				return gateway.TaskRecord{ID: id, Title: p.Title, IsCompleted: p.Completed}, nil
			},
		}
		eng := New(&mockLogger{}, gw, newTestStore(), time.Minute)
		seedTasks(t, eng, gw, []gateway.TaskRecord{{ID: 1, Title: "t"}})

		if err := eng.ToggleTask(context.Background(), testScope, "1"); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		cur := eng.Tasks()[0]
		if err := eng.UpdateTask(context.Background(), testScope, cur); err != nil {
			t.Fatalf("update: %v", err)
		}
		close(release)
		eng.Flush()

		if tasks := eng.Tasks(); !tasks[0].Completed {
			t.Errorf("expected the later edit's state to survive the failed toggle")
		}
	})
}

func TestCreateSubtask(t *testing.T) {
	t.Run("Nests Under Parent And Confirms", func(t *testing.T) {
		gw := &mockGateway{
			createSubtaskFunc: func(ctx context.Context, parentID int64, p gateway.TaskPayload) (gateway.TaskRecord, error) {
				return gateway.TaskRecord{ID: 9, Title: p.Title, ParentTask: &parentID}, nil
			},
		}
		eng := New(&mockLogger{}, gw, newTestStore(), time.Minute)
		seedTasks(t, eng, gw, []gateway.TaskRecord{{ID: 5, Title: "parent", Project: "Work"}})

		sub, err := eng.CreateSubtask(context.Background(), testScope, "5", CreateTaskInput{Title: "child"})
		if err != nil {
			t.Fatalf("create subtask: %v", err)
		}
		if sub.Project != "Work" {
			t.Errorf("expected the subtask to inherit the parent project, got %q", sub.Project)
		}
		eng.Flush()

		tasks := eng.Tasks()
		if len(tasks) != 1 {
			t.Fatalf("expected the subtask nested, not top level: %+v", tasks)
		}
		subs := tasks[0].Subtasks
		if len(subs) != 1 || subs[0].ID != 9 {
			t.Errorf("expected confirmed subtask id 9, got %+v", subs)
		}
	})

	t.Run("Rejects Subtask Of Subtask", func(t *testing.T) {
		gw := &mockGateway{
			createSubtaskFunc: func(ctx context.Context, parentID int64, p gateway.TaskPayload) (gateway.TaskRecord, error) {
				return gateway.TaskRecord{ID: 9, ParentTask: &parentID}, nil
			},
		}
		eng := New(&mockLogger{}, gw, newTestStore(), time.Minute)
		seedTasks(t, eng, gw, []gateway.TaskRecord{{ID: 5, Title: "parent"}})

		if _, err := eng.CreateSubtask(context.Background(), testScope, "5", CreateTaskInput{Title: "child"}); err != nil {
			t.Fatalf("create subtask: %v", err)
		}
		eng.Flush()
		subKey := eng.Tasks()[0].Subtasks[0].Key()
		if _, err := eng.CreateSubtask(context.Background(), testScope, subKey, CreateTaskInput{Title: "grandchild"}); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound for nesting below one level, got %v", err)
		}
	})
}

func TestRescheduleOverdue(t *testing.T) {
	gw := &mockGateway{
		updateTaskFunc: func(ctx context.Context, id int64, p gateway.TaskPayload) (gateway.TaskRecord, error) {
			return gateway.TaskRecord{ID: id, Title: p.Title, DueTime: p.DueTime, Priority: p.Priority}, nil
		},
	}
	eng := New(&mockLogger{}, gw, newTestStore(), time.Minute)
	seedTasks(t, eng, gw, []gateway.TaskRecord{
		{ID: 1, Title: "late date", DueTime: "2026-08-20"},
		{ID: 2, Title: "late timed", DueTime: "2026-08-20T09:30"},
		{ID: 3, Title: "done late", DueTime: "2026-08-20", IsCompleted: true},
		{ID: 4, Title: "future", DueTime: "2026-09-10"},
		{ID: 5, Title: "no due"},
	})

	moved := eng.RescheduleOverdue(context.Background(), testScope, "2026-08-31")
	eng.Flush()

	if moved != 2 {
		t.Fatalf("expected 2 tasks moved, got %d", moved)
	}
	byID := map[int64]model.Task{}
	for _, task := range eng.Tasks() {
		byID[task.ID] = task
	}
	if byID[1].DueTime != "2026-08-31" {
		t.Errorf("date task: got %q", byID[1].DueTime)
	}
	if byID[2].DueTime != "2026-08-31T09:30" {
		t.Errorf("timed task should keep its time of day: got %q", byID[2].DueTime)
	}
	if byID[3].DueTime != "2026-08-20" || byID[4].DueTime != "2026-09-10" {
		t.Errorf("completed and future tasks must not move: %+v", byID)
	}
}
