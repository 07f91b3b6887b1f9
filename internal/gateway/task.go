package gateway

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListTasks(ctx context.Context) ([]TaskRecord, error) {
	var tasks []TaskRecord
	if err := c.call(ctx, "list tasks", http.MethodGet, "/tasks/", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, p TaskPayload) (TaskRecord, error) {
	var rec TaskRecord
	if err := c.call(ctx, "create task", http.MethodPost, "/tasks/", p, &rec); err != nil {
		return TaskRecord{}, err
	}
	return rec, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, p TaskPayload) (TaskRecord, error) {
	var rec TaskRecord
	path := fmt.Sprintf("/tasks/%d/", id)
	if err := c.call(ctx, "update task", http.MethodPut, path, p, &rec); err != nil {
		return TaskRecord{}, err
	}
	return rec, nil
}

func (c *Client) SetTaskCompletion(ctx context.Context, id int64, completed bool) (TaskRecord, error) {
	var rec TaskRecord
	path := fmt.Sprintf("/tasks/%d/", id)
	body := map[string]bool{"is_completed": completed}
	if err := c.call(ctx, "set task completion", http.MethodPatch, path, body, &rec); err != nil {
		return TaskRecord{}, err
	}
	return rec, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/tasks/%d/", id)
	return c.call(ctx, "delete task", http.MethodDelete, path, nil, nil)
}

func (c *Client) CreateSubtask(ctx context.Context, parentID int64, p TaskPayload) (TaskRecord, error) {
	var rec TaskRecord
	path := fmt.Sprintf("/tasks/%d/create_subtask/", parentID)
	if err := c.call(ctx, "create subtask", http.MethodPost, path, p, &rec); err != nil {
		return TaskRecord{}, err
	}
	return rec, nil
}
