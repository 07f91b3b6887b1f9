package gateway

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListProjects(ctx context.Context) ([]ProjectRecord, error) {
	var projects []ProjectRecord
	if err := c.call(ctx, "list projects", http.MethodGet, "/projects/", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, p ProjectPayload) (ProjectRecord, error) {
	var rec ProjectRecord
	if err := c.call(ctx, "create project", http.MethodPost, "/projects/", p, &rec); err != nil {
		return ProjectRecord{}, err
	}
	return rec, nil
}

func (c *Client) UpdateProject(ctx context.Context, id int64, p ProjectPayload) (ProjectRecord, error) {
	var rec ProjectRecord
	path := fmt.Sprintf("/projects/%d/", id)
	if err := c.call(ctx, "update project", http.MethodPut, path, p, &rec); err != nil {
		return ProjectRecord{}, err
	}
	return rec, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/projects/%d/", id)
	return c.call(ctx, "delete project", http.MethodDelete, path, nil, nil)
}

func (c *Client) ShareProject(ctx context.Context, id int64, friendIDs []int64) error {
	path := fmt.Sprintf("/projects/%d/share/", id)
	body := map[string][]int64{"friend_ids": friendIDs}
	return c.call(ctx, "share project", http.MethodPost, path, body, nil)
}

func (c *Client) LeaveProject(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/projects/%d/leave/", id)
	return c.call(ctx, "leave project", http.MethodPost, path, nil, nil)
}
