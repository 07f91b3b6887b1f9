package gateway

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListTeams(ctx context.Context) ([]TeamRecord, error) {
	var teams []TeamRecord
	if err := c.call(ctx, "list teams", http.MethodGet, "/teams/", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *Client) CreateTeam(ctx context.Context, p TeamPayload) (TeamRecord, error) {
	var rec TeamRecord
	if err := c.call(ctx, "create team", http.MethodPost, "/teams/", p, &rec); err != nil {
		return TeamRecord{}, err
	}
	return rec, nil
}

func (c *Client) UpdateTeam(ctx context.Context, id int64, p TeamPayload) (TeamRecord, error) {
	var rec TeamRecord
	path := fmt.Sprintf("/teams/%d/", id)
	if err := c.call(ctx, "update team", http.MethodPut, path, p, &rec); err != nil {
		return TeamRecord{}, err
	}
	return rec, nil
}

func (c *Client) DeleteTeam(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/teams/%d/", id)
	return c.call(ctx, "delete team", http.MethodDelete, path, nil, nil)
}

func (c *Client) AddTeamMember(ctx context.Context, id int64, email string) error {
	path := fmt.Sprintf("/teams/%d/add_member/", id)
	body := map[string]string{"email": email}
	return c.call(ctx, "add team member", http.MethodPost, path, body, nil)
}

func (c *Client) RemoveTeamMember(ctx context.Context, id int64, userID int64) error {
	path := fmt.Sprintf("/teams/%d/remove_member/", id)
	body := map[string]int64{"user_id": userID}
	return c.call(ctx, "remove team member", http.MethodPost, path, body, nil)
}
