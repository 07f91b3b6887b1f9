package gateway

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListFriends(ctx context.Context) ([]Friend, error) {
	var friends []Friend
	if err := c.call(ctx, "list friends", http.MethodGet, "/friends/list_friends/", nil, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

func (c *Client) SendFriendRequest(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.call(ctx, "send friend request", http.MethodPost, "/friends/send_request/", body, nil)
}

func (c *Client) AcceptFriendRequest(ctx context.Context, requestID int64) error {
	path := fmt.Sprintf("/friends/%d/accept_request/", requestID)
	return c.call(ctx, "accept friend request", http.MethodPost, path, nil, nil)
}

func (c *Client) DeclineFriendRequest(ctx context.Context, requestID int64) error {
	path := fmt.Sprintf("/friends/%d/decline_request/", requestID)
	return c.call(ctx, "decline friend request", http.MethodPost, path, nil, nil)
}

func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	if err := c.call(ctx, "list notifications", http.MethodGet, "/notifications/", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	if err := c.call(ctx, "unread notification count", http.MethodGet, "/notifications/unread_count/", nil, &res); err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/notifications/%d/mark_read/", id)
	return c.call(ctx, "mark notification read", http.MethodPost, path, nil, nil)
}
