package api

import (
	"context"

	"github.com/mentra-app/mentra-cli/internal/model"
)

// Notifications returns the current user's notifications in backend order
// (newest first).
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var out []model.Notification
	if err := c.get(ctx, "/notifications", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadNotificationCount returns the server-computed unread scalar. It is a
// separate resource from the list; the two are only consistent after both have
// been re-fetched following a mutation.
func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var out model.UnreadCount
	if err := c.get(ctx, "/notifications/unread-count", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkNotificationRead marks a single notification read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.postJSON(ctx, "/notifications/"+id+"/read", nil, nil)
}

// MarkAllNotificationsRead marks every notification read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.postJSON(ctx, "/notifications/read-all", nil, nil)
}
