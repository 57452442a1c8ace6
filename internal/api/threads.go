package api

import (
	"context"

	"github.com/mentra-app/mentra-cli/internal/model"
	"github.com/mentra-app/mentra-cli/internal/validate"
)

// Threads lists the current user's conversations, ordered by the backend
// (most recent activity first). The client never re-sorts.
func (c *Client) Threads(ctx context.Context) ([]model.Thread, error) {
	var out []model.Thread
	if err := c.get(ctx, "/threads", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenThread returns the existing thread with recipient, creating one if none
// exists yet.
func (c *Client) OpenThread(ctx context.Context, recipientID string) (*model.Thread, error) {
	var out model.Thread
	if err := c.postJSON(ctx, "/threads"+query("recipient_id", recipientID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ThreadMessages returns a thread's messages oldest-first.
func (c *Client) ThreadMessages(ctx context.Context, threadID string) ([]model.Message, error) {
	var out []model.Message
	if err := c.get(ctx, "/threads/"+threadID+"/messages", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage posts a message to a thread. The returned message carries the
// server-assigned id and timestamp, which are authoritative.
func (c *Client) SendMessage(ctx context.Context, threadID, body string, media []string) (*model.Message, error) {
	req := struct {
		Body  string   `json:"body"  validate:"required"`
		Media []string `json:"media"`
	}{body, media}
	if req.Media == nil {
		req.Media = []string{}
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Message
	if err := c.postJSON(ctx, "/threads/"+threadID+"/messages", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkThreadRead marks every message in the thread as read by the current
// user.
func (c *Client) MarkThreadRead(ctx context.Context, threadID string) error {
	return c.postJSON(ctx, "/threads/"+threadID+"/read", nil, nil)
}
