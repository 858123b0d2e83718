package github

import (
	"context"
	"fmt"
)

// MarkThreadRead marks a single notification thread as read upstream.
func (c *Client) MarkThreadRead(ctx context.Context, id string) error {
	path := "/notifications/threads/" + id
	if err := c.Patch(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("marking thread %s read: %w", id, err)
	}
	return nil
}

// MarkAllRead marks the entire notifications inbox as read upstream.
func (c *Client) MarkAllRead(ctx context.Context) error {
	body := map[string]interface{}{
		"read": true,
	}
	if err := c.Put(ctx, "/notifications", body, nil); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

// ValidateToken verifies the token by issuing a minimal notifications
// request. Auth and scope problems surface as their typed errors.
func (c *Client) ValidateToken(ctx context.Context) error {
	var wire []apiThread
	if err := c.Get(ctx, "/notifications?per_page=1", &wire); err != nil {
		return fmt.Errorf("validating token: %w", err)
	}
	return nil
}
