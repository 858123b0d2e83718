package github

import (
	"context"
	"time"

	"github.com/hubtray/hubtray/internal/model"
)

// Feed binds a Client to fixed fetch options so it satisfies the engine's
// feed contract.
type Feed struct {
	client *Client
	opts   FetchOptions
}

// NewFeed creates a Feed over the given client. Zero-valued options fall
// back to the client defaults.
func NewFeed(client *Client, opts FetchOptions) *Feed {
	return &Feed{client: client, opts: opts}
}

// FetchUnread returns the account's unread threads merged across pages.
func (f *Feed) FetchUnread(
	ctx context.Context,
	since time.Time,
) ([]model.Thread, error) {
	return f.client.FetchUnread(ctx, since, f.opts)
}

// MarkThreadRead marks one thread read upstream.
func (f *Feed) MarkThreadRead(ctx context.Context, id string) error {
	return f.client.MarkThreadRead(ctx, id)
}

// MarkAllRead marks the whole inbox read upstream.
func (f *Feed) MarkAllRead(ctx context.Context) error {
	return f.client.MarkAllRead(ctx)
}
