package github

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/hubtray/hubtray/internal/model"
)

const (
	defaultPageSize = 50
	defaultMaxPages = 5
)

// FetchOptions controls pagination for the notifications fetch.
type FetchOptions struct {
	// PageSize is the per_page value sent to the API.
	PageSize int

	// MaxPages is a hard ceiling on the number of pages fetched in one
	// call. Hitting it is explicit truncation, not an error; it bounds
	// worst-case latency against very noisy accounts.
	MaxPages int
}

func (o FetchOptions) withDefaults() FetchOptions {
	if o.PageSize < 1 {
		o.PageSize = defaultPageSize
	}
	if o.MaxPages < 1 {
		o.MaxPages = defaultMaxPages
	}
	return o
}

// FetchUnread retrieves the currently-unread notification threads visible
// to the account, merging across pages. A zero since value fetches without
// a time-window lower bound. Malformed records are dropped from the batch
// and logged; they never fail the fetch. The call has no side effects
// beyond the network requests.
func (c *Client) FetchUnread(
	ctx context.Context,
	since time.Time,
	opts FetchOptions,
) ([]model.Thread, error) {
	opts = opts.withDefaults()

	var threads []model.Thread
	dropped := 0

	for page := 1; page <= opts.MaxPages; page++ {
		q := url.Values{}
		q.Set("all", "false")
		q.Set("participating", "false")
		q.Set("per_page", strconv.Itoa(opts.PageSize))
		q.Set("page", strconv.Itoa(page))
		if !since.IsZero() {
			q.Set("since", since.UTC().Format(time.RFC3339))
		}

		var wire []apiThread
		err := c.Get(ctx, "/notifications?"+q.Encode(), &wire)
		if err != nil {
			return nil, fmt.Errorf("fetching notifications page %d: %w", page, err)
		}

		for _, t := range wire {
			thread, ok := t.toThread()
			if !ok {
				dropped++
				continue
			}
			threads = append(threads, thread)
		}

		// A short page means end of data.
		if len(wire) < opts.PageSize {
			break
		}

		if page == opts.MaxPages {
			log.Printf(
				"github: notification fetch truncated at %d pages",
				opts.MaxPages,
			)
		}
	}

	if dropped > 0 {
		log.Printf(
			"github: dropped %d malformed notification records", dropped,
		)
	}

	return threads, nil
}
