package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hubtray/hubtray/internal/model"
)

// Feed is the remote notifications endpoint as the engine needs it.
// *github.Feed implements it; tests substitute fakes.
type Feed interface {
	// FetchUnread returns the account's currently-unread threads, merged
	// across pages.
	FetchUnread(ctx context.Context, since time.Time) ([]model.Thread, error)

	// MarkThreadRead marks one thread read upstream.
	MarkThreadRead(ctx context.Context, id string) error

	// MarkAllRead marks the whole inbox read upstream.
	MarkAllRead(ctx context.Context) error
}

// RefreshResult is what one reconciliation cycle hands to the caller.
type RefreshResult struct {
	// Groups is the post-filter, post-suppression display set.
	Groups []model.DisplayGroup

	// Alert is the alerting decision for this cycle, nil when silent.
	Alert *Alert

	// UnreadCount is the number of visible items across Groups.
	UnreadCount int
}

// Service owns the session's reconciliation state and runs the pipeline:
// fetch, filter, reconcile, then group for display and decide alerts.
// All state is guarded by one mutex; the refresh routine and the
// read-state mutators are the only writers.
type Service struct {
	mu    sync.Mutex
	feed  Feed
	state *State

	alerts model.AlertConfig

	// groups caches the latest display set so mark-as-read can mutate it
	// optimistically and the unread count stays available between cycles.
	groups []model.DisplayGroup

	pace paceOptions
}

// NewService creates a Service over the given feed with the given alert
// settings.
func NewService(feed Feed, alerts model.AlertConfig) *Service {
	return &Service{
		feed:   feed,
		state:  NewState(),
		alerts: alerts,
		pace:   defaultPaceOptions,
	}
}

// SetAlertSettings replaces the alert channel toggles.
func (s *Service) SetAlertSettings(alerts model.AlertConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = alerts
}

// Refresh runs one reconciliation cycle. A manual (user-initiated)
// refresh first clears the locally-marked-read suppression set so
// dismissed items resync; background refreshes never do. On any fetch
// error the reconciliation state is left untouched, so a flaky feed
// cannot corrupt it.
func (s *Service) Refresh(
	ctx context.Context,
	criteria model.Criteria,
	manual bool,
) (*RefreshResult, error) {
	fresh, err := s.feed.FetchUnread(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("refreshing notifications: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if manual {
		s.state.ClearSuppressed()
	}

	filtered := Filter(fresh, criteria)

	// Classification sees the filtered set before suppression: a
	// suppressed thread must stay "known" or clearing the suppression
	// set would resurrect it as a new-item alert.
	class := s.state.Reconcile(filtered)

	visible := filtered[:0:0]
	for _, t := range filtered {
		if !s.state.IsSuppressed(t.ID) {
			visible = append(visible, t)
		}
	}

	s.groups = Group(visible)

	return &RefreshResult{
		Groups:      s.groups,
		Alert:       Decide(class, s.alerts),
		UnreadCount: model.CountItems(s.groups),
	}, nil
}

// Groups returns the latest display set.
func (s *Service) Groups() []model.DisplayGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups
}

// UnreadCount returns the number of visible items in the latest display
// set.
func (s *Service) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CountItems(s.groups)
}

// visibleIDs returns the thread ids of the latest display set, in display
// order, restricted to the given criteria.
func (s *Service) visibleIDs(criteria model.Criteria) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var threads []model.Thread
	for _, g := range s.groups {
		for _, item := range g.Items {
			threads = append(threads, item.Thread)
		}
	}

	matching := Filter(threads, criteria)
	ids := make([]string, 0, len(matching))
	for _, t := range matching {
		ids = append(ids, t.ID)
	}
	return ids
}

// dropFromGroups removes one thread from the cached display set.
func (s *Service) dropFromGroups(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.groups[:0:0]
	for _, g := range s.groups {
		items := g.Items[:0:0]
		for _, item := range g.Items {
			if item.ID != id {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			g.Items = items
			out = append(out, g)
		}
	}
	s.groups = out
}
