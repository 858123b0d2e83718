package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hubtray/hubtray/internal/model"
)

// paceOptions tunes the cooperative yield inserted between remote calls
// during filtered bulk marking. It is not a hard rate limiter; it just
// spaces out bursts to avoid remote rate-limit rejection.
type paceOptions struct {
	// Every inserts a delay before each Nth call (1-based).
	Every int

	// Delay is how long to pause.
	Delay time.Duration
}

var defaultPaceOptions = paceOptions{Every: 10, Delay: 500 * time.Millisecond}

// SetPacing tunes the bulk-marking pacing delay. every <= 0 disables it.
func (s *Service) SetPacing(every int, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pace = paceOptions{Every: every, Delay: delay}
}

// MarkResult reports the outcome of a bulk mark-as-read pass. A partial
// failure is a result, not an error: some items were marked, some were
// not, and the caller chooses what to do about the failures.
type MarkResult struct {
	MarkedCount    int
	TotalAttempted int

	// Failures holds the ids whose remote updates failed.
	Failures []string
}

// MarkOneRead marks a single thread read: one remote update, then on
// success the id joins the local suppression set and leaves the display
// set immediately, ahead of remote propagation. On remote failure local
// state is unchanged and the error goes to the caller; the engine never
// retries on its own.
func (s *Service) MarkOneRead(ctx context.Context, id string) error {
	if err := s.feed.MarkThreadRead(ctx, id); err != nil {
		return fmt.Errorf("marking %s read: %w", id, err)
	}

	s.mu.Lock()
	s.state.Suppress(id)
	s.mu.Unlock()

	s.dropFromGroups(id)
	return nil
}

// MarkAllRead issues a single bulk mark against the whole inbox. Local
// display state is cleared wholesale only after the remote call succeeds.
func (s *Service) MarkAllRead(ctx context.Context) error {
	if err := s.feed.MarkAllRead(ctx); err != nil {
		return fmt.Errorf("marking all read: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		for _, item := range g.Items {
			s.state.Suppress(item.ID)
		}
	}
	s.groups = nil
	return nil
}

// MarkFilteredRead marks only the currently-visible (filtered) set read,
// never the full account inbox. It iterates the visible ids with
// individual remote updates, continues past individual failures, and
// paces itself with a cooperative yield. Successfully marked ids join the
// suppression set immediately; failed ids do not.
func (s *Service) MarkFilteredRead(
	ctx context.Context,
	criteria model.Criteria,
) (MarkResult, error) {
	ids := s.visibleIDs(criteria)

	s.mu.Lock()
	pace := s.pace
	s.mu.Unlock()

	result := MarkResult{TotalAttempted: len(ids)}

	for i, id := range ids {
		if pace.Every > 0 && i > 0 && i%pace.Every == 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(pace.Delay):
			}
		}

		if err := s.feed.MarkThreadRead(ctx, id); err != nil {
			result.Failures = append(result.Failures, id)
			continue
		}

		result.MarkedCount++
		s.mu.Lock()
		s.state.Suppress(id)
		s.mu.Unlock()
		s.dropFromGroups(id)
	}

	return result, nil
}
