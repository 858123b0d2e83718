package engine

import (
	"time"

	"github.com/hubtray/hubtray/internal/model"
)

// ClassificationKind names the outcome of one reconciliation cycle.
type ClassificationKind int

const (
	// ClassNone means nothing alert-worthy happened this cycle.
	ClassNone ClassificationKind = iota

	// ClassNew means threads not seen in the previous cycle appeared.
	ClassNew

	// ClassUpdated means known threads advanced past the previously
	// observed high-water timestamp.
	ClassUpdated

	// ClassCountNew means the visible count grew but no specific new ids
	// could be identified (best-effort fallback).
	ClassCountNew
)

// Classification is the alerting-relevant outcome of a reconcile pass.
// Display is driven by the filtered/grouped set independently.
type Classification struct {
	Kind ClassificationKind

	// Threads carries the specific records behind ClassNew and
	// ClassUpdated, and representative records for ClassCountNew.
	Threads []model.Thread

	// Count is the number of new or updated threads. For ClassCountNew it
	// is the count delta, which may exceed len(Threads).
	Count int
}

// State is the session-scoped reconciliation state. It is owned by a
// single Service and must only be touched with the service's lock held.
type State struct {
	// knownIDs holds the thread ids observed in the previous successful
	// fetch. Replaced wholesale every cycle.
	knownIDs map[string]struct{}

	// lastSeenUpdatedAt is the max UpdatedAt across the previous fetch.
	lastSeenUpdatedAt time.Time

	// suppressed holds ids the user marked read locally. They stay hidden
	// even while the remote feed still reports them unread, until a
	// manual refresh clears the set.
	suppressed map[string]struct{}

	// previousVisibleCount is the size of the previous fetch.
	previousVisibleCount int

	// initialized flips true after the first reconcile so a fresh session
	// can suppress alerts for pre-existing notifications.
	initialized bool
}

// NewState returns an empty reconciliation state for a new session.
func NewState() *State {
	return &State{
		knownIDs:   make(map[string]struct{}),
		suppressed: make(map[string]struct{}),
	}
}

// Suppress records a locally-read thread id. Adding an already-present id
// is a no-op.
func (s *State) Suppress(id string) {
	s.suppressed[id] = struct{}{}
}

// IsSuppressed reports whether the id is locally marked read.
func (s *State) IsSuppressed(id string) bool {
	_, ok := s.suppressed[id]
	return ok
}

// ClearSuppressed empties the locally-marked-read set. Called only on an
// explicit user-initiated manual refresh, never on background refresh, so
// dismissed items stay hidden until the user asks to resync.
func (s *State) ClearSuppressed() {
	s.suppressed = make(map[string]struct{})
}

// SuppressedCount returns the size of the locally-marked-read set.
func (s *State) SuppressedCount() int {
	return len(s.suppressed)
}

// Reconcile compares the fresh fetch against the previous one and
// classifies the delta for alerting. Checks run in strict priority order;
// the first that fires wins:
//
//  1. new-by-id: ids absent from the previous fetch (skipped on the
//     first-ever fetch). Most precise; survives count-stable replacements.
//  2. updated-by-timestamp: known threads past the previous high-water
//     UpdatedAt. Catches in-place updates to existing threads.
//  3. count-delta: visible count grew. Last-resort heuristic for feeds
//     without reliable ids; the surplus is attributed to the first N
//     records as representatives. Known weakness: it can misattribute
//     "new" to records that merely moved position in an unstable feed
//     ordering. Kept deliberately as a best-effort fallback.
//
// A first-ever reconcile never alerts regardless of count, so a fresh
// session is not bombarded for pre-existing notifications.
//
// The state is replaced wholesale after classification: knownIDs,
// lastSeenUpdatedAt, and previousVisibleCount always describe the fresh
// set afterward.
func (s *State) Reconcile(fresh []model.Thread) Classification {
	class := s.classify(fresh)

	ids := make(map[string]struct{}, len(fresh))
	maxUpdated := s.lastSeenUpdatedAt
	for _, t := range fresh {
		ids[t.ID] = struct{}{}
		if t.UpdatedAt.After(maxUpdated) {
			maxUpdated = t.UpdatedAt
		}
	}
	s.knownIDs = ids
	if len(fresh) > 0 {
		s.lastSeenUpdatedAt = maxUpdated
	}
	s.previousVisibleCount = len(fresh)
	s.initialized = true

	return class
}

func (s *State) classify(fresh []model.Thread) Classification {
	// The first-ever reconcile never alerts, whatever the feed holds.
	if !s.initialized {
		return Classification{Kind: ClassNone}
	}

	var added []model.Thread
	for _, t := range fresh {
		if _, known := s.knownIDs[t.ID]; !known {
			added = append(added, t)
		}
	}
	if len(added) > 0 {
		return Classification{
			Kind:    ClassNew,
			Threads: added,
			Count:   len(added),
		}
	}

	if !s.lastSeenUpdatedAt.IsZero() {
		var updated []model.Thread
		for _, t := range fresh {
			if t.UpdatedAt.After(s.lastSeenUpdatedAt) {
				updated = append(updated, t)
			}
		}
		if len(updated) > 0 {
			return Classification{
				Kind:    ClassUpdated,
				Threads: updated,
				Count:   len(updated),
			}
		}
	}

	if s.previousVisibleCount > 0 && len(fresh) > s.previousVisibleCount {
		delta := len(fresh) - s.previousVisibleCount
		reps := fresh
		if len(reps) > delta {
			reps = reps[:delta]
		}
		return Classification{
			Kind:    ClassCountNew,
			Threads: append([]model.Thread(nil), reps...),
			Count:   delta,
		}
	}

	return Classification{Kind: ClassNone}
}
