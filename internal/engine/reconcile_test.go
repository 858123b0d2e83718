package engine

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/hubtray/hubtray/internal/model"
)

func stamped(id, repo string, updatedAt time.Time) model.Thread {
	return model.Thread{
		ID: id,
		Repository: model.Repository{
			ID:       "r-" + repo,
			FullName: repo,
		},
		SubjectType: model.SubjectIssue,
		Reason:      model.ReasonSubscribed,
		Unread:      true,
		UpdatedAt:   updatedAt,
	}
}

var (
	t1 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 = time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	t3 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func classIDs(c Classification) []string {
	out := make([]string, 0, len(c.Threads))
	for _, t := range c.Threads {
		out = append(out, t.ID)
	}
	sort.Strings(out)
	return out
}

func TestReconcileFirstLoadSuppressesAlerts(t *testing.T) {
	state := NewState()

	class := state.Reconcile([]model.Thread{
		stamped("1", "a/x", t1),
		stamped("2", "a/x", t1),
	})

	if class.Kind != ClassNone {
		t.Fatalf("expected no alert on first load, got kind %d", class.Kind)
	}
}

func TestReconcileNewByID(t *testing.T) {
	state := NewState()
	state.Reconcile([]model.Thread{stamped("1", "a/x", t1)})

	class := state.Reconcile([]model.Thread{
		stamped("1", "a/x", t1),
		stamped("2", "a/x", t2),
	})

	if class.Kind != ClassNew {
		t.Fatalf("expected ClassNew, got kind %d", class.Kind)
	}
	if !reflect.DeepEqual(classIDs(class), []string{"2"}) {
		t.Fatalf("expected new id 2, got %v", classIDs(class))
	}
}

func TestReconcileUpdatedByTimestamp(t *testing.T) {
	state := NewState()
	state.Reconcile([]model.Thread{stamped("1", "a/x", t1)})
	state.Reconcile([]model.Thread{
		stamped("1", "a/x", t1),
		stamped("2", "a/x", t2),
	})

	class := state.Reconcile([]model.Thread{
		stamped("1", "a/x", t3),
		stamped("2", "a/x", t2),
	})

	if class.Kind != ClassUpdated {
		t.Fatalf("expected ClassUpdated, got kind %d", class.Kind)
	}
	if !reflect.DeepEqual(classIDs(class), []string{"1"}) {
		t.Fatalf("expected updated id 1, got %v", classIDs(class))
	}
}

func TestReconcileNewByIDTakesPriorityOverUpdated(t *testing.T) {
	state := NewState()
	state.Reconcile([]model.Thread{
		stamped("1", "a/x", t1),
	})

	// id 1 advanced past the high-water mark AND id 2 is brand new.
	class := state.Reconcile([]model.Thread{
		stamped("1", "a/x", t3),
		stamped("2", "a/x", t2),
	})

	if class.Kind != ClassNew {
		t.Fatalf("expected ClassNew to win, got kind %d", class.Kind)
	}
	if !reflect.DeepEqual(classIDs(class), []string{"2"}) {
		t.Fatalf("expected only the new id, got %v", classIDs(class))
	}
}

func TestReconcileCountDeltaFallback(t *testing.T) {
	state := NewState()
	state.Reconcile([]model.Thread{stamped("1", "a/x", t1)})

	// Degenerate feed: duplicate ids, nothing new by id or timestamp,
	// but the visible count grew.
	class := state.Reconcile([]model.Thread{
		stamped("1", "a/x", t1),
		stamped("1", "a/x", t1),
	})

	if class.Kind != ClassCountNew {
		t.Fatalf("expected ClassCountNew, got kind %d", class.Kind)
	}
	if class.Count != 1 {
		t.Fatalf("expected delta 1, got %d", class.Count)
	}
	if len(class.Threads) != 1 {
		t.Fatalf("expected 1 representative record, got %d", len(class.Threads))
	}
}

func TestReconcileCountSameOrLowerIsSilent(t *testing.T) {
	state := NewState()
	state.Reconcile([]model.Thread{
		stamped("1", "a/x", t1),
		stamped("2", "a/x", t1),
	})

	class := state.Reconcile([]model.Thread{stamped("1", "a/x", t1)})

	if class.Kind != ClassNone {
		t.Fatalf("expected silence on shrink, got kind %d", class.Kind)
	}
}

func TestReconcileReplacesKnownIDsWholesale(t *testing.T) {
	state := NewState()
	state.Reconcile([]model.Thread{
		stamped("1", "a/x", t1),
		stamped("2", "a/x", t1),
	})
	state.Reconcile([]model.Thread{stamped("3", "a/x", t2)})

	// Only id 3 must be known now: id 1 returning later is new again.
	class := state.Reconcile([]model.Thread{
		stamped("1", "a/x", t1),
		stamped("3", "a/x", t2),
	})

	if class.Kind != ClassNew {
		t.Fatalf("expected stale id to classify as new, got kind %d", class.Kind)
	}
	if !reflect.DeepEqual(classIDs(class), []string{"1"}) {
		t.Fatalf("expected id 1 as new, got %v", classIDs(class))
	}
}

func TestReconcileEmptyFreshKeepsHighWaterMark(t *testing.T) {
	state := NewState()
	state.Reconcile([]model.Thread{stamped("1", "a/x", t2)})
	state.Reconcile(nil)

	// A thread older than the preserved high-water mark must not
	// classify as updated.
	class := state.Reconcile([]model.Thread{stamped("1", "a/x", t2)})

	if class.Kind != ClassNew {
		// id 1 left the known set on the empty fetch, so it is new.
		t.Fatalf("expected ClassNew after empty fetch, got kind %d", class.Kind)
	}
}

func TestSuppressionSetLifecycle(t *testing.T) {
	state := NewState()

	state.Suppress("1")
	state.Suppress("1") // idempotent
	state.Suppress("2")

	if state.SuppressedCount() != 2 {
		t.Fatalf("expected 2 suppressed ids, got %d", state.SuppressedCount())
	}
	if !state.IsSuppressed("1") || !state.IsSuppressed("2") {
		t.Fatalf("expected both ids suppressed")
	}

	state.ClearSuppressed()

	if state.SuppressedCount() != 0 || state.IsSuppressed("1") {
		t.Fatalf("expected suppression set cleared")
	}
}
