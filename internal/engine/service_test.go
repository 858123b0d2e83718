package engine

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/hubtray/hubtray/internal/model"
)

// fakeFeed is an in-memory Feed with scriptable failures.
type fakeFeed struct {
	mu        sync.Mutex
	threads   []model.Thread
	fetchErr  error
	failMarks map[string]bool
	marked    []string
	markedAll int
}

func (f *fakeFeed) FetchUnread(
	_ context.Context, _ time.Time,
) ([]model.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]model.Thread, len(f.threads))
	copy(out, f.threads)
	return out, nil
}

func (f *fakeFeed) MarkThreadRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMarks[id] {
		return errors.New("remote rejected mark")
	}
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeFeed) MarkAllRead(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedAll++
	return nil
}

func (f *fakeFeed) setThreads(threads ...model.Thread) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threads = threads
}

func groupIDs(groups []model.DisplayGroup) []string {
	var ids []string
	for _, g := range groups {
		for _, item := range g.Items {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func newTestService(feed *fakeFeed) *Service {
	svc := NewService(feed, model.AlertConfig{
		EnableSound:   true,
		EnableDesktop: true,
	})
	svc.SetPacing(0, 0)
	return svc
}

func TestServiceFirstRefreshSilentThenNewAlert(t *testing.T) {
	feed := &fakeFeed{}
	feed.setThreads(stamped("1", "a/x", t1))
	svc := newTestService(feed)

	first, err := svc.Refresh(context.Background(), model.Criteria{}, false)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if first.Alert != nil {
		t.Fatalf("expected silent first load, got alert %+v", first.Alert)
	}
	if first.UnreadCount != 1 {
		t.Fatalf("expected 1 visible item, got %d", first.UnreadCount)
	}

	feed.setThreads(stamped("1", "a/x", t1), stamped("2", "a/x", t1))

	second, err := svc.Refresh(context.Background(), model.Criteria{}, false)
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if second.Alert == nil {
		t.Fatal("expected alert for new thread")
	}
	if second.Alert.Title != "1 new notification" {
		t.Fatalf("unexpected alert title %q", second.Alert.Title)
	}
}

func TestServiceFetchErrorLeavesStateUntouched(t *testing.T) {
	feed := &fakeFeed{}
	feed.setThreads(stamped("1", "a/x", t1))
	svc := newTestService(feed)

	if _, err := svc.Refresh(context.Background(), model.Criteria{}, false); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	feed.mu.Lock()
	feed.fetchErr = errors.New("feed down")
	feed.mu.Unlock()

	if _, err := svc.Refresh(context.Background(), model.Criteria{}, false); err == nil {
		t.Fatal("expected refresh error")
	}
	if got := groupIDs(svc.Groups()); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("display set changed on fetch error: %v", got)
	}

	// Once the feed recovers, the previous state still anchors
	// classification: the surviving thread is not re-announced.
	feed.mu.Lock()
	feed.fetchErr = nil
	feed.mu.Unlock()

	res, err := svc.Refresh(context.Background(), model.Criteria{}, false)
	if err != nil {
		t.Fatalf("recovery refresh: %v", err)
	}
	if res.Alert != nil {
		t.Fatalf("expected silent recovery, got alert %+v", res.Alert)
	}
}

func TestServiceMarkOneReadHidesUntilManualRefresh(t *testing.T) {
	feed := &fakeFeed{}
	feed.setThreads(stamped("1", "a/x", t1), stamped("2", "a/x", t1))
	svc := newTestService(feed)

	if _, err := svc.Refresh(context.Background(), model.Criteria{}, false); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := svc.MarkOneRead(context.Background(), "1"); err != nil {
		t.Fatalf("mark one read: %v", err)
	}
	if got := groupIDs(svc.Groups()); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("expected immediate removal, got %v", got)
	}

	// A background refresh whose feed still carries the thread must keep
	// it hidden.
	res, err := svc.Refresh(context.Background(), model.Criteria{}, false)
	if err != nil {
		t.Fatalf("background refresh: %v", err)
	}
	if got := groupIDs(res.Groups); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("suppressed thread resurfaced on background refresh: %v", got)
	}

	// A manual refresh resyncs with the remote truth, and the returning
	// thread is not classified as new.
	res, err = svc.Refresh(context.Background(), model.Criteria{}, true)
	if err != nil {
		t.Fatalf("manual refresh: %v", err)
	}
	if got := groupIDs(res.Groups); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("expected full resync on manual refresh, got %v", got)
	}
	if res.Alert != nil {
		t.Fatalf("resynced thread must not alert, got %+v", res.Alert)
	}
}

func TestServiceMarkOneReadRemoteFailureKeepsItem(t *testing.T) {
	feed := &fakeFeed{failMarks: map[string]bool{"1": true}}
	feed.setThreads(stamped("1", "a/x", t1))
	svc := newTestService(feed)

	if _, err := svc.Refresh(context.Background(), model.Criteria{}, false); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := svc.MarkOneRead(context.Background(), "1"); err == nil {
		t.Fatal("expected mark error")
	}
	if got := groupIDs(svc.Groups()); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("item removed despite remote failure: %v", got)
	}
}

func TestServiceMarkFilteredReadPartialFailure(t *testing.T) {
	feed := &fakeFeed{failMarks: map[string]bool{"3": true}}
	feed.setThreads(
		stamped("1", "a/x", t1),
		stamped("2", "a/x", t1),
		stamped("3", "a/x", t1),
		stamped("4", "a/x", t1),
		stamped("5", "a/x", t1),
	)
	svc := newTestService(feed)

	if _, err := svc.Refresh(context.Background(), model.Criteria{}, false); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	result, err := svc.MarkFilteredRead(context.Background(), model.Criteria{})
	if err != nil {
		t.Fatalf("mark filtered read: %v", err)
	}
	if result.MarkedCount != 4 || result.TotalAttempted != 5 {
		t.Fatalf("expected 4 of 5 marked, got %+v", result)
	}
	if !reflect.DeepEqual(result.Failures, []string{"3"}) {
		t.Fatalf("unexpected failures %v", result.Failures)
	}
	if got := groupIDs(svc.Groups()); !reflect.DeepEqual(got, []string{"3"}) {
		t.Fatalf("expected only the failed id to stay visible, got %v", got)
	}
}

func TestServiceMarkFilteredReadHonorsCriteria(t *testing.T) {
	issue := stamped("1", "a/x", t1)
	pull := stamped("2", "a/x", t1)
	pull.SubjectType = model.SubjectPullRequest

	feed := &fakeFeed{}
	feed.setThreads(issue, pull)
	svc := newTestService(feed)

	if _, err := svc.Refresh(context.Background(), model.Criteria{}, false); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	criteria := model.Criteria{
		SubjectTypes: []model.SubjectType{model.SubjectPullRequest},
	}
	result, err := svc.MarkFilteredRead(context.Background(), criteria)
	if err != nil {
		t.Fatalf("mark filtered read: %v", err)
	}
	if result.TotalAttempted != 1 || result.MarkedCount != 1 {
		t.Fatalf("expected exactly the matching thread marked, got %+v", result)
	}
	if got := groupIDs(svc.Groups()); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("non-matching thread should survive, got %v", got)
	}
}

func TestServiceMarkAllReadClearsDisplaySet(t *testing.T) {
	feed := &fakeFeed{}
	feed.setThreads(stamped("1", "a/x", t1), stamped("2", "b/y", t1))
	svc := newTestService(feed)

	if _, err := svc.Refresh(context.Background(), model.Criteria{}, false); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := svc.MarkAllRead(context.Background()); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if feed.markedAll != 1 {
		t.Fatalf("expected one bulk remote call, got %d", feed.markedAll)
	}
	if svc.UnreadCount() != 0 {
		t.Fatalf("expected empty display set, got %d items", svc.UnreadCount())
	}

	// Background refreshes keep the inbox clear until the remote catches
	// up.
	res, err := svc.Refresh(context.Background(), model.Criteria{}, false)
	if err != nil {
		t.Fatalf("background refresh: %v", err)
	}
	if len(groupIDs(res.Groups)) != 0 {
		t.Fatalf("marked threads resurfaced: %v", groupIDs(res.Groups))
	}
}

func TestServiceRefreshAppliesCriteria(t *testing.T) {
	issue := stamped("1", "a/x", t1)
	release := stamped("2", "a/x", t1)
	release.SubjectType = model.SubjectRelease

	feed := &fakeFeed{}
	feed.setThreads(issue, release)
	svc := newTestService(feed)

	criteria := model.Criteria{
		SubjectTypes: []model.SubjectType{model.SubjectRelease},
	}
	res, err := svc.Refresh(context.Background(), criteria, false)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := groupIDs(res.Groups); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("expected only the release thread, got %v", got)
	}
}
