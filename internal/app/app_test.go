package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hubtray/hubtray/internal/engine"
	"github.com/hubtray/hubtray/internal/keys"
	"github.com/hubtray/hubtray/internal/model"
	"github.com/hubtray/hubtray/internal/notify"
	appsync "github.com/hubtray/hubtray/internal/sync"
	helpview "github.com/hubtray/hubtray/internal/ui/help"
	"github.com/hubtray/hubtray/internal/ui/notiflist"
	setupview "github.com/hubtray/hubtray/internal/ui/setup"
)

type stubFeed struct{}

func (stubFeed) FetchUnread(context.Context, time.Time) ([]model.Thread, error) {
	return nil, nil
}

func (stubFeed) MarkThreadRead(context.Context, string) error { return nil }

func (stubFeed) MarkAllRead(context.Context) error { return nil }

func newTestModel() Model {
	k := keys.DefaultKeyMap()
	return Model{
		currentView: ViewList,
		keys:        k,
		cfg:         &model.AppConfig{RefreshIntervalMin: 5},
		criteria:    newCriteriaRef(model.Criteria{}),
		dispatcher:  notify.NewDispatcher(notify.TerminalNotifier{}),
		list:        notiflist.New(k, 80, 24),
		help:        helpview.New(k, 80, 24),
		setup:       setupview.New(80, 24),
	}
}

func authFailure(from *appsync.Poller) appsync.RefreshResultMsg {
	return appsync.RefreshResultMsg{
		From:        from,
		Err:         errors.New("bad credentials"),
		AuthExpired: true,
	}
}

func TestStalePollerResultIsIgnored(t *testing.T) {
	m := newTestModel()
	svc := engine.NewService(stubFeed{}, model.AlertConfig{})
	current := appsync.New(svc, m.criteria.get, time.Minute)
	replaced := appsync.New(svc, m.criteria.get, time.Minute)
	m.service = svc
	m.poller = current

	next, cmd := m.Update(authFailure(replaced))

	got := next.(Model)
	if got.currentView != ViewList {
		t.Fatalf("stale auth failure changed the view to %v", got.currentView)
	}
	if got.poller != current {
		t.Fatal("stale result detached the active poller")
	}
	if cmd != nil {
		t.Fatal("stale result must end its subscription without a follow-up")
	}
}

func TestAuthExpiryDetachesPoller(t *testing.T) {
	m := newTestModel()
	svc := engine.NewService(stubFeed{}, model.AlertConfig{})
	p := appsync.New(svc, m.criteria.get, time.Minute)
	m.service = svc
	m.poller = p

	next, cmd := m.Update(authFailure(p))

	got := next.(Model)
	if got.currentView != ViewSetup {
		t.Fatalf("expected setup view after auth expiry, got %v", got.currentView)
	}
	if got.poller != nil || got.service != nil {
		t.Fatal("revoked session still attached after auth expiry")
	}
	if cmd == nil {
		t.Fatal("expected the setup form to start")
	}

	// A result from the detached poller must not restart the setup form
	// and wipe the token being typed.
	after, followup := got.Update(authFailure(p))
	if followup != nil {
		t.Fatal("detached poller result produced a command")
	}
	if after.(Model).currentView != ViewSetup {
		t.Fatal("detached poller result changed the view")
	}
}

func TestAttachServiceStopsPreviousPoller(t *testing.T) {
	m := newTestModel()
	svc := engine.NewService(stubFeed{}, model.AlertConfig{})
	old := appsync.New(svc, m.criteria.get, time.Minute)
	sub := old.Start()
	m.service = svc
	m.poller = old

	m.attachService("replacement-token")

	if m.poller == old {
		t.Fatal("poller was not replaced")
	}

	// The old poller's loop must have exited: its initial result drains,
	// then the stream ends.
	if first := sub(); first == nil {
		t.Fatal("expected the old poller's initial refresh result")
	}
	if next := old.WaitForNextResult()(); next != nil {
		t.Fatalf("old poller kept refreshing after replacement: %v", next)
	}

	m.poller.Stop()
}
