package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubtray/hubtray/internal/credential"
	"github.com/hubtray/hubtray/internal/engine"
	"github.com/hubtray/hubtray/internal/github"
	"github.com/hubtray/hubtray/internal/keys"
	"github.com/hubtray/hubtray/internal/model"
	"github.com/hubtray/hubtray/internal/notify"
	appsync "github.com/hubtray/hubtray/internal/sync"
	"github.com/hubtray/hubtray/internal/ui"
	helpview "github.com/hubtray/hubtray/internal/ui/help"
	"github.com/hubtray/hubtray/internal/ui/notiflist"
	setupview "github.com/hubtray/hubtray/internal/ui/setup"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewSetup
	ViewHelp
)

// clearToastMsg hides the transient alert toast.
type clearToastMsg struct{}

// Model is the root Bubble Tea model that manages view routing, layout,
// the engine service, and the poller.
type Model struct {
	currentView ViewState
	layout      ui.Layout
	keys        *keys.KeyMap

	cfg     *model.AppConfig
	cfgPath string

	// criteria is shared with the poller's fetch-time callback, so
	// filter changes apply on the next cycle without rebuilding it.
	criteria *criteriaRef

	service    *engine.Service
	poller     *appsync.Poller
	dispatcher *notify.Dispatcher

	list  notiflist.Model
	help  helpview.Model
	setup setupview.Model

	ready       bool
	unreadCount int
	toast       string
	errMessage  string
}

// New creates the root application model from loaded configuration.
func New(cfg *model.AppConfig, cfgPath string) Model {
	k := keys.DefaultKeyMap()
	criteria := newCriteriaRef(cfg.Filters.Criteria())

	m := Model{
		currentView: ViewList,
		keys:        k,
		cfg:         cfg,
		cfgPath:     cfgPath,
		criteria:    criteria,
		dispatcher:  notify.NewDispatcher(notify.TerminalNotifier{}),
		list:        notiflist.New(k, 80, 24),
		help:        helpview.New(k, 80, 24),
		setup:       setupview.New(80, 24),
	}

	if token, err := credential.GetToken(); err == nil && token != "" {
		m.attachService(token)
	} else {
		m.currentView = ViewSetup
	}

	return m
}

// attachService wires the engine service and poller to a token. Any
// previous poller is stopped first so only one refresh loop exists.
func (m *Model) attachService(token string) {
	if m.poller != nil {
		m.poller.Stop()
	}
	feed := github.NewFeed(github.NewClient(token), github.FetchOptions{})
	m.service = engine.NewService(feed, m.cfg.Alerts)
	m.poller = appsync.New(
		m.service,
		m.criteria.get,
		time.Duration(m.cfg.RefreshIntervalMin)*time.Minute,
	)
}

// Init starts polling, or the setup wizard when no token is stored.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewSetup {
		return m.setup.Start()
	}
	return m.poller.Start()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.list.SetSize(w, h)
		m.help.SetSize(w, h)
		m.setup.SetSize(w, h)
		return m, nil

	case appsync.RefreshResultMsg:
		return m.handleRefreshResult(msg)

	case markDoneMsg:
		return m.handleMarkDone(msg)

	case setupview.TokenSavedMsg:
		token, err := credential.GetToken()
		if err != nil {
			m.errMessage = fmt.Sprintf("reading stored token: %v", err)
			return m, nil
		}
		m.attachService(token)
		m.currentView = ViewList
		m.errMessage = ""
		return m, m.poller.Start()

	case setupview.SetupCancelMsg:
		// Without a token there is nothing to go back to.
		if m.service == nil {
			return m, tea.Quit
		}
		m.currentView = ViewList
		return m, nil

	case clearToastMsg:
		m.toast = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

// handleRefreshResult applies one refresh cycle's outcome to the UI.
func (m Model) handleRefreshResult(
	msg appsync.RefreshResultMsg,
) (tea.Model, tea.Cmd) {
	// A result from a replaced or detached poller is stale. Dropping it
	// without re-subscribing also ends that poller's result stream.
	if msg.From != m.poller {
		return m, nil
	}

	if msg.Err != nil {
		if msg.AuthExpired {
			// Detach the poller so the revoked token stops refreshing
			// and cannot interrupt the setup flow.
			m.poller.Stop()
			m.poller = nil
			m.service = nil
			m.currentView = ViewSetup
			m.errMessage = "GitHub token expired. Enter a new one."
			return m, m.setup.Start()
		}
		m.errMessage = refreshErrorMessage(msg.Err)
		return m, m.poller.WaitForNextResult()
	}

	cmds := []tea.Cmd{m.poller.WaitForNextResult()}

	m.errMessage = ""
	m.unreadCount = msg.UnreadCount
	m.list.SetGroups(msg.Groups)

	m.dispatcher.Dispatch(msg.Alert)
	if msg.Alert != nil && msg.Alert.ShowDesktop {
		m.toast = msg.Alert.Title
		cmds = append(cmds, tea.Tick(
			5*time.Second,
			func(time.Time) tea.Msg { return clearToastMsg{} },
		))
	}

	return m, tea.Batch(cmds...)
}

// refreshErrorMessage maps a refresh failure to the retry affordance text.
func refreshErrorMessage(err error) string {
	switch {
	case github.IsPermissionError(err):
		return "Token lacks the notifications scope (403)."
	case github.IsTransientError(err):
		return "GitHub unreachable; will retry on next refresh (r)."
	default:
		return fmt.Sprintf("Refresh failed: %v (press r to retry)", err)
	}
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The setup form consumes all input while active.
	if m.currentView == ViewSetup {
		return m.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.poller != nil {
			m.poller.Stop()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = ViewList
		} else {
			m.currentView = ViewHelp
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.currentView = ViewList
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.poller == nil {
			return m, nil
		}
		return m, m.poller.TriggerRefresh(appsync.RefreshSoft)

	case key.Matches(msg, m.keys.HardRefresh):
		if m.poller == nil {
			return m, nil
		}
		return m, m.poller.TriggerRefresh(appsync.RefreshManual)

	case key.Matches(msg, m.keys.Open):
		return m, m.openSelected()

	case key.Matches(msg, m.keys.MarkRead):
		return m, m.markSelectedRead()

	case key.Matches(msg, m.keys.MarkAllRead):
		return m, m.markAllRead()

	case key.Matches(msg, m.keys.MarkFilteredRead):
		return m, m.markFilteredRead()

	case key.Matches(msg, m.keys.FilterIssues):
		return m, m.toggleSubjectType(model.SubjectIssue)

	case key.Matches(msg, m.keys.FilterPulls):
		return m, m.toggleSubjectType(model.SubjectPullRequest)

	case key.Matches(msg, m.keys.FilterReleases):
		return m, m.toggleSubjectType(model.SubjectRelease)

	case key.Matches(msg, m.keys.ClearTypeFilters):
		return m, m.clearSubjectTypes()
	}

	return m.updateActiveView(msg)
}

// updateActiveView forwards a message to the active view model.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewList:
		m.list, cmd = m.list.Update(msg)
	case ViewHelp:
		m.help, cmd = m.help.Update(msg)
	case ViewSetup:
		m.setup, cmd = m.setup.Update(msg)
	}
	return m, cmd
}

// View renders the full terminal frame.
func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}

	var content string
	switch m.currentView {
	case ViewList:
		content = m.list.View()
	case ViewHelp:
		content = m.help.View()
	case ViewSetup:
		content = m.setup.View()
	}

	header := m.layout.RenderHeader(
		fmt.Sprintf("hubtray · %d unread", m.unreadCount),
		m.headerStatus(),
	)
	statusBar := m.layout.RenderStatusBar(m.statusHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// headerStatus summarizes the refresh loop state for the header.
func (m Model) headerStatus() string {
	if m.poller == nil {
		return "setup"
	}
	status := m.poller.GetStatus()
	switch status.State {
	case appsync.RefreshRunning:
		return "refreshing…"
	case appsync.RefreshError:
		return "error"
	default:
		if status.LastRefresh.IsZero() {
			return ""
		}
		return "updated " + status.LastRefresh.Format("15:04")
	}
}

// statusHints renders the status bar: toast and errors win over key hints.
func (m Model) statusHints() string {
	if m.toast != "" {
		return m.toast
	}
	if m.errMessage != "" {
		return m.errMessage
	}
	return "r refresh · R resync · m mark read · M mark all · " +
		"f mark visible · ? help · q quit"
}
