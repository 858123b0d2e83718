package app

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubtray/hubtray/internal/engine"
	"github.com/hubtray/hubtray/internal/model"
	appsync "github.com/hubtray/hubtray/internal/sync"
)

// mutateTimeout bounds one mark-as-read interaction, including the paced
// filtered-bulk loop.
const mutateTimeout = 60 * time.Second

// criteriaRef shares the active filter criteria between the UI goroutine
// and the poller's fetch-time callback.
type criteriaRef struct {
	mu gosync.Mutex
	c  model.Criteria
}

func newCriteriaRef(c model.Criteria) *criteriaRef {
	return &criteriaRef{c: c}
}

func (r *criteriaRef) get() model.Criteria {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.c
}

func (r *criteriaRef) set(c model.Criteria) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c = c
}

// markDoneMsg reports the outcome of a mark-as-read command.
type markDoneMsg struct {
	err    error
	result *engine.MarkResult
}

// markSelectedRead marks the item under the cursor read.
func (m *Model) markSelectedRead() tea.Cmd {
	selected := m.list.Selected()
	if selected == nil || m.service == nil {
		return nil
	}
	svc := m.service
	id := selected.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(
			context.Background(), mutateTimeout,
		)
		defer cancel()
		return markDoneMsg{err: svc.MarkOneRead(ctx, id)}
	}
}

// markAllRead marks the whole inbox read when no filter is active, and
// falls back to filtered-bulk marking when one is: bulk marking must
// never touch threads the user has filtered out of view.
func (m *Model) markAllRead() tea.Cmd {
	if m.service == nil {
		return nil
	}
	if !m.criteria.get().IsEmpty() {
		return m.markFilteredRead()
	}
	svc := m.service

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(
			context.Background(), mutateTimeout,
		)
		defer cancel()
		return markDoneMsg{err: svc.MarkAllRead(ctx)}
	}
}

// markFilteredRead marks only the currently-visible set read.
func (m *Model) markFilteredRead() tea.Cmd {
	if m.service == nil {
		return nil
	}
	svc := m.service
	criteria := m.criteria.get()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(
			context.Background(), mutateTimeout,
		)
		defer cancel()
		result, err := svc.MarkFilteredRead(ctx, criteria)
		return markDoneMsg{err: err, result: &result}
	}
}

// handleMarkDone applies a mark-as-read outcome to the UI.
func (m Model) handleMarkDone(msg markDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errMessage = fmt.Sprintf(
			"Mark read failed: %v (try again)", msg.err,
		)
		return m, nil
	}

	if msg.result != nil && len(msg.result.Failures) > 0 {
		m.errMessage = fmt.Sprintf(
			"Marked %d of %d read; %d failed",
			msg.result.MarkedCount,
			msg.result.TotalAttempted,
			len(msg.result.Failures),
		)
	} else {
		m.errMessage = ""
	}

	m.list.SetGroups(m.service.Groups())
	m.unreadCount = m.service.UnreadCount()
	return m, nil
}

// toggleSubjectType flips one subject type in the filter selection,
// persists it, and refreshes.
func (m *Model) toggleSubjectType(t model.SubjectType) tea.Cmd {
	c := m.criteria.get()

	found := false
	types := c.SubjectTypes[:0:0]
	for _, existing := range c.SubjectTypes {
		if existing == t {
			found = true
			continue
		}
		types = append(types, existing)
	}
	if !found {
		types = append(types, t)
	}
	c.SubjectTypes = types

	return m.applyCriteria(c)
}

// clearSubjectTypes removes the subject-type constraint.
func (m *Model) clearSubjectTypes() tea.Cmd {
	c := m.criteria.get()
	c.SubjectTypes = nil
	return m.applyCriteria(c)
}

// applyCriteria stores new criteria, persists them, and triggers a soft
// refresh so the view catches up.
func (m *Model) applyCriteria(c model.Criteria) tea.Cmd {
	m.criteria.set(c)

	m.cfg.Filters = model.FilterConfigFrom(c)
	if err := model.SaveConfig(m.cfgPath, m.cfg); err != nil {
		log.Printf("saving filter selection: %v", err)
	}

	if m.poller == nil {
		return nil
	}
	return m.poller.TriggerRefresh(appsync.RefreshSoft)
}

// openSelected opens the selected notification's web URL in the default
// browser.
func (m *Model) openSelected() tea.Cmd {
	selected := m.list.Selected()
	if selected == nil || selected.WebURL == "" {
		return nil
	}
	url := selected.WebURL

	return func() tea.Msg {
		if err := openBrowser(url); err != nil {
			log.Printf("opening %s: %v", url, err)
		}
		return nil
	}
}

// openBrowser launches the platform's URL opener.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
