package notiflist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubtray/hubtray/internal/keys"
	"github.com/hubtray/hubtray/internal/model"
	"github.com/hubtray/hubtray/internal/theme"
)

// row is one rendered line: either a group header or a selectable item.
type row struct {
	header string
	item   *model.DisplayItem
}

// Model is the grouped notification list view. The cursor moves over a
// flattened view of the groups; group headers are skipped.
type Model struct {
	keys   *keys.KeyMap
	groups []model.DisplayGroup
	rows   []row
	cursor int
	offset int
	width  int
	height int
}

// New creates a new notification list model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetGroups replaces the displayed groups, keeping the cursor in range.
func (m *Model) SetGroups(groups []model.DisplayGroup) {
	m.groups = groups
	m.rows = flatten(groups)

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.snapToItem(1)
	m.clampOffset()
}

// Selected returns the item under the cursor, or nil when the list is
// empty.
func (m Model) Selected() *model.DisplayItem {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].item
}

// Update handles navigation messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		m.move(1)
	case key.Matches(keyMsg, m.keys.Up):
		m.move(-1)
	}
	return m, nil
}

// move advances the cursor by direction, skipping header rows.
func (m *Model) move(direction int) {
	next := m.cursor + direction
	for next >= 0 && next < len(m.rows) && m.rows[next].item == nil {
		next += direction
	}
	if next >= 0 && next < len(m.rows) {
		m.cursor = next
	}
	m.clampOffset()
}

// snapToItem moves the cursor onto the nearest item row in the given
// direction if it currently sits on a header.
func (m *Model) snapToItem(direction int) {
	for m.cursor >= 0 && m.cursor < len(m.rows) &&
		m.rows[m.cursor].item == nil {
		m.cursor += direction
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// clampOffset keeps the cursor within the visible window.
func (m *Model) clampOffset() {
	if m.height <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the visible window of the grouped list.
func (m Model) View() string {
	if len(m.rows) == 0 {
		return theme.DimmedStyle.Render("  Inbox zero. Nothing unread.")
	}

	var b strings.Builder
	end := len(m.rows)
	if m.height > 0 && m.offset+m.height < end {
		end = m.offset + m.height
	}

	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		if r.item == nil {
			b.WriteString(theme.GroupHeaderStyle.Render(r.header))
		} else {
			b.WriteString(m.renderItem(*r.item, i == m.cursor))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderItem renders one notification line.
func (m Model) renderItem(item model.DisplayItem, selected bool) string {
	subject := theme.SubjectStyle(item.SubjectType).
		Render(subjectBadge(item.SubjectType))
	reason := theme.ReasonStyle(item.Reason).Render(string(item.Reason))
	age := theme.DimmedStyle.Render(relativeTime(item.UpdatedAt))

	line := fmt.Sprintf("%s %s  %s %s",
		subject, item.SubjectTitle, reason, age)

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// SetSize updates the list view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

// flatten turns groups into the rendered row sequence: one header per
// repository followed by its items.
func flatten(groups []model.DisplayGroup) []row {
	var rows []row
	for _, g := range groups {
		rows = append(rows, row{
			header: fmt.Sprintf("%s (%d)", g.RepositoryKey, len(g.Items)),
		})
		for i := range g.Items {
			rows = append(rows, row{item: &g.Items[i]})
		}
	}
	return rows
}

// subjectBadge returns the short bracketed label for a subject type.
func subjectBadge(t model.SubjectType) string {
	switch t {
	case model.SubjectIssue:
		return "[IS]"
	case model.SubjectPullRequest:
		return "[PR]"
	case model.SubjectCommit:
		return "[CM]"
	case model.SubjectRelease:
		return "[RL]"
	case model.SubjectDiscussion:
		return "[DC]"
	default:
		return "[??]"
	}
}

// relativeTime renders a compact "how long ago" label.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
