package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Open in browser
	Open key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Refresh: soft keeps dismissed items hidden, hard resyncs them.
	Refresh     key.Binding
	HardRefresh key.Binding

	// Read-state actions
	MarkRead         key.Binding
	MarkAllRead      key.Binding
	MarkFilteredRead key.Binding

	// Subject-type filter toggles
	FilterIssues     key.Binding
	FilterPulls      key.Binding
	FilterReleases   key.Binding
	ClearTypeFilters key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter/o", "open in browser"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		HardRefresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh + resync dismissed"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "mark all read"),
		),
		MarkFilteredRead: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "mark visible read"),
		),
		FilterIssues: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "toggle issues"),
		),
		FilterPulls: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "toggle pull requests"),
		),
		FilterReleases: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "toggle releases"),
		),
		ClearTypeFilters: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "clear type filters"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Open, k.MarkRead,
		k.Refresh, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back, k.Quit},
		{k.Refresh, k.HardRefresh, k.Help},
		{k.MarkRead, k.MarkAllRead, k.MarkFilteredRead},
		{k.FilterIssues, k.FilterPulls, k.FilterReleases, k.ClearTypeFilters},
	}
}
