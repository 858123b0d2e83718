package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hubtray/hubtray/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlay view content areas.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// GroupHeaderStyle renders the repository name above each display group.
var GroupHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorMagenta)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ToastStyle renders the transient alert toast.
var ToastStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorOrange).
	Padding(0, 1)

// DimmedStyle renders secondary metadata like timestamps and reasons.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// SubjectStyle returns a color-coded style for the given subject type.
func SubjectStyle(subjectType model.SubjectType) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch subjectType {
	case model.SubjectIssue:
		return base.Foreground(ColorGreen)
	case model.SubjectPullRequest:
		return base.Foreground(ColorBlue)
	case model.SubjectCommit:
		return base.Foreground(ColorYellow)
	case model.SubjectRelease:
		return base.Foreground(ColorOrange)
	case model.SubjectDiscussion:
		return base.Foreground(ColorMagenta)
	default:
		return base.Foreground(ColorGray)
	}
}

// ReasonStyle returns a style for the given notification reason. Reasons
// that usually demand action are emphasized.
func ReasonStyle(reason model.Reason) lipgloss.Style {
	base := lipgloss.NewStyle()

	switch reason {
	case model.ReasonMention, model.ReasonTeamMention,
		model.ReasonReviewRequested, model.ReasonAssign:
		return base.Bold(true).Foreground(ColorOrange)
	case model.ReasonSecurityAlert:
		return base.Bold(true).Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}
