package setup

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hubtray/hubtray/internal/credential"
	"github.com/hubtray/hubtray/internal/github"
	"github.com/hubtray/hubtray/internal/theme"
)

// TokenSavedMsg is dispatched when a token was validated and stored.
type TokenSavedMsg struct{}

// SetupCancelMsg is dispatched when the user cancels the setup form.
type SetupCancelMsg struct{}

// tokenValidatedMsg carries the validation outcome back into the model.
type tokenValidatedMsg struct {
	err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	token string
}

// Model is the first-run token setup wizard.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	validating bool
	errMessage string
	width      int
	height     int
}

// New creates a new setup wizard model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the token form.
func (m *Model) Start() tea.Cmd {
	m.fb.token = ""
	m.errMessage = ""
	m.validating = false
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub personal access token").
				Description("Needs the notifications scope.").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token must not be empty")
					}
					return nil
				}),
		),
	).WithWidth(min(m.width-4, 72))
}

// Update handles messages for the setup form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if v, ok := msg.(tokenValidatedMsg); ok {
		m.validating = false
		if v.err != nil {
			m.errMessage = validationMessage(v.err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, func() tea.Msg { return TokenSavedMsg{} }
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, func() tea.Msg { return SetupCancelMsg{} }
	}

	if m.form == nil || m.validating {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		token := strings.TrimSpace(m.fb.token)
		m.validating = true
		m.errMessage = ""
		return m, validateAndStore(token)
	}

	return m, cmd
}

// validateAndStore checks the token against the live API, then persists
// it in the system keyring.
func validateAndStore(token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(
			context.Background(), 15*time.Second,
		)
		defer cancel()

		client := github.NewClient(token)
		if err := client.ValidateToken(ctx); err != nil {
			return tokenValidatedMsg{err: err}
		}
		if err := credential.SetToken(token); err != nil {
			return tokenValidatedMsg{err: err}
		}
		return tokenValidatedMsg{}
	}
}

// validationMessage maps a validation failure to user-facing text.
func validationMessage(err error) string {
	switch {
	case github.IsAuthError(err):
		return "Token rejected (401). Check the token and try again."
	case github.IsPermissionError(err):
		return "Token lacks the notifications scope (403)."
	case github.IsTransientError(err):
		return "Could not reach GitHub. Check your connection and retry."
	default:
		return fmt.Sprintf("Validation failed: %v", err)
	}
}

// View renders the setup wizard.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Connect to GitHub")}

	if m.validating {
		parts = append(parts,
			theme.DimmedStyle.Render("Validating token…"))
	} else if m.form != nil {
		parts = append(parts, m.form.View())
	}

	if m.errMessage != "" {
		errStyle := lipgloss.NewStyle().
			Foreground(theme.ColorRed)
		parts = append(parts, errStyle.Render(m.errMessage))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the setup view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
