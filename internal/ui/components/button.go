package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/ui/theme"
)

// Button is a styled button component with an optional shortcut key.
type Button struct {
	Label    string
	Shortcut string
	Active   bool
	OnPress  func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label, shortcut string, onPress func() tea.Cmd) Button {
	return Button{
		Label:    label,
		Shortcut: shortcut,
		OnPress:  onPress,
	}
}

// Press runs the button's action.
func (b Button) Press() tea.Cmd {
	if b.OnPress == nil {
		return nil
	}
	return b.OnPress()
}

func (b Button) caption() string {
	if b.Shortcut == "" {
		return b.Label
	}
	return "[" + b.Shortcut + "] " + b.Label
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.caption())
	}
	return theme.ButtonInactive.Render(b.caption())
}

// ButtonRow is a horizontal set of buttons with one focused at a time.
// left/right or tab move focus, enter presses the focused button, and a
// button's shortcut key presses it directly.
type ButtonRow struct {
	Buttons []Button
	Focus   int
}

// NewButtonRow creates a row focused on the first button.
func NewButtonRow(buttons ...Button) ButtonRow {
	r := ButtonRow{Buttons: buttons}
	r.sync()
	return r
}

func (r *ButtonRow) sync() {
	for i := range r.Buttons {
		r.Buttons[i].Active = i == r.Focus
	}
}

// Update handles focus movement and presses.
func (r ButtonRow) Update(msg tea.Msg) (ButtonRow, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(r.Buttons) == 0 {
		return r, nil
	}

	switch key := kmsg.String(); key {
	case "left", "shift+tab":
		r.Focus = (r.Focus + len(r.Buttons) - 1) % len(r.Buttons)
	case "right", "tab":
		r.Focus = (r.Focus + 1) % len(r.Buttons)
	case "enter":
		return r, r.Buttons[r.Focus].Press()
	default:
		for _, b := range r.Buttons {
			if b.Shortcut != "" && b.Shortcut == key {
				return r, b.Press()
			}
		}
	}
	r.sync()
	return r, nil
}

// View renders the buttons side by side.
func (r ButtonRow) View() string {
	parts := make([]string, 0, 2*len(r.Buttons))
	for i, b := range r.Buttons {
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
