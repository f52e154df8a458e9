package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/devikam/paperprep/internal/ui/theme"
)

// TextArea wraps bubbles/textarea for long_text answers.
type TextArea struct {
	Model  textarea.Model
	locked bool
}

// NewTextArea creates a multi-line answer area.
func NewTextArea(placeholder string, width, height int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.Focus()
	return TextArea{Model: ta}
}

// Init returns the initial command.
func (t TextArea) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. A locked area swallows everything.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	if t.locked {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the area.
func (t TextArea) View() string {
	if t.locked {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Model.Value())
	}
	return t.Model.View()
}

// Value returns the current content.
func (t TextArea) Value() string {
	return t.Model.Value()
}

// SetValue replaces the content (snapshot restore).
func (t *TextArea) SetValue(v string) {
	t.Model.SetValue(v)
}

// SetSize resizes the area to fit the pane.
func (t *TextArea) SetSize(width, height int) {
	t.Model.SetWidth(width)
	t.Model.SetHeight(height)
}

// Lock freezes the area once feedback exists for its question.
func (t *TextArea) Lock() {
	t.locked = true
	t.Model.Blur()
}
