package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/devikam/paperprep/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for short_text, numerical and
// free-text fallback answers.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	locked      bool
}

// NewTextInput creates a new styled text input. numericOnly restricts
// typing to digits, sign, decimal point and units-friendly characters.
func NewTextInput(placeholder string, numericOnly bool, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{
		Model:       ti,
		NumericOnly: numericOnly,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. A locked input swallows everything.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.locked {
		return t, nil
	}

	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && !numericRune(key[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func numericRune(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '-' || c == '/' || c == ' ':
		return true
	}
	// Unit letters (m, s, kg...) stay typeable.
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// View renders the text input.
func (t TextInput) View() string {
	if t.locked {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Model.Value())
	}
	return t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input content (snapshot restore).
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// Lock freezes the input once feedback exists for its question.
func (t *TextInput) Lock() {
	t.locked = true
	t.Model.Blur()
}
