package components

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/devikam/paperprep/internal/ui/theme"
)

// ListInput captures "state two/three..." answers as a fixed set of
// numbered single-line entries. Up/down moves focus between entries.
type ListInput struct {
	inputs  []textinput.Model
	focused int
	locked  bool
}

// NewListInput creates count empty entries. count below 1 defaults to 2.
func NewListInput(count int) ListInput {
	if count < 1 {
		count = 2
	}
	inputs := make([]textinput.Model, count)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = fmt.Sprintf("Point %d...", i+1)
		inputs[i] = ti
	}
	inputs[0].Focus()
	return ListInput{inputs: inputs}
}

// Init returns the initial command.
func (l ListInput) Init() tea.Cmd {
	return l.inputs[l.focused].Focus()
}

// Update moves focus with up/down and forwards everything else to the
// focused entry.
func (l ListInput) Update(msg tea.Msg) (ListInput, tea.Cmd) {
	if l.locked {
		return l, nil
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "shift+tab":
			if l.focused > 0 {
				l.inputs[l.focused].Blur()
				l.focused--
				return l, l.inputs[l.focused].Focus()
			}
			return l, nil
		case "down", "tab":
			if l.focused < len(l.inputs)-1 {
				l.inputs[l.focused].Blur()
				l.focused++
				return l, l.inputs[l.focused].Focus()
			}
			return l, nil
		}
	}

	var cmd tea.Cmd
	l.inputs[l.focused], cmd = l.inputs[l.focused].Update(msg)
	return l, cmd
}

// View renders the numbered entries.
func (l ListInput) View() string {
	var s string
	for i, in := range l.inputs {
		num := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d. ", i+1))
		if l.locked {
			s += num + lipgloss.NewStyle().Foreground(theme.TextDim).Render(in.Value()) + "\n"
			continue
		}
		s += num + in.View() + "\n"
	}
	return s
}

// Values returns all entries in order, blanks included; emptiness rules
// live with the session.
func (l ListInput) Values() []string {
	out := make([]string, len(l.inputs))
	for i, in := range l.inputs {
		out[i] = in.Value()
	}
	return out
}

// SetValues restores entries from a snapshot.
func (l *ListInput) SetValues(vals []string) {
	for i := range l.inputs {
		if i < len(vals) {
			l.inputs[i].SetValue(vals[i])
		}
	}
}

// Lock freezes all entries.
func (l *ListInput) Lock() {
	l.locked = true
	for i := range l.inputs {
		l.inputs[i].Blur()
	}
}
