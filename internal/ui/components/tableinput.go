package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/devikam/paperprep/internal/ui/theme"
)

// TableInput captures fill-in-the-grid answers. Cells that arrive with
// content are printed matter and stay fixed; blank cells are the answer
// spaces. Arrow keys move between answer spaces, typing edits in place.
type TableInput struct {
	headers []string
	cells   [][]string
	fixed   [][]bool
	curRow  int
	curCol  int
	locked  bool
}

// NewTableInput builds the grid from the extracted structure.
func NewTableInput(headers []string, initial [][]string) TableInput {
	cells := make([][]string, len(initial))
	fixed := make([][]bool, len(initial))
	for r, row := range initial {
		cells[r] = append([]string(nil), row...)
		fixed[r] = make([]bool, len(row))
		for c, v := range row {
			fixed[r][c] = strings.TrimSpace(v) != ""
		}
	}
	t := TableInput{headers: headers, cells: cells, fixed: fixed}
	t.curRow, t.curCol = t.nextEditable(0, -1)
	return t
}

// nextEditable finds the first answer space at or after (row, col+1),
// scanning row-major. Falls back to (0, 0) on a fully fixed grid.
func (t TableInput) nextEditable(row, col int) (int, int) {
	for r := row; r < len(t.cells); r++ {
		start := 0
		if r == row {
			start = col + 1
		}
		for c := start; c < len(t.cells[r]); c++ {
			if !t.fixed[r][c] {
				return r, c
			}
		}
	}
	return 0, 0
}

// Init returns nil.
func (t TableInput) Init() tea.Cmd {
	return nil
}

// Update handles navigation and in-place editing.
func (t TableInput) Update(msg tea.Msg) (TableInput, tea.Cmd) {
	if t.locked || len(t.cells) == 0 {
		return t, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	switch key := kmsg.String(); key {
	case "up":
		t.move(-1, 0)
	case "down":
		t.move(1, 0)
	case "left":
		t.move(0, -1)
	case "right", "tab":
		t.move(0, 1)
	case "backspace":
		cur := t.cells[t.curRow][t.curCol]
		if len(cur) > 0 {
			t.cells[t.curRow][t.curCol] = cur[:len(cur)-1]
		}
	case "space":
		t.cells[t.curRow][t.curCol] += " "
	default:
		if len([]rune(key)) == 1 {
			t.cells[t.curRow][t.curCol] += key
		}
	}

	return t, nil
}

// move shifts the cursor by one step, skipping fixed cells in that
// direction. Stays put when no answer space exists that way.
func (t *TableInput) move(dr, dc int) {
	r, c := t.curRow, t.curCol
	for {
		r += dr
		c += dc
		if r < 0 || r >= len(t.cells) || c < 0 || c >= len(t.cells[r]) {
			return
		}
		if !t.fixed[r][c] {
			t.curRow, t.curCol = r, c
			return
		}
	}
}

// View renders the grid with the cursor cell highlighted.
func (t TableInput) View() string {
	colWidth := 14
	var b strings.Builder

	if len(t.headers) > 0 {
		var hs []string
		for _, h := range t.headers {
			hs = append(hs, lipgloss.NewStyle().
				Foreground(theme.Secondary).Bold(true).Width(colWidth).Render(h))
		}
		b.WriteString(strings.Join(hs, " │ ") + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).
			Render(strings.Repeat("─", (colWidth+3)*len(t.headers)-3)) + "\n")
	}

	for r, row := range t.cells {
		var cs []string
		for c, v := range row {
			cell := v
			style := lipgloss.NewStyle().Foreground(theme.Text).Width(colWidth)
			switch {
			case t.fixed[r][c]:
				style = style.Foreground(theme.TextDim)
			case r == t.curRow && c == t.curCol && !t.locked:
				cell += "▏"
				style = style.Foreground(theme.Primary).Bold(true)
			}
			if cell == "" {
				cell = "·"
				style = style.Foreground(theme.Border)
				if r == t.curRow && c == t.curCol && !t.locked {
					cell = "▏"
					style = style.Foreground(theme.Primary)
				}
			}
			cs = append(cs, style.Render(cell))
		}
		b.WriteString(strings.Join(cs, " │ ") + "\n")
	}
	return b.String()
}

// Values returns the full grid, fixed cells included, matching the
// printed table the marker sees.
func (t TableInput) Values() [][]string {
	out := make([][]string, len(t.cells))
	for r, row := range t.cells {
		out[r] = append([]string(nil), row...)
	}
	return out
}

// SetValues restores the grid from a snapshot. Fixed flags are kept;
// only answer spaces take restored content.
func (t *TableInput) SetValues(vals [][]string) {
	for r := range t.cells {
		if r >= len(vals) {
			break
		}
		for c := range t.cells[r] {
			if c >= len(vals[r]) || t.fixed[r][c] {
				continue
			}
			t.cells[r][c] = vals[r][c]
		}
	}
}

// Lock freezes the grid.
func (t *TableInput) Lock() {
	t.locked = true
}
