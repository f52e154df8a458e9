package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

func TestTableInputEditsOnlyAnswerSpaces(t *testing.T) {
	ti := NewTableInput(
		[]string{"Metal", "Reacts?"},
		[][]string{
			{"zinc", ""},
			{"", "no"},
		},
	)

	// Cursor starts on the first blank cell: row 0, col 1.
	ti, _ = ti.Update(key("y"))
	ti, _ = ti.Update(key("e"))
	ti, _ = ti.Update(key("s"))

	vals := ti.Values()
	if vals[0][1] != "yes" {
		t.Errorf("cell(0,1) = %q, want 'yes'", vals[0][1])
	}
	if vals[0][0] != "zinc" || vals[1][1] != "no" {
		t.Error("fixed cells must keep their printed content")
	}
}

func TestTableInputNavigationSkipsFixedCells(t *testing.T) {
	ti := NewTableInput(nil, [][]string{
		{"", "fixed", ""},
	})

	// Right from col 0 skips the fixed middle cell to col 2.
	ti, _ = ti.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	ti, _ = ti.Update(key("x"))

	vals := ti.Values()
	if vals[0][2] != "x" {
		t.Errorf("cell(0,2) = %q, want 'x'", vals[0][2])
	}
	if vals[0][0] != "" {
		t.Errorf("cell(0,0) = %q, want untouched", vals[0][0])
	}
}

func TestTableInputBackspace(t *testing.T) {
	ti := NewTableInput(nil, [][]string{{""}})

	ti, _ = ti.Update(key("a"))
	ti, _ = ti.Update(key("b"))
	ti, _ = ti.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})

	if got := ti.Values()[0][0]; got != "a" {
		t.Errorf("cell = %q, want 'a'", got)
	}
}

func TestTableInputRestorePreservesFixed(t *testing.T) {
	ti := NewTableInput(nil, [][]string{{"zinc", ""}})
	ti.SetValues([][]string{{"HACKED", "yes"}})

	vals := ti.Values()
	if vals[0][0] != "zinc" {
		t.Errorf("fixed cell = %q, want 'zinc'", vals[0][0])
	}
	if vals[0][1] != "yes" {
		t.Errorf("answer cell = %q, want 'yes'", vals[0][1])
	}
}

func TestTableInputLocked(t *testing.T) {
	ti := NewTableInput(nil, [][]string{{""}})
	ti.Lock()

	ti, _ = ti.Update(key("a"))
	if got := ti.Values()[0][0]; got != "" {
		t.Errorf("locked cell = %q, want empty", got)
	}
}

func TestListInputValuesInOrder(t *testing.T) {
	li := NewListInput(3)

	li, _ = li.Update(key("a"))
	li, _ = li.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	li, _ = li.Update(key("b"))
	li, _ = li.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	li, _ = li.Update(key("c"))

	vals := li.Values()
	if len(vals) != 3 || vals[0] != "a" || vals[1] != "b" || vals[2] != "c" {
		t.Errorf("values = %v, want [a b c]", vals)
	}
}

func TestListInputDefaultsToTwoEntries(t *testing.T) {
	li := NewListInput(0)
	if len(li.Values()) != 2 {
		t.Errorf("entries = %d, want 2", len(li.Values()))
	}
}

func TestMultiChoiceSelection(t *testing.T) {
	mc := NewMultiChoice([]string{"A option", "B option", "C option"})

	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if mc.Value() != "B option" {
		t.Errorf("value = %q, want 'B option'", mc.Value())
	}

	// Number keys jump directly.
	mc, _ = mc.Update(key("3"))
	if mc.Value() != "C option" {
		t.Errorf("value = %q, want 'C option'", mc.Value())
	}

	mc.Lock()
	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if mc.Value() != "C option" {
		t.Error("locked choice must not move")
	}
	if mc.Chosen != 2 {
		t.Errorf("chosen = %d, want 2", mc.Chosen)
	}
}
