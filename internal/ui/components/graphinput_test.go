package components

import (
	"math"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/devikam/paperprep/internal/exam"
)

var axisCfg = exam.GraphConfig{
	XLabel: "t / s", YLabel: "v / m/s",
	XMin: 0, XMax: 10, YMin: 0, YMax: 100,
}

func TestGraphCoordinateTransformRoundTrip(t *testing.T) {
	g := NewGraphInput(axisCfg, 21, 11)

	// Canvas corners map to the axis extremes.
	tests := []struct {
		cx, cy int
		x, y   float64
	}{
		{0, 10, 0, 0},    // bottom-left
		{20, 0, 10, 100}, // top-right
		{10, 5, 5, 50},   // center
	}
	for _, tt := range tests {
		p := g.toLogical(tt.cx, tt.cy)
		if math.Abs(p.X-tt.x) > 1e-9 || math.Abs(p.Y-tt.y) > 1e-9 {
			t.Errorf("toLogical(%d,%d) = (%g,%g), want (%g,%g)", tt.cx, tt.cy, p.X, p.Y, tt.x, tt.y)
		}

		cx, cy, ok := g.toCell(p)
		if !ok || cx != tt.cx || cy != tt.cy {
			t.Errorf("toCell(%g,%g) = (%d,%d,%t), want (%d,%d)", p.X, p.Y, cx, cy, ok, tt.cx, tt.cy)
		}
	}
}

func TestGraphPointTool(t *testing.T) {
	g := NewGraphInput(axisCfg, 21, 11)
	g.SetOrigin(5, 2)

	// Click inside the canvas plots a point.
	g, _ = g.Update(tea.MouseClickMsg{X: 15, Y: 7, Button: tea.MouseLeft})
	ans := g.Value()
	if ans == nil || len(ans.Points) != 1 {
		t.Fatalf("answer = %+v, want one point", ans)
	}
	want := g.toLogical(10, 5)
	if ans.Points[0] != want {
		t.Errorf("point = %+v, want %+v", ans.Points[0], want)
	}

	// Click outside is ignored.
	g, _ = g.Update(tea.MouseClickMsg{X: 0, Y: 0, Button: tea.MouseLeft})
	if len(g.Value().Points) != 1 {
		t.Error("click outside canvas should be ignored")
	}
}

func TestGraphLineTool(t *testing.T) {
	g := NewGraphInput(axisCfg, 21, 11)
	g.SetOrigin(0, 0)

	// Switch to the line tool, then drag bottom-left to top-right.
	g, _ = g.Update(tea.KeyPressMsg{Code: 't', Text: "t"})
	g, _ = g.Update(tea.MouseClickMsg{X: 0, Y: 10, Button: tea.MouseLeft})
	g, _ = g.Update(tea.MouseMotionMsg{X: 10, Y: 5, Button: tea.MouseLeft})
	g, _ = g.Update(tea.MouseReleaseMsg{X: 20, Y: 0, Button: tea.MouseLeft})

	ans := g.Value()
	if ans == nil || len(ans.Lines) != 1 {
		t.Fatalf("answer = %+v, want one line", ans)
	}
	l := ans.Lines[0]
	if l.X1 != 0 || l.Y1 != 0 || l.X2 != 10 || l.Y2 != 100 {
		t.Errorf("line = %+v, want (0,0)->(10,100)", l)
	}
	if len(ans.Points) != 0 {
		t.Errorf("points = %d, want 0", len(ans.Points))
	}
}

func TestGraphClear(t *testing.T) {
	g := NewGraphInput(axisCfg, 21, 11)
	g.SetOrigin(0, 0)

	g, _ = g.Update(tea.MouseClickMsg{X: 3, Y: 3, Button: tea.MouseLeft})
	g, _ = g.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})

	if g.Value() != nil {
		t.Error("expected nil answer after clear")
	}
}

func TestGraphLockedIgnoresInput(t *testing.T) {
	g := NewGraphInput(axisCfg, 21, 11)
	g.SetOrigin(0, 0)
	g.Lock()

	g, _ = g.Update(tea.MouseClickMsg{X: 3, Y: 3, Button: tea.MouseLeft})
	if g.Value() != nil {
		t.Error("locked canvas must not accept marks")
	}
}

func TestGraphRestore(t *testing.T) {
	g := NewGraphInput(axisCfg, 21, 11)
	g.SetValue(&exam.GraphAnswer{
		Points: []exam.Point{{X: 2, Y: 20}},
		Lines:  []exam.Line{{X1: 0, Y1: 0, X2: 10, Y2: 100}},
	})

	ans := g.Value()
	if ans == nil || len(ans.Points) != 1 || len(ans.Lines) != 1 {
		t.Fatalf("answer = %+v, want restored drawing", ans)
	}
}
