package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/ui/theme"
)

// GraphTool selects what a pointer gesture produces.
type GraphTool int

const (
	ToolPoint GraphTool = iota
	ToolLine
)

// GraphInput is the mouse-driven drawing canvas for graph_drawing
// questions. It accumulates a point set and a line set through raw
// down/move/up pointer events. Output is always the structured
// point/line description, never a raster.
type GraphInput struct {
	cfg exam.GraphConfig

	points []exam.Point
	lines  []exam.Line

	tool     GraphTool
	dragging bool
	anchor   exam.Point // line start while dragging
	preview  exam.Point // line end while dragging

	// Canvas geometry: cell size and the canvas origin in screen cells,
	// set by the screen each frame so pointer coordinates can be mapped.
	width, height    int
	originX, originY int
	locked           bool
}

// NewGraphInput creates a canvas for the question's axis range.
func NewGraphInput(cfg exam.GraphConfig, width, height int) GraphInput {
	if width < 10 {
		width = 10
	}
	if height < 6 {
		height = 6
	}
	return GraphInput{cfg: cfg, width: width, height: height}
}

// SetOrigin tells the canvas where its top-left cell sits on screen.
// Pointer events outside the canvas are ignored.
func (g *GraphInput) SetOrigin(x, y int) {
	g.originX = x
	g.originY = y
}

// toLogical maps a canvas cell to the question's axis coordinates.
func (g GraphInput) toLogical(cx, cy int) exam.Point {
	fx := float64(cx) / float64(g.width-1)
	fy := float64(cy) / float64(g.height-1)
	return exam.Point{
		X: g.cfg.XMin + fx*(g.cfg.XMax-g.cfg.XMin),
		Y: g.cfg.YMax - fy*(g.cfg.YMax-g.cfg.YMin), // rows grow downward
	}
}

// toCell maps axis coordinates back onto the canvas, used only for
// drawing existing marks.
func (g GraphInput) toCell(p exam.Point) (int, int, bool) {
	if g.cfg.XMax == g.cfg.XMin || g.cfg.YMax == g.cfg.YMin {
		return 0, 0, false
	}
	fx := (p.X - g.cfg.XMin) / (g.cfg.XMax - g.cfg.XMin)
	fy := (g.cfg.YMax - p.Y) / (g.cfg.YMax - g.cfg.YMin)
	cx := int(fx*float64(g.width-1) + 0.5)
	cy := int(fy*float64(g.height-1) + 0.5)
	if cx < 0 || cx >= g.width || cy < 0 || cy >= g.height {
		return 0, 0, false
	}
	return cx, cy, true
}

// hit converts a screen pointer position to canvas cells.
func (g GraphInput) hit(x, y int) (int, int, bool) {
	cx, cy := x-g.originX, y-g.originY
	if cx < 0 || cx >= g.width || cy < 0 || cy >= g.height {
		return 0, 0, false
	}
	return cx, cy, true
}

// Init returns nil.
func (g GraphInput) Init() tea.Cmd {
	return nil
}

// Update handles pointer gestures and the tool/clear keys.
func (g GraphInput) Update(msg tea.Msg) (GraphInput, tea.Cmd) {
	if g.locked {
		return g, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			if g.tool == ToolPoint {
				g.tool = ToolLine
			} else {
				g.tool = ToolPoint
			}
		case "c":
			g.points = nil
			g.lines = nil
			g.dragging = false
		}

	case tea.MouseClickMsg:
		m := msg.Mouse()
		cx, cy, ok := g.hit(m.X, m.Y)
		if !ok {
			return g, nil
		}
		p := g.toLogical(cx, cy)
		if g.tool == ToolPoint {
			g.points = append(g.points, p)
		} else {
			g.dragging = true
			g.anchor = p
			g.preview = p
		}

	case tea.MouseMotionMsg:
		if !g.dragging {
			return g, nil
		}
		m := msg.Mouse()
		if cx, cy, ok := g.hit(m.X, m.Y); ok {
			g.preview = g.toLogical(cx, cy)
		}

	case tea.MouseReleaseMsg:
		if !g.dragging {
			return g, nil
		}
		g.dragging = false
		m := msg.Mouse()
		if cx, cy, ok := g.hit(m.X, m.Y); ok {
			g.preview = g.toLogical(cx, cy)
		}
		g.lines = append(g.lines, exam.Line{
			X1: g.anchor.X, Y1: g.anchor.Y,
			X2: g.preview.X, Y2: g.preview.Y,
		})
	}

	return g, nil
}

// View renders the canvas with axis labels and every accumulated mark.
func (g GraphInput) View() string {
	grid := make([][]rune, g.height)
	for y := range grid {
		grid[y] = make([]rune, g.width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for _, l := range g.lines {
		g.plotLine(grid, l)
	}
	if g.dragging {
		g.plotLine(grid, exam.Line{X1: g.anchor.X, Y1: g.anchor.Y, X2: g.preview.X, Y2: g.preview.Y})
	}
	for _, p := range g.points {
		if cx, cy, ok := g.toCell(p); ok {
			grid[cy][cx] = '●'
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(string(row) + "\n")
	}

	canvas := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Secondary).
		Render(strings.TrimRight(b.String(), "\n"))

	toolName := "point"
	if g.tool == ToolLine {
		toolName = "line"
	}
	status := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(
		"%s ▸ %s   [t] tool  [c] clear   x: %s (%.6g–%.6g)  y: %s (%.6g–%.6g)",
		map[bool]string{true: "drawing", false: "tool"}[g.dragging], toolName,
		g.cfg.XLabel, g.cfg.XMin, g.cfg.XMax,
		g.cfg.YLabel, g.cfg.YMin, g.cfg.YMax,
	))

	return canvas + "\n" + status
}

// plotLine draws a line onto the cell grid with integer stepping.
func (g GraphInput) plotLine(grid [][]rune, l exam.Line) {
	x1, y1, ok1 := g.toCell(exam.Point{X: l.X1, Y: l.Y1})
	x2, y2, ok2 := g.toCell(exam.Point{X: l.X2, Y: l.Y2})
	if !ok1 || !ok2 {
		return
	}

	dx, dy := x2-x1, y2-y1
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		grid[y1][x1] = '·'
		return
	}
	for i := 0; i <= steps; i++ {
		x := x1 + dx*i/steps
		y := y1 + dy*i/steps
		grid[y][x] = '·'
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Value returns the accumulated drawing, or nil when nothing is drawn.
func (g GraphInput) Value() *exam.GraphAnswer {
	if len(g.points) == 0 && len(g.lines) == 0 {
		return nil
	}
	return &exam.GraphAnswer{
		Points: append([]exam.Point(nil), g.points...),
		Lines:  append([]exam.Line(nil), g.lines...),
	}
}

// SetValue restores a drawing from a snapshot.
func (g *GraphInput) SetValue(a *exam.GraphAnswer) {
	if a == nil {
		return
	}
	g.points = append([]exam.Point(nil), a.Points...)
	g.lines = append([]exam.Line(nil), a.Lines...)
}

// Lock freezes the canvas.
func (g *GraphInput) Lock() {
	g.locked = true
	g.dragging = false
}
