package exam

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AnswerKind discriminates the shapes an Answer can take.
type AnswerKind int

const (
	KindNone AnswerKind = iota
	KindText            // short_text, long_text, numerical, multiple_choice
	KindList            // list
	KindTable           // table
	KindGraph           // graph_drawing
)

// Point is a single plotted point in logical axis coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line is a drawn segment in logical axis coordinates.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// GraphAnswer is the accumulated output of the graph drawing surface.
type GraphAnswer struct {
	Points []Point `json:"points"`
	Lines  []Line  `json:"lines"`
}

// Answer is the normalized value captured for one question. The wire shape
// depends on the question type: bare string, string array, row array, or a
// {points, lines} object. Mutated only through Session.SetAnswer.
type Answer struct {
	Kind  AnswerKind
	Text  string
	Items []string
	Cells [][]string
	Graph *GraphAnswer
}

// TextAnswer wraps a scalar string answer.
func TextAnswer(s string) Answer { return Answer{Kind: KindText, Text: s} }

// ListAnswer wraps a free-list answer.
func ListAnswer(items []string) Answer { return Answer{Kind: KindList, Items: items} }

// TableAnswer wraps a grid answer.
func TableAnswer(cells [][]string) Answer { return Answer{Kind: KindTable, Cells: cells} }

// DrawnAnswer wraps a graph drawing answer.
func DrawnAnswer(g *GraphAnswer) Answer { return Answer{Kind: KindGraph, Graph: g} }

// IsEmpty applies the per-type non-empty rule: graph needs at least one
// point or line, table/list at least one non-blank cell, scalar a
// non-blank trimmed string. Empty answers are rejected at submit time.
func (a Answer) IsEmpty() bool {
	switch a.Kind {
	case KindText:
		return strings.TrimSpace(a.Text) == ""
	case KindList:
		for _, it := range a.Items {
			if strings.TrimSpace(it) != "" {
				return false
			}
		}
		return true
	case KindTable:
		for _, row := range a.Cells {
			for _, c := range row {
				if strings.TrimSpace(c) != "" {
					return false
				}
			}
		}
		return true
	case KindGraph:
		return a.Graph == nil || (len(a.Graph.Points) == 0 && len(a.Graph.Lines) == 0)
	}
	return true
}

// ForMarking serializes the answer into the structured text form sent to
// the marking prompt. Graph answers are described as enumerated points and
// segments, never as raster data.
func (a Answer) ForMarking() string {
	switch a.Kind {
	case KindText:
		return strings.TrimSpace(a.Text)
	case KindList:
		var b strings.Builder
		n := 0
		for _, it := range a.Items {
			it = strings.TrimSpace(it)
			if it == "" {
				continue
			}
			n++
			fmt.Fprintf(&b, "%d. %s\n", n, it)
		}
		return strings.TrimRight(b.String(), "\n")
	case KindTable:
		var b strings.Builder
		for _, row := range a.Cells {
			b.WriteString(strings.Join(row, " | "))
			b.WriteString("\n")
		}
		return strings.TrimRight(b.String(), "\n")
	case KindGraph:
		if a.Graph == nil {
			return ""
		}
		var b strings.Builder
		if len(a.Graph.Points) > 0 {
			b.WriteString("Plotted points:\n")
			for _, p := range a.Graph.Points {
				fmt.Fprintf(&b, "  (%.2f, %.2f)\n", p.X, p.Y)
			}
		}
		if len(a.Graph.Lines) > 0 {
			b.WriteString("Drawn lines:\n")
			for _, l := range a.Graph.Lines {
				fmt.Fprintf(&b, "  (%.2f, %.2f) -> (%.2f, %.2f)\n", l.X1, l.Y1, l.X2, l.Y2)
			}
		}
		return strings.TrimRight(b.String(), "\n")
	}
	return ""
}

// MarshalJSON emits the bare wire shape for the answer's kind so the
// snapshot schema stays `string | string[] | string[][] | {points,lines}`.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case KindList:
		return json.Marshal(a.Items)
	case KindTable:
		return json.Marshal(a.Cells)
	case KindGraph:
		return json.Marshal(a.Graph)
	default:
		return json.Marshal(a.Text)
	}
}

// UnmarshalJSON sniffs the wire shape back into a tagged Answer.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*a = Answer{}
		return nil
	}
	switch data[0] {
	case '"':
		a.Kind = KindText
		return json.Unmarshal(data, &a.Text)
	case '{':
		a.Kind = KindGraph
		a.Graph = &GraphAnswer{}
		return json.Unmarshal(data, a.Graph)
	case '[':
		// string[] vs string[][]: try the flat list first.
		var items []string
		if err := json.Unmarshal(data, &items); err == nil {
			a.Kind = KindList
			a.Items = items
			return nil
		}
		a.Kind = KindTable
		return json.Unmarshal(data, &a.Cells)
	}
	return fmt.Errorf("unrecognized answer shape: %s", string(data[:1]))
}
