package examroom

import (
	tea "charm.land/bubbletea/v2"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/ui/components"
)

// answerWidget is the capture surface for one question, picked by type.
// Exactly one of the fields is live; kind says which.
type answerWidget struct {
	kind exam.QuestionType

	text  components.TextInput
	area  components.TextArea
	mc    components.MultiChoice
	list  components.ListInput
	table components.TableInput
	graph components.GraphInput
}

// newAnswerWidget builds the widget for a question and seeds it with the
// previously captured answer. An unrecognized type degrades to a
// free-text area so the student is never left without an input.
func newAnswerWidget(q *exam.Question, prev exam.Answer, locked bool, paneWidth int) answerWidget {
	w := answerWidget{kind: q.Type}

	switch q.Type {
	case exam.TypeMultipleChoice:
		w.mc = components.NewMultiChoice(q.Options)
		if prev.Kind == exam.KindText {
			w.mc.SetValue(prev.Text)
		}
		if locked {
			w.mc.Lock()
		}

	case exam.TypeShortText, exam.TypeNumerical:
		numeric := q.Type == exam.TypeNumerical
		placeholder := "Type your answer..."
		if numeric {
			placeholder = "Value and unit..."
		}
		w.text = components.NewTextInput(placeholder, numeric, 200)
		if prev.Kind == exam.KindText {
			w.text.SetValue(prev.Text)
		}
		if locked {
			w.text.Lock()
		}

	case exam.TypeList:
		w.list = components.NewListInput(q.ListCount)
		if prev.Kind == exam.KindList {
			w.list.SetValues(prev.Items)
		}
		if locked {
			w.list.Lock()
		}

	case exam.TypeTable:
		var headers []string
		var initial [][]string
		if q.Table != nil {
			headers = q.Table.Headers
			initial = q.Table.InitialData
		}
		w.table = components.NewTableInput(headers, initial)
		if prev.Kind == exam.KindTable {
			w.table.SetValues(prev.Cells)
		}
		if locked {
			w.table.Lock()
		}

	case exam.TypeGraphDrawing:
		var cfg exam.GraphConfig
		if q.Graph != nil {
			cfg = *q.Graph
		}
		w.graph = components.NewGraphInput(cfg, min(paneWidth-4, 50), 14)
		if prev.Kind == exam.KindGraph {
			w.graph.SetValue(prev.Graph)
		}
		if locked {
			w.graph.Lock()
		}

	default:
		w.kind = exam.TypeLongText
		fallthrough
	case exam.TypeLongText:
		w.area = components.NewTextArea("Write your answer...", max(paneWidth-2, 20), 8)
		if prev.Kind == exam.KindText {
			w.area.SetValue(prev.Text)
		}
		if locked {
			w.area.Lock()
		}
	}

	return w
}

func (w answerWidget) init() tea.Cmd {
	switch w.kind {
	case exam.TypeShortText, exam.TypeNumerical:
		return w.text.Init()
	case exam.TypeLongText:
		return w.area.Init()
	case exam.TypeList:
		return w.list.Init()
	}
	return nil
}

func (w answerWidget) update(msg tea.Msg) (answerWidget, tea.Cmd) {
	var cmd tea.Cmd
	switch w.kind {
	case exam.TypeMultipleChoice:
		w.mc, cmd = w.mc.Update(msg)
	case exam.TypeShortText, exam.TypeNumerical:
		w.text, cmd = w.text.Update(msg)
	case exam.TypeLongText:
		w.area, cmd = w.area.Update(msg)
	case exam.TypeList:
		w.list, cmd = w.list.Update(msg)
	case exam.TypeTable:
		w.table, cmd = w.table.Update(msg)
	case exam.TypeGraphDrawing:
		w.graph, cmd = w.graph.Update(msg)
	}
	return w, cmd
}

func (w answerWidget) view() string {
	switch w.kind {
	case exam.TypeMultipleChoice:
		return w.mc.View()
	case exam.TypeShortText, exam.TypeNumerical:
		return w.text.View()
	case exam.TypeLongText:
		return w.area.View()
	case exam.TypeList:
		return w.list.View()
	case exam.TypeTable:
		return w.table.View()
	case exam.TypeGraphDrawing:
		return w.graph.View()
	}
	return ""
}

// value projects the widget state into the session's answer shape.
func (w answerWidget) value() exam.Answer {
	switch w.kind {
	case exam.TypeMultipleChoice:
		return exam.TextAnswer(w.mc.Value())
	case exam.TypeShortText, exam.TypeNumerical:
		return exam.TextAnswer(w.text.Value())
	case exam.TypeLongText:
		return exam.TextAnswer(w.area.Value())
	case exam.TypeList:
		return exam.ListAnswer(w.list.Values())
	case exam.TypeTable:
		return exam.TableAnswer(w.table.Values())
	case exam.TypeGraphDrawing:
		return exam.DrawnAnswer(w.graph.Value())
	}
	return exam.Answer{}
}

func (w *answerWidget) lock() {
	switch w.kind {
	case exam.TypeMultipleChoice:
		w.mc.Lock()
	case exam.TypeShortText, exam.TypeNumerical:
		w.text.Lock()
	case exam.TypeLongText:
		w.area.Lock()
	case exam.TypeList:
		w.list.Lock()
	case exam.TypeTable:
		w.table.Lock()
	case exam.TypeGraphDrawing:
		w.graph.Lock()
	}
}

// wantsEnter reports whether enter is part of the widget's own input
// (multi-line text) rather than a submit.
func (w answerWidget) wantsEnter() bool {
	return w.kind == exam.TypeLongText
}

// wantsMouse reports whether pointer events should be forwarded.
func (w answerWidget) wantsMouse() bool {
	return w.kind == exam.TypeGraphDrawing
}

// setCanvasOrigin positions the graph canvas for pointer hit testing.
func (w *answerWidget) setCanvasOrigin(x, y int) {
	if w.kind == exam.TypeGraphDrawing {
		w.graph.SetOrigin(x, y)
	}
}

// setSize adjusts widgets that track the pane width.
func (w *answerWidget) setSize(paneWidth int) {
	if w.kind == exam.TypeLongText {
		w.area.SetSize(max(paneWidth-2, 20), 8)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
