package examroom

import (
	"context"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/devikam/paperprep/internal/docview"
	"github.com/devikam/paperprep/internal/screen"
	"github.com/devikam/paperprep/internal/ui/layout"
)

// Zoom bounds for the viewer pane.
const (
	minScale = 0.5
	maxScale = 3.0
)

// loadDocsCmd parses both source documents off the event loop. Either
// failing leaves its pane blank; the exam itself is unaffected.
func (s *Screen) loadDocsCmd() tea.Cmd {
	paperPath, insertPath := s.paperPath, s.insertPath
	return func() tea.Msg {
		var msg docsLoadedMsg

		if paperPath != "" {
			if data, err := os.ReadFile(paperPath); err != nil {
				msg.PaperErr = err.Error()
			} else if doc, err := docview.LoadDocument(baseName(paperPath), data); err != nil {
				msg.PaperErr = err.Error()
			} else {
				msg.Paper = doc
			}
		}

		if insertPath != "" {
			if data, err := os.ReadFile(insertPath); err != nil {
				msg.InsertErr = err.Error()
			} else if doc, err := docview.LoadDocument(baseName(insertPath), data); err != nil {
				msg.InsertErr = err.Error()
			} else {
				msg.Insert = doc
			}
		}

		return msg
	}
}

func (s *Screen) handleDocsLoaded(msg docsLoadedMsg) (screen.Screen, tea.Cmd) {
	s.paperDoc, s.paperErr = msg.Paper, msg.PaperErr
	s.insertDoc, s.insertErr = msg.Insert, msg.InsertErr
	return s, s.renderCmd()
}

func (s *Screen) handleFrame(msg frameMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		// A superseded render is silence, not failure.
		if !errIsCancel(msg.Err) {
			s.viewErr = msg.Err.Error()
		}
		return s, nil
	}
	s.frame = msg.Frame
	s.page = msg.Frame.Page
	s.viewErr = ""
	return s, nil
}

// activeDoc returns the renderer for the visible pane, or nil.
func (s *Screen) activeDoc() docview.PageRenderer {
	if s.showInsert {
		return s.insertDoc
	}
	return s.paperDoc
}

// renderCmd starts a render of the current page at the current scale.
// The surface cancels whatever was previously in flight.
func (s *Screen) renderCmd() tea.Cmd {
	doc := s.activeDoc()
	if doc == nil {
		return nil
	}
	surface := s.surface
	req := docview.Request{
		Page:     s.page,
		Scale:    s.scale,
		MaxWidth: s.viewerPaneWidth(),
	}
	return func() tea.Msg {
		frame, err := surface.Render(context.Background(), doc, req)
		return frameMsg{Frame: frame, Err: err}
	}
}

func (s *Screen) setPage(page int) tea.Cmd {
	doc := s.activeDoc()
	if doc == nil {
		return nil
	}
	s.page = docview.ClampPage(doc, page)
	return s.renderCmd()
}

func (s *Screen) setScale(scale float64) tea.Cmd {
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}
	if scale == s.scale {
		return nil
	}
	s.scale = scale
	return s.renderCmd()
}

// jumpToSource navigates the paper pane to the current question's page.
func (s *Screen) jumpToSource() tea.Cmd {
	q := s.sess.CurrentQuestion()
	if q == nil {
		return nil
	}
	p := q.SourcePage()
	if p < 1 {
		return nil
	}
	if s.showInsert {
		s.showInsert = false
		s.frame = nil
	}
	return s.setPage(p)
}

// toggleDocument flips the pane between paper and insert.
func (s *Screen) toggleDocument() tea.Cmd {
	if s.insertDoc == nil && !s.showInsert {
		return nil
	}
	s.showInsert = !s.showInsert
	s.frame = nil
	s.surface.Invalidate()
	return s.setPage(1)
}

func (s *Screen) questionPaneWidth() int {
	left, _ := layout.SplitColumns(s.width, questionPaneRatio)
	return left
}

func (s *Screen) viewerPaneWidth() int {
	_, right := layout.SplitColumns(s.width, questionPaneRatio)
	if right < 10 {
		return 10
	}
	return right
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
