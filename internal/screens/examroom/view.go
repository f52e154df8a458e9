package examroom

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/ui/layout"
	"github.com/devikam/paperprep/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	s.width, s.height = width, height

	if s.quitConfirm {
		return renderQuitConfirm(width, height)
	}

	q := s.sess.CurrentQuestion()
	if q == nil {
		return lipgloss.NewStyle().
			Width(width).Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Wrapping up...")
	}

	left := s.renderQuestionPane(q, s.questionPaneWidth())
	if layout.IsCompactWidth(width) {
		return left
	}
	right := s.renderViewerPane(s.viewerPaneWidth(), height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func renderQuitConfirm(width, height int) string {
	card := theme.Card.Render(
		theme.Title.Render("Leave the exam?") + "\n\n" +
			theme.Body.Render("Your progress is saved. Resume any time with the same database.") + "\n\n" +
			theme.Hint.Render("[y] save and exit    [n] keep going"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *Screen) renderQuestionPane(q *exam.Question, width int) string {
	var b strings.Builder

	b.WriteString(s.renderQuestionHeader(q, width))
	b.WriteString("\n")

	if q.Context != nil && q.Context.Content != "" {
		title := q.Context.Title
		if title == "" {
			title = q.Context.Type
		}
		ctx := lipgloss.NewStyle().Foreground(theme.TextDim).Width(width - 4).
			Render(q.Context.Content)
		b.WriteString(theme.Card.Width(width).Render(
			lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(title) + "\n" + ctx))
		b.WriteString("\n")
	}

	b.WriteString(theme.Body.Width(width).Render(q.Text))
	b.WriteString("\n")
	if q.RelatedFigure != "" {
		b.WriteString(theme.Hint.Render("Refers to " + q.RelatedFigure + "  (ctrl+p to view)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// The graph canvas needs its on-screen position for pointer mapping.
	// Everything above it inside this pane plus the app header sits on
	// top; the canvas border adds one more row and column.
	if s.widget.wantsMouse() {
		linesAbove := lipgloss.Height(b.String())
		s.widget.setCanvasOrigin(1, layout.HeaderHeight+linesAbove+1)
	}
	b.WriteString(s.widget.view())
	b.WriteString("\n")

	sc := s.sess.ScratchFor(q.ID)
	fb := s.sess.Feedbacks[q.ID]

	if fb == nil && sc != nil {
		if sc.MarkingPending {
			b.WriteString("\n")
			b.WriteString(theme.SkippedMark.Render("Marking..."))
			b.WriteString("\n")
		}
		if sc.HintPending {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("Fetching a hint..."))
			b.WriteString("\n")
		} else if sc.Hint != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Width(width).Render("Hint: " + sc.Hint))
			b.WriteString("\n")
		}
	}

	if fb != nil {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(q, fb, sc, width))
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (s *Screen) renderQuestionHeader(q *exam.Question, width int) string {
	parts := []string{
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Question " + q.ID),
	}
	if q.Section != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render("Section "+q.Section))
	}
	parts = append(parts,
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("[%d marks]", q.Marks)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(string(q.Type)),
	)
	if s.sess.Skipped[q.ID] {
		parts = append(parts, theme.SkippedMark.Render("skipped"))
	}
	return strings.Join(parts, "  ")
}

func (s *Screen) renderFeedback(q *exam.Question, fb *exam.Feedback, sc *exam.Scratch, width int) string {
	var b strings.Builder

	scoreStyle := theme.Incorrect
	if fb.Score == fb.TotalMarks {
		scoreStyle = theme.Correct
	} else if fb.Score > 0 {
		scoreStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	}
	score := scoreStyle.Render(fmt.Sprintf("%d/%d", fb.Score, fb.TotalMarks))
	if fb.AutoVerified {
		score += "  " + lipgloss.NewStyle().Foreground(theme.Success).Render("auto-verified")
	}
	b.WriteString(score)
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(width - 6).Render(fb.Text))

	if fb.Rewrite != "" && fb.Rewrite != "N/A" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Model answer"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(width - 6).Render(fb.Rewrite))
	}

	if sc != nil {
		if sc.ExplainPending {
			b.WriteString("\n\n")
			b.WriteString(theme.Hint.Render("Explaining..."))
		} else if sc.Explanation != "" {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Why"))
			b.WriteString("\n")
			b.WriteString(theme.Body.Width(width - 6).Render(sc.Explanation))
		}
	}

	if thread := s.sess.FollowUps[q.ID]; len(thread) > 0 {
		b.WriteString("\n")
		for _, m := range thread {
			b.WriteString("\n")
			who := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("you")
			if m.Role == exam.RoleTutor {
				who = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("tutor")
			}
			b.WriteString(who + "  " + theme.Body.Width(width-12).Render(m.Text))
		}
	}
	if sc != nil && sc.ChatPending {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Waiting for a reply..."))
	}
	if s.chatErr != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.chatErr))
	}
	if s.chatOpen {
		b.WriteString("\n\n")
		b.WriteString(s.chatInput.View())
	}

	return theme.FeedbackCard.Width(width).Render(b.String())
}

func (s *Screen) renderViewerPane(width, height int) string {
	var b strings.Builder

	name := "paper"
	errMsg := s.paperErr
	doc := s.paperDoc
	if s.showInsert {
		name, errMsg, doc = "insert", s.insertErr, s.insertDoc
	}

	status := name
	if doc != nil {
		status = fmt.Sprintf("%s  p %d/%d  %d%%", name, s.page, doc.NumPages(), int(s.scale*100))
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(width).Render(status))
	b.WriteString("\n")

	switch {
	case s.viewErr != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Width(width).Render(s.viewErr))
	case errMsg != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Width(width).
			Render("Document unavailable: " + errMsg))
	case doc == nil && s.showInsert:
		b.WriteString(theme.Hint.Width(width).Render("No insert for this paper."))
	case doc == nil:
		b.WriteString(theme.Hint.Width(width).Render("Loading document..."))
	case s.frame == nil:
		b.WriteString(theme.Hint.Width(width).Render("Rendering..."))
	default:
		b.WriteString(s.frame.Content)
	}

	return lipgloss.NewStyle().Width(width).MaxHeight(height).Render(b.String())
}
