package upload

import (
	"fmt"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/ui/components"
	"github.com/devikam/paperprep/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.sess.Phase == exam.PhaseParsing || s.parsed != nil {
		return s.renderParsing(width)
	}
	return s.renderUpload(width)
}

func (s *Screen) renderUpload(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Sit a past paper"))
	b.WriteString("\n\n")

	b.WriteString(s.renderDoc(width, "Paper", s.paperPath, true))
	b.WriteString(s.renderDoc(width, "Insert", s.insertPath, false))
	b.WriteString(s.renderDoc(width, "Mark scheme", s.schemePath, false))
	b.WriteString("\n")

	if s.credErr != nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("No AI credential found. Set PAPERPREP_API_KEY or a provider key."))
		b.WriteString("\n")
	}

	if s.resume.Resumable() {
		n := len(s.resume.ActiveQuestions)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(fmt.Sprintf("Saved session found (%d questions, saved %s). Press R to resume.",
				n, s.resume.Timestamp.Format("Jan 2 15:04"))))
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(s.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	btn := components.NewButton("Start", s.credErr == nil && s.paperPath != "", nil)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, btn.View()))

	return b.String()
}

func (s *Screen) renderDoc(width int, label, path string, required bool) string {
	name := "—"
	style := lipgloss.NewStyle().Foreground(theme.TextDim)
	if path != "" {
		name = filepath.Base(path)
		style = lipgloss.NewStyle().Foreground(theme.Text)
	} else if required {
		name = "required"
		style = lipgloss.NewStyle().Foreground(theme.Error)
	}

	line := lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("%12s  ", label)) +
		style.Render(name)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, line) + "\n"
}

// renderParsing shows the extraction spinner and, once parsed, the
// progressive reveal of found questions.
func (s *Screen) renderParsing(width int) string {
	var b strings.Builder
	b.WriteString("\n")

	if s.parsed == nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("Reading the paper and extracting questions..."))
		return b.String()
	}

	total := len(s.sess.Questions)
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Found %d questions", total)))
	b.WriteString("\n\n")

	shown := s.revealed
	if shown > total {
		shown = total
	}
	for i := 0; i < shown; i++ {
		q := s.sess.Questions[i]
		line := fmt.Sprintf("Q%-8s %-16s [%d marks]", q.ID, q.Type, q.Marks)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(line)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	bar := components.NewProgressBar("", float64(shown)/float64(total), true, min(width-8, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
