// Package summary is the end-of-session screen: score totals, the
// per-question breakdown and recent attempts from the event log.
package summary

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/screen"
	"github.com/devikam/paperprep/internal/store"
	"github.com/devikam/paperprep/internal/ui/layout"
	"github.com/devikam/paperprep/internal/ui/theme"
)

// RestartMsg asks the app to discard this session and return to a fresh
// upload screen. The snapshot is already cleared when it is emitted.
type RestartMsg struct{}

// historyMsg carries recent attempts loaded at mount.
type historyMsg struct {
	Rows []store.SessionHistoryRow
	Err  error
}

// SummaryScreen displays the session result.
type SummaryScreen struct {
	sess      *exam.Session
	snapRepo  store.SnapshotRepo
	eventRepo store.EventRepo
	history   []store.SessionHistoryRow
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates the summary screen for a finished session.
func New(sess *exam.Session, snapRepo store.SnapshotRepo, eventRepo store.EventRepo) *SummaryScreen {
	return &SummaryScreen{sess: sess, snapRepo: snapRepo, eventRepo: eventRepo}
}

func (s *SummaryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		rows, err := repo.SessionHistory(context.Background(), 5)
		return historyMsg{Rows: rows, Err: err}
	}
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "New session"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyMsg:
		if msg.Err == nil {
			s.history = msg.Rows
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return s, s.restart()
		case "q", "esc", "enter":
			return s, tea.Quit
		}
	}
	return s, nil
}

// restart clears the saved snapshot so the finished session is not
// offered as a resume, then asks the app for a fresh upload screen.
func (s *SummaryScreen) restart() tea.Cmd {
	repo := s.snapRepo
	return func() tea.Msg {
		_ = repo.Clear(context.Background())
		return RestartMsg{}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.sess.Summarize()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Paper complete"))
	b.WriteString("\n\n")

	mins := int(sum.Elapsed.Minutes())
	secs := int(sum.Elapsed.Seconds()) % 60
	pct := 0
	if sum.TotalPossible > 0 {
		pct = sum.TotalScored * 100 / sum.TotalPossible
	}
	b.WriteString(theme.Subtitle.Width(width).Render(
		fmt.Sprintf("%d/%d marks (%d%%)   %d:%02d", sum.TotalScored, sum.TotalPossible, pct, mins, secs)))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Answered: %d        Skipped: %d        Auto-verified: %d",
		sum.Answered, sum.SkippedCount, sum.AutoVerified)
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.Text).Render(stats))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Questions")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for i := range s.sess.Questions {
		q := &s.sess.Questions[i]
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderQuestionRow(q)))
		b.WriteString("\n")
	}

	if len(s.history) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Recent papers")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")
		for _, row := range s.history {
			line := fmt.Sprintf("  %s    %d/%d marks    %s",
				row.PaperName, row.ScoredMarks, row.PossibleMarks,
				row.StartedAt.Format("Jan 2 15:04"))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (s *SummaryScreen) renderQuestionRow(q *exam.Question) string {
	fb := s.sess.Feedbacks[q.ID]

	var result string
	style := lipgloss.NewStyle().Foreground(theme.Text)
	switch {
	case fb != nil && fb.Score == fb.TotalMarks:
		result = fmt.Sprintf("%d/%d", fb.Score, fb.TotalMarks)
		style = style.Foreground(theme.Success)
	case fb != nil:
		result = fmt.Sprintf("%d/%d", fb.Score, fb.TotalMarks)
		if fb.Score == 0 {
			style = style.Foreground(theme.Error)
		} else {
			style = style.Foreground(theme.Accent)
		}
	case s.sess.Skipped[q.ID]:
		result = "skipped"
		style = style.Foreground(theme.Accent)
	default:
		result = "unanswered"
		style = style.Foreground(theme.TextDim)
	}

	tag := ""
	if fb != nil && fb.AutoVerified {
		tag = "   auto"
	}
	return style.Render(fmt.Sprintf("  Q%-8s %-16s %10s%s", q.ID, q.Type, result, tag))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
