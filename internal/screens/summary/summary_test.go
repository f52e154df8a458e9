package summary

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/store"
)

type stubSnapRepo struct {
	cleared bool
}

func (r *stubSnapRepo) Save(ctx context.Context, sessionID string, snap *exam.Snapshot) error {
	return nil
}
func (r *stubSnapRepo) Latest(ctx context.Context) (*exam.Snapshot, error) { return nil, nil }
func (r *stubSnapRepo) Clear(ctx context.Context) error {
	r.cleared = true
	return nil
}

type stubEventRepo struct {
	rows []store.SessionHistoryRow
}

func (r *stubEventRepo) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	return nil
}
func (r *stubEventRepo) AppendSessionEvent(ctx context.Context, data store.SessionEventData) error {
	return nil
}
func (r *stubEventRepo) AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error {
	return nil
}
func (r *stubEventRepo) SessionHistory(ctx context.Context, limit int) ([]store.SessionHistoryRow, error) {
	return r.rows, nil
}
func (r *stubEventRepo) RecentLLMRequests(ctx context.Context, limit int, purpose string) ([]store.LLMEventRow, error) {
	return nil, nil
}
func (r *stubEventRepo) LLMUsageByPurpose(ctx context.Context) ([]store.LLMUsageRow, error) {
	return nil, nil
}

func finishedSession() *exam.Session {
	s := exam.NewSession("test-session")
	_ = s.InstallQuestions([]exam.Question{
		{ID: "1a", Type: exam.TypeShortText, Marks: 2},
		{ID: "1b", Type: exam.TypeLongText, Marks: 6},
		{ID: "2", Type: exam.TypeNumerical, Marks: 3},
	}, nil, "")

	s.SetAnswer("1a", exam.TextAnswer("osmosis"))
	s.ApplyMarking("1a", exam.NewFeedback(2, 2, "Correct.", ""))
	s.Skipped["2"] = true
	s.Elapsed = 9*time.Minute + 30*time.Second
	s.Current = len(s.Questions)
	s.Phase = exam.PhaseSummary
	return s
}

func TestSummaryShowsTotalsAndRows(t *testing.T) {
	s := New(finishedSession(), &stubSnapRepo{}, &stubEventRepo{})
	view := s.View(100, 30)

	for _, want := range []string{"2/11 marks", "9:30", "Skipped: 1", "skipped", "unanswered"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryRestartClearsSnapshot(t *testing.T) {
	snaps := &stubSnapRepo{}
	s := New(finishedSession(), snaps, &stubEventRepo{})

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected a command on R")
	}
	if _, ok := cmd().(RestartMsg); !ok {
		t.Fatal("expected RestartMsg")
	}
	if !snaps.cleared {
		t.Error("restart must clear the saved snapshot")
	}
}

func TestSummaryShowsRecentPapers(t *testing.T) {
	events := &stubEventRepo{rows: []store.SessionHistoryRow{
		{PaperName: "june-2023.pdf", ScoredMarks: 40, PossibleMarks: 60, StartedAt: time.Now()},
	}}
	s := New(finishedSession(), &stubSnapRepo{}, events)

	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected history load command")
	}
	scr, _ := s.Update(cmd())
	view := scr.View(100, 40)
	if !strings.Contains(view, "june-2023.pdf") {
		t.Error("view missing recent paper row")
	}
}

func TestSummaryQuitKeys(t *testing.T) {
	s := New(finishedSession(), &stubSnapRepo{}, &stubEventRepo{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Error("expected quit command on Q")
	}
}
