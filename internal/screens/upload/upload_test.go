package upload

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/extract"
	"github.com/devikam/paperprep/internal/llm"
	"github.com/devikam/paperprep/internal/marking"
	"github.com/devikam/paperprep/internal/router"
	"github.com/devikam/paperprep/internal/store"
)

type memSnapRepo struct {
	snap *exam.Snapshot
}

func (r *memSnapRepo) Save(ctx context.Context, sessionID string, snap *exam.Snapshot) error {
	r.snap = snap
	return nil
}
func (r *memSnapRepo) Latest(ctx context.Context) (*exam.Snapshot, error) { return r.snap, nil }
func (r *memSnapRepo) Clear(ctx context.Context) error {
	r.snap = nil
	return nil
}

type memEventRepo struct {
	sessions []store.SessionEventData
}

func (r *memEventRepo) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	return nil
}
func (r *memEventRepo) AppendSessionEvent(ctx context.Context, data store.SessionEventData) error {
	r.sessions = append(r.sessions, data)
	return nil
}
func (r *memEventRepo) AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error {
	return nil
}
func (r *memEventRepo) SessionHistory(ctx context.Context, limit int) ([]store.SessionHistoryRow, error) {
	return nil, nil
}
func (r *memEventRepo) RecentLLMRequests(ctx context.Context, limit int, purpose string) ([]store.LLMEventRow, error) {
	return nil, nil
}
func (r *memEventRepo) LLMUsageByPurpose(ctx context.Context) ([]store.LLMUsageRow, error) {
	return nil, nil
}

const paperJSON = `{
	"questions": [
		{"id": "1a", "type": "short_text", "marks": 2, "question": "Name the cell organelle."},
		{"id": "1b", "type": "long_text", "marks": 6, "question": "Explain osmosis."}
	],
	"insertContent": ""
}`

func testScreen(t *testing.T, mock *llm.MockProvider, paperPath string) (*Screen, *memEventRepo) {
	t.Helper()
	events := &memEventRepo{}
	extractor := extract.New(mock, extract.DefaultConfig())
	marker := marking.New(mock, marking.DefaultConfig())
	return New(extractor, marker, &memSnapRepo{}, events, nil, paperPath, "", ""), events
}

func writePaper(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "june-2023.pdf")
	if err := os.WriteFile(p, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestStartWithoutPaperShowsError(t *testing.T) {
	s, _ := testScreen(t, llm.NewMockProvider(), "")

	scr, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command without a paper")
	}
	if scr.(*Screen).errMsg == "" {
		t.Error("expected an inline error message")
	}
}

func TestStartWithoutCredentialBlocked(t *testing.T) {
	events := &memEventRepo{}
	s := New(nil, nil, &memSnapRepo{}, events, os.ErrNotExist, writePaper(t), "", "")

	scr, _ := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if scr.(*Screen).errMsg == "" {
		t.Error("expected the credential error to surface")
	}
	if s.sess.Phase != exam.PhaseUpload {
		t.Errorf("phase = %v, want upload", s.sess.Phase)
	}
}

func TestParseInstallsQuestionsAndEntersExam(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(paperJSON)})
	s, events := testScreen(t, mock, writePaper(t))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected the parse command")
	}
	if s.sess.Phase != exam.PhaseParsing {
		t.Fatalf("phase = %v, want parsing", s.sess.Phase)
	}

	_, cmd = s.Update(cmd())
	if s.sess.Phase != exam.PhaseExam {
		t.Fatalf("phase = %v, want exam", s.sess.Phase)
	}
	if len(s.sess.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(s.sess.Questions))
	}

	// Walk the reveal ticks until the exam room is pushed.
	var pushed bool
	for i := 0; i < 5 && cmd != nil; i++ {
		msg := cmd()
		if _, ok := msg.(router.PushScreenMsg); ok {
			pushed = true
			break
		}
		_, cmd = s.Update(msg)
	}
	if !pushed {
		t.Fatal("expected the exam room push after the reveal")
	}
	if len(events.sessions) != 1 || events.sessions[0].Action != "start" {
		t.Errorf("session events = %+v, want one start event", events.sessions)
	}
	if events.sessions[0].PaperName != "june-2023.pdf" {
		t.Errorf("paper name = %q", events.sessions[0].PaperName)
	}
}

func TestParseFailureReturnsToUpload(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue, provider errors
	s, _ := testScreen(t, mock, writePaper(t))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, _ = s.Update(cmd())

	if s.sess.Phase != exam.PhaseUpload {
		t.Errorf("phase = %v, want upload after failure", s.sess.Phase)
	}
	if s.errMsg == "" {
		t.Error("expected an inline extraction error")
	}
}

func TestResumeRestoresSession(t *testing.T) {
	mock := llm.NewMockProvider()
	s, events := testScreen(t, mock, writePaper(t))

	snap := &exam.Snapshot{
		ActiveQuestions: []exam.Question{
			{ID: "1", Type: exam.TypeShortText, Marks: 2},
			{ID: "2", Type: exam.TypeNumerical, Marks: 3},
		},
		UserAnswers:   map[string]exam.Answer{"1": exam.TextAnswer("x")},
		Feedbacks:     map[string]*exam.Feedback{},
		CurrentQIndex: 1,
		ElapsedSecs:   120,
		Timestamp:     time.Now(),
	}
	s.Update(resumeCheckedMsg{Snap: snap})
	if !s.resume.Resumable() {
		t.Fatal("snapshot must be offered for resume")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected the resume command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatal("expected the exam room push")
	}

	if s.sess.Phase != exam.PhaseExam {
		t.Errorf("phase = %v, want exam", s.sess.Phase)
	}
	if s.sess.Current != 1 {
		t.Errorf("current = %d, want 1", s.sess.Current)
	}
	if s.sess.Elapsed != 2*time.Minute {
		t.Errorf("elapsed = %v, want 2m", s.sess.Elapsed)
	}
	if len(events.sessions) != 1 || events.sessions[0].Action != "resume" {
		t.Errorf("session events = %+v, want one resume event", events.sessions)
	}
}
