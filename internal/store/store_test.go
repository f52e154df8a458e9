package store

import (
	"context"
	"testing"
	"time"

	"github.com/devikam/paperprep/internal/exam"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func testSnapshot(elapsed int, ts time.Time) *exam.Snapshot {
	return &exam.Snapshot{
		ActiveQuestions: []exam.Question{
			{ID: "q1", Type: exam.TypeShortText, Text: "State the unit of force.", Marks: 1},
		},
		UserAnswers: map[string]exam.Answer{
			"q1": exam.TextAnswer("newton"),
		},
		Feedbacks:     map[string]*exam.Feedback{},
		CurrentQIndex: 0,
		ElapsedSecs:   elapsed,
		Timestamp:     ts,
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := repo.Save(ctx, "sess-1", testSnapshot(120, now)); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.ElapsedSecs != 120 {
		t.Errorf("elapsedSecs = %d, want 120", snap.ElapsedSecs)
	}
	if len(snap.ActiveQuestions) != 1 || snap.ActiveQuestions[0].ID != "q1" {
		t.Errorf("activeQuestions = %+v, want one question q1", snap.ActiveQuestions)
	}
	if got := snap.UserAnswers["q1"]; got.Text != "newton" {
		t.Errorf("answer q1 = %+v, want text 'newton'", got)
	}
}

func TestSnapshotSaveReplacesPrevious(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		snap := testSnapshot((i+1)*60, base.Add(time.Duration(i)*time.Minute))
		if err := repo.Save(ctx, "sess-1", snap); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	// Only one row remains and it is the newest.
	count, err := s.Client().Snapshot.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("snapshot rows = %d, want 1", count)
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.ElapsedSecs != 180 {
		t.Errorf("elapsedSecs = %d, want 180", snap.ElapsedSecs)
	}
}

func TestSnapshotClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	if err := repo.Save(ctx, "sess-1", testSnapshot(30, now)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest after clear: %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot after clear")
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSessionHistory(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "sess-1", Action: "start", PaperName: "physics-p1.pdf",
		QuestionCount: 8,
	}); err != nil {
		t.Fatalf("append start: %v", err)
	}
	if err := repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "sess-1", Action: "end", PaperName: "physics-p1.pdf",
		QuestionCount: 8, Answered: 6, ScoredMarks: 11, PossibleMarks: 20,
		DurationSecs: 1800,
	}); err != nil {
		t.Fatalf("append end: %v", err)
	}

	rows, err := repo.SessionHistory(ctx, 10)
	if err != nil {
		t.Fatalf("session history: %v", err)
	}
	// Only end events appear in history.
	if len(rows) != 1 {
		t.Fatalf("history rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.PaperName != "physics-p1.pdf" || row.ScoredMarks != 11 || row.PossibleMarks != 20 {
		t.Errorf("unexpected history row: %+v", row)
	}
}

func TestAppendAnswerAndLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{
		SessionID: "sess-1", QuestionID: "q1", QuestionType: "short_text",
		Marks: 2, Score: 2, AutoVerified: true,
	}); err != nil {
		t.Fatalf("append answer event: %v", err)
	}

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "marking",
		InputTokens: 900, OutputTokens: 150, Attachments: 1,
		LatencyMs: 2400, Success: true,
	}); err != nil {
		t.Fatalf("append llm event: %v", err)
	}

	answers, err := s.Client().AnswerEvent.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count answer events: %v", err)
	}
	if answers != 1 {
		t.Errorf("answer events = %d, want 1", answers)
	}

	llm, err := s.Client().LLMRequestEvent.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count llm events: %v", err)
	}
	if llm != 1 {
		t.Errorf("llm events = %d, want 1", llm)
	}
}
