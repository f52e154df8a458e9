package examroom

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/llm"
	"github.com/devikam/paperprep/internal/marking"
	"github.com/devikam/paperprep/internal/router"
	"github.com/devikam/paperprep/internal/store"
)

type memSnapRepo struct {
	saves int
	last  *exam.Snapshot
}

func (r *memSnapRepo) Save(ctx context.Context, sessionID string, snap *exam.Snapshot) error {
	r.saves++
	r.last = snap
	return nil
}
func (r *memSnapRepo) Latest(ctx context.Context) (*exam.Snapshot, error) { return r.last, nil }
func (r *memSnapRepo) Clear(ctx context.Context) error {
	r.last = nil
	return nil
}

type memEventRepo struct {
	sessions []store.SessionEventData
	answers  []store.AnswerEventData
}

func (r *memEventRepo) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	return nil
}
func (r *memEventRepo) AppendSessionEvent(ctx context.Context, data store.SessionEventData) error {
	r.sessions = append(r.sessions, data)
	return nil
}
func (r *memEventRepo) AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error {
	r.answers = append(r.answers, data)
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

func examSession(t *testing.T) *exam.Session {
	t.Helper()
	s := exam.NewSession("test-session")
	err := s.InstallQuestions([]exam.Question{
		{ID: "1", Type: exam.TypeShortText, Marks: 1, MarkingRegex: "^mitochondria$"},
		{ID: "2", Type: exam.TypeShortText, Marks: 3},
		{ID: "3", Type: exam.TypeMultipleChoice, Marks: 1, Options: []string{"A", "B"}},
	}, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func testRoom(t *testing.T, mock *llm.MockProvider) (*Screen, *memSnapRepo, *memEventRepo) {
	t.Helper()
	snaps := &memSnapRepo{}
	events := &memEventRepo{}
	marker := marking.New(mock, marking.DefaultConfig())
	room := New(examSession(t), marker, snaps, events, "paper.pdf", "")
	return room, snaps, events
}

// drain runs a returned command and feeds resulting messages back until
// the screen settles. Batch commands are executed in order.
func drain(t *testing.T, s *Screen, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 20; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				drain(t, s, c)
			}
			return
		}
		if _, ok := msg.(timerTickMsg); ok {
			return // do not follow the tick chain
		}
		if _, ok := msg.(router.PushScreenMsg); ok {
			return
		}
		_, cmd = s.Update(msg)
	}
}

func typeAnswer(s *Screen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestAutoVerifiedSubmitSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider()
	room, _, events := testRoom(t, mock)

	typeAnswer(room, "Mitochondria")
	_, cmd := room.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	drain(t, room, cmd)

	fb := room.sess.Feedbacks["1"]
	if fb == nil {
		t.Fatal("expected feedback after auto-verified submit")
	}
	if !fb.AutoVerified || fb.Score != 1 {
		t.Errorf("feedback = %+v, want auto-verified full marks", fb)
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider calls = %d, want 0", mock.CallCount())
	}
	if len(events.answers) != 1 || !events.answers[0].AutoVerified {
		t.Errorf("answer events = %+v, want one auto-verified entry", events.answers)
	}
}

func TestSubmitEmptyAnswerRejected(t *testing.T) {
	mock := llm.NewMockProvider()
	room, _, _ := testRoom(t, mock)

	_, cmd := room.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an empty submit")
	}
	if room.sess.Feedbacks["1"] != nil {
		t.Error("empty submit must not produce feedback")
	}
}

func TestMarkingKeyedByCapturedQuestion(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"{\"score\": 2, \"feedback\": \"Partial.\", \"rewrite\": \"Better.\"}"`),
	})
	room, _, events := testRoom(t, mock)

	// Question 1's regex does not match, so it goes to marking.
	typeAnswer(room, "ribosomes")
	_, cmd := room.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a marking command")
	}

	// Navigate away before the response lands.
	_, nav := room.Update(tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	drain(t, room, nav)
	if room.sess.Current != 1 {
		t.Fatalf("current = %d, want 1", room.sess.Current)
	}

	// Deliver the marking response; it must land on question 1.
	msg := cmd()
	marked, ok := msg.(markedMsg)
	if !ok {
		t.Fatalf("message = %T, want markedMsg", msg)
	}
	if marked.QID != "1" {
		t.Fatalf("marked QID = %q, want '1'", marked.QID)
	}
	_, after := room.Update(marked)
	drain(t, room, after)

	fb := room.sess.Feedbacks["1"]
	if fb == nil || fb.Score != 1 {
		// Score clamps to the question's single mark.
		t.Errorf("feedback = %+v, want clamped score 1", fb)
	}
	if room.sess.Feedbacks["2"] != nil {
		t.Error("feedback must not land on the current question")
	}
	if len(events.answers) != 1 || events.answers[0].QuestionID != "1" {
		t.Errorf("answer events = %+v, want one entry for question 1", events.answers)
	}
}

func TestStaleMarkingResponseDropped(t *testing.T) {
	mock := llm.NewMockProvider()
	room, _, events := testRoom(t, mock)

	typeAnswer(room, "Mitochondria")
	_, cmd := room.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	drain(t, room, cmd)

	// A late duplicate for the same question changes nothing.
	_, after := room.Update(markedMsg{QID: "1", FB: exam.NewFeedback(0, 1, "late", "")})
	drain(t, room, after)

	if fb := room.sess.Feedbacks["1"]; fb.Text != exam.AutoVerifiedText {
		t.Errorf("feedback text = %q, want the original", fb.Text)
	}
	if len(events.answers) != 1 {
		t.Errorf("answer events = %d, want 1", len(events.answers))
	}
}

func TestSkipAdvancesAndMarks(t *testing.T) {
	mock := llm.NewMockProvider()
	room, _, _ := testRoom(t, mock)

	_, cmd := room.Update(tea.KeyPressMsg{Code: 'k', Mod: tea.ModCtrl})
	drain(t, room, cmd)

	if !room.sess.Skipped["1"] {
		t.Error("question 1 must be marked skipped")
	}
	if room.sess.Current != 1 {
		t.Errorf("current = %d, want 1", room.sess.Current)
	}
}

func TestTimerTickFlushesSnapshot(t *testing.T) {
	mock := llm.NewMockProvider()
	room, snaps, _ := testRoom(t, mock)

	typeAnswer(room, "x")
	if !room.dirty {
		t.Fatal("typing must mark the session dirty")
	}

	_, cmd := room.Update(timerTickMsg(time.Now()))
	drain(t, room, cmd)

	if room.sess.Elapsed != time.Second {
		t.Errorf("elapsed = %v, want 1s", room.sess.Elapsed)
	}
	if snaps.saves != 1 {
		t.Errorf("snapshot saves = %d, want 1", snaps.saves)
	}
	if room.dirty {
		t.Error("dirty flag must clear after the flush")
	}

	// A clean tick does not write again.
	_, cmd = room.Update(timerTickMsg(time.Now()))
	drain(t, room, cmd)
	if snaps.saves != 1 {
		t.Errorf("snapshot saves = %d, want still 1", snaps.saves)
	}
}

func TestAdvancePastLastEndsSession(t *testing.T) {
	mock := llm.NewMockProvider()
	room, _, events := testRoom(t, mock)

	for i := 0; i < 3; i++ {
		_, cmd := room.Update(tea.KeyPressMsg{Code: 'k', Mod: tea.ModCtrl})
		drain(t, room, cmd)
	}

	if room.sess.Phase != exam.PhaseSummary {
		t.Fatalf("phase = %v, want summary", room.sess.Phase)
	}
	if len(events.sessions) != 1 || events.sessions[0].Action != "end" {
		t.Errorf("session events = %+v, want one end event", events.sessions)
	}
	if events.sessions[0].PossibleMarks != 5 {
		t.Errorf("possible marks = %d, want 5", events.sessions[0].PossibleMarks)
	}

	// A further tick must not advance the clock.
	before := room.sess.Elapsed
	_, cmd := room.Update(timerTickMsg(time.Now()))
	if cmd != nil {
		t.Error("tick chain must end with the exam phase")
	}
	if room.sess.Elapsed != before {
		t.Error("clock must stop after the exam phase")
	}
}

func TestHintFailureIsInvisible(t *testing.T) {
	mock := llm.NewMockProvider()
	room, _, _ := testRoom(t, mock)

	cmd := room.requestHint()
	if cmd == nil {
		t.Fatal("expected a hint command")
	}
	sc := room.sess.ScratchFor("1")
	if !sc.HintPending {
		t.Fatal("hint must be pending while in flight")
	}

	// Empty mock queue means the provider errors.
	_, after := room.Update(cmd())
	drain(t, room, after)

	if sc.HintPending {
		t.Error("pending flag must clear on failure")
	}
	if sc.Hint != "" {
		t.Errorf("hint = %q, want empty on failure", sc.Hint)
	}
}

func TestChatFailureSurfacesInline(t *testing.T) {
	mock := llm.NewMockProvider()
	room, _, _ := testRoom(t, mock)

	typeAnswer(room, "Mitochondria")
	_, cmd := room.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	drain(t, room, cmd)

	drain(t, room, room.openChat())
	if !room.chatOpen {
		t.Fatal("chat must open once feedback exists")
	}

	room.chatInput.SetValue("why?")
	_, send := room.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if send == nil {
		t.Fatal("expected a chat command")
	}
	_, after := room.Update(send())
	drain(t, room, after)

	if room.chatErr == "" {
		t.Error("a failed reply must surface inline")
	}
	thread := room.sess.FollowUps["1"]
	if len(thread) != 1 || thread[0].Role != exam.RoleStudent {
		t.Errorf("thread = %+v, want only the student message", thread)
	}
}
