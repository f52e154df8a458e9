package exam

import (
	"testing"
)

func singleQuestionSession(t *testing.T, q Question) *Session {
	t.Helper()
	s := NewSession("test-session")
	s.BeginParsing()
	if err := s.InstallQuestions([]Question{q}, nil, ""); err != nil {
		t.Fatalf("InstallQuestions: %v", err)
	}
	return s
}

func TestInstallQuestions_EntersExamAtIndexZero(t *testing.T) {
	s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 4, Text: "Explain X"})

	if s.Phase != PhaseExam {
		t.Fatalf("phase = %v, want exam", s.Phase)
	}
	if s.Current != 0 {
		t.Fatalf("current = %d, want 0", s.Current)
	}
	if q := s.CurrentQuestion(); q == nil || q.Text != "Explain X" {
		t.Fatalf("current question = %+v", q)
	}
}

func TestInstallQuestions_ZeroQuestionsFails(t *testing.T) {
	s := NewSession("t")
	s.BeginParsing()
	if err := s.InstallQuestions(nil, nil, ""); err != ErrNoQuestions {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
}

func TestInstallQuestions_DeduplicatesIDs(t *testing.T) {
	s := NewSession("t")
	s.BeginParsing()
	qs := []Question{
		{ID: "1", Type: TypeShortText, Marks: 1},
		{ID: "1", Type: TypeShortText, Marks: 1},
		{ID: "", Type: TypeShortText, Marks: 1},
	}
	if err := s.InstallQuestions(qs, nil, ""); err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, q := range s.Questions {
		if q.ID == "" || seen[q.ID] {
			t.Fatalf("duplicate or empty id %q", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestFailParsing_DiscardsPartialState(t *testing.T) {
	s := NewSession("t")
	s.BeginParsing()
	s.Scheme = MarkScheme{"1": {TotalMarks: 4}}
	s.InsertText = "partial"
	s.FailParsing()

	if s.Phase != PhaseUpload {
		t.Fatalf("phase = %v, want upload", s.Phase)
	}
	if s.Scheme != nil || s.InsertText != "" {
		t.Fatal("partial parsing side effects survived the abort")
	}
}

func TestSubmit_EmptyAnswerIsNoOp(t *testing.T) {
	s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 4})
	s.SetAnswer("1", TextAnswer("   "))

	if d := s.Submit("1"); d != SubmitRejected {
		t.Fatalf("decision = %v, want rejected", d)
	}
	if len(s.Feedbacks) != 0 {
		t.Fatal("feedback created for empty answer")
	}
	if s.Phase != PhaseExam || s.Current != 0 {
		t.Fatal("phase or index changed on empty submit")
	}
}

func TestSubmit_RegexAutoVerifySkipsNetwork(t *testing.T) {
	s := singleQuestionSession(t, Question{
		ID: "1", Type: TypeNumerical, Marks: 4, MarkingRegex: "^42$",
	})
	s.SetAnswer("1", TextAnswer(" 42 "))

	if d := s.Submit("1"); d != SubmitAutoVerified {
		t.Fatalf("decision = %v, want auto-verified", d)
	}
	fb := s.Feedbacks["1"]
	if fb == nil {
		t.Fatal("no feedback applied")
	}
	if fb.Score != 4 || fb.TotalMarks != 4 {
		t.Fatalf("score = %d/%d, want 4/4", fb.Score, fb.TotalMarks)
	}
	if fb.Text != AutoVerifiedText || !fb.AutoVerified {
		t.Fatalf("feedback = %+v", fb)
	}
}

func TestSubmit_RegexIsCaseInsensitive(t *testing.T) {
	s := singleQuestionSession(t, Question{
		ID: "1", Type: TypeShortText, Marks: 2, MarkingRegex: "^photosynthesis$",
	})
	s.SetAnswer("1", TextAnswer("Photosynthesis"))

	if d := s.Submit("1"); d != SubmitAutoVerified {
		t.Fatalf("decision = %v, want auto-verified", d)
	}
}

func TestSubmit_NonMatchingRegexNeedsMarking(t *testing.T) {
	s := singleQuestionSession(t, Question{
		ID: "1", Type: TypeNumerical, Marks: 4, MarkingRegex: "^42$",
	})
	s.SetAnswer("1", TextAnswer("43"))

	if d := s.Submit("1"); d != SubmitNeedsMarking {
		t.Fatalf("decision = %v, want needs-marking", d)
	}
	if s.Feedbacks["1"] != nil {
		t.Fatal("feedback created before marking response")
	}
	if !s.ScratchFor("1").MarkingPending {
		t.Fatal("marking not pending after submit")
	}
}

func TestSubmit_BadRegexFallsThroughToMarking(t *testing.T) {
	s := singleQuestionSession(t, Question{
		ID: "1", Type: TypeShortText, Marks: 1, MarkingRegex: "([unclosed",
	})
	s.SetAnswer("1", TextAnswer("anything"))

	if d := s.Submit("1"); d != SubmitNeedsMarking {
		t.Fatalf("decision = %v, want needs-marking", d)
	}
}

func TestApplyMarking_ClampsScore(t *testing.T) {
	for _, tc := range []struct {
		raw, want int
	}{
		{-3, 0},
		{0, 0},
		{2, 2},
		{99, 4},
	} {
		s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 4})
		s.SetAnswer("1", TextAnswer("because"))
		s.Submit("1")
		s.ApplyMarking("1", Feedback{Score: tc.raw, Text: "ok"})
		if got := s.Feedbacks["1"].Score; got != tc.want {
			t.Errorf("raw %d: score = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestApplyMarking_StaleQuestionIDDropped(t *testing.T) {
	s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 4})
	if s.ApplyMarking("ghost", Feedback{Score: 4}) {
		t.Fatal("marking applied for a question that does not exist")
	}
	if len(s.Feedbacks) != 0 {
		t.Fatal("stale response mutated feedback map")
	}
}

func TestApplyMarking_SecondResponseIgnored(t *testing.T) {
	s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 4})
	s.SetAnswer("1", TextAnswer("a"))
	s.Submit("1")
	s.ApplyMarking("1", Feedback{Score: 2, Text: "first"})
	if s.ApplyMarking("1", Feedback{Score: 4, Text: "second"}) {
		t.Fatal("duplicate marking response applied")
	}
	if s.Feedbacks["1"].Text != "first" {
		t.Fatal("second response overwrote the first")
	}
}

func TestConcurrentMarking_KeyedByCapturedID(t *testing.T) {
	s := NewSession("t")
	s.BeginParsing()
	if err := s.InstallQuestions([]Question{
		{ID: "1", Type: TypeShortText, Marks: 2},
		{ID: "2", Type: TypeShortText, Marks: 3},
	}, nil, ""); err != nil {
		t.Fatal(err)
	}

	// Submit Q1, navigate, submit Q2 while Q1 is still in flight.
	s.SetAnswer("1", TextAnswer("one"))
	s.Submit("1")
	s.Next()
	s.SetAnswer("2", TextAnswer("two"))
	s.Submit("2")

	// Q2's response lands first, then Q1's.
	s.ApplyMarking("2", Feedback{Score: 3, Text: "for two"})
	s.ApplyMarking("1", Feedback{Score: 1, Text: "for one"})

	if s.Feedbacks["1"].Text != "for one" || s.Feedbacks["1"].Score != 1 {
		t.Fatalf("Q1 feedback = %+v", s.Feedbacks["1"])
	}
	if s.Feedbacks["2"].Text != "for two" || s.Feedbacks["2"].Score != 3 {
		t.Fatalf("Q2 feedback = %+v", s.Feedbacks["2"])
	}
}

func TestSetAnswer_LockedWhileMarkingPending(t *testing.T) {
	s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 4})
	s.SetAnswer("1", TextAnswer("original"))
	s.Submit("1")

	if s.SetAnswer("1", TextAnswer("edited")) {
		t.Fatal("answer edited while marking in flight")
	}
	if s.Answers["1"].Text != "original" {
		t.Fatal("captured answer changed under a pending marking request")
	}
}

func TestSetAnswer_LockedAfterFeedback(t *testing.T) {
	s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 4})
	s.SetAnswer("1", TextAnswer("a"))
	s.Submit("1")
	s.ApplyMarking("1", Feedback{Score: 2})

	if s.SetAnswer("1", TextAnswer("b")) {
		t.Fatal("submitted question accepted an edit")
	}
}

func TestSkip_ThenSubmitClearsSkipped(t *testing.T) {
	s := NewSession("t")
	s.BeginParsing()
	if err := s.InstallQuestions([]Question{
		{ID: "1", Type: TypeShortText, Marks: 2},
		{ID: "2", Type: TypeShortText, Marks: 2},
	}, nil, ""); err != nil {
		t.Fatal(err)
	}

	s.Skip("1")
	if !s.Skipped["1"] {
		t.Fatal("skip did not mark the question")
	}
	if s.Current != 1 {
		t.Fatalf("current = %d after skip, want 1", s.Current)
	}

	// Come back and submit it.
	s.SetAnswer("1", TextAnswer("late answer"))
	s.Submit("1")
	s.ApplyMarking("1", Feedback{Score: 1, Text: "partial"})

	if s.Skipped["1"] {
		t.Fatal("skipped status not cleared by submission")
	}
	if s.Feedbacks["1"] == nil {
		t.Fatal("no feedback after late submission")
	}
}

func TestSkip_OnlyQuestionMovesToSummary(t *testing.T) {
	s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 4, Text: "Explain X"})
	s.Skip("1")

	if s.Phase != PhaseSummary {
		t.Fatalf("phase = %v, want summary", s.Phase)
	}
	sum := s.Summarize()
	if sum.TotalScored != 0 || sum.TotalPossible != 4 {
		t.Fatalf("summary = %d/%d, want 0/4", sum.TotalScored, sum.TotalPossible)
	}
	if sum.SkippedCount != 1 {
		t.Fatalf("skipped = %d, want 1", sum.SkippedCount)
	}
}

func TestNext_PastEndTransitionsToSummary(t *testing.T) {
	s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 1})
	if done := s.Next(); !done {
		t.Fatal("advance past last question did not report transition")
	}
	if s.Phase != PhaseSummary {
		t.Fatalf("phase = %v, want summary", s.Phase)
	}
	if s.CurrentQuestion() != nil {
		t.Fatal("current question non-nil past the end")
	}
}

func TestHint_StaleTargetDropped(t *testing.T) {
	s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 1})
	if s.SetHint("gone", "try harder") {
		t.Fatal("hint applied to a question that does not exist")
	}
	if s.SetHint("1", "think about X") != true {
		t.Fatal("hint for live question dropped")
	}
	if s.ScratchFor("1").Hint != "think about X" {
		t.Fatal("hint not stored")
	}
}

func TestFollowUps_AppendOnly(t *testing.T) {
	s := singleQuestionSession(t, Question{ID: "1", Type: TypeShortText, Marks: 1})
	s.AppendFollowUp("1", ChatMessage{Role: RoleStudent, Text: "why?"})
	s.AppendFollowUp("1", ChatMessage{Role: RoleTutor, Text: "because"})
	if s.AppendFollowUp("nope", ChatMessage{Role: RoleStudent, Text: "lost"}) {
		t.Fatal("chat message appended for unknown question")
	}

	msgs := s.FollowUps["1"]
	if len(msgs) != 2 || msgs[0].Role != RoleStudent || msgs[1].Role != RoleTutor {
		t.Fatalf("thread = %+v", msgs)
	}
}
