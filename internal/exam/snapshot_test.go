package exam

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func populatedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession("snap-test")
	s.BeginParsing()
	err := s.InstallQuestions([]Question{
		{ID: "1", Type: TypeShortText, Marks: 4, Text: "Explain X", PageNumber: 2},
		{ID: "2", Type: TypeList, Marks: 3, Text: "Name three", ListCount: 3},
		{ID: "3", Type: TypeGraphDrawing, Marks: 5, Graph: &GraphConfig{XMax: 10, YMax: 10}},
	}, MarkScheme{"1": {TotalMarks: 4, Criteria: []string{"mentions Y"}}}, "insert notes")
	if err != nil {
		t.Fatal(err)
	}

	s.SetAnswer("1", TextAnswer("because of Y"))
	s.Submit("1")
	s.ApplyMarking("1", Feedback{Score: 3, Text: "good", Rewrite: "Better: ..."})
	s.Skip("2")
	s.SetAnswer("3", DrawnAnswer(&GraphAnswer{Points: []Point{{2, 4}}}))
	s.AppendFollowUp("1", ChatMessage{Role: RoleStudent, Text: "why only 3?"})
	s.AppendFollowUp("1", ChatMessage{Role: RoleTutor, Text: "you missed Z"})
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := populatedSession(t)
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	snap := s.TakeSnapshot(now)

	// Through JSON, as the store does it.
	b, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}

	restored := Restore("snap-test", &decoded)

	if !reflect.DeepEqual(restored.Questions, s.Questions) {
		t.Errorf("questions differ:\n got %+v\nwant %+v", restored.Questions, s.Questions)
	}
	if !reflect.DeepEqual(restored.Answers, s.Answers) {
		t.Errorf("answers differ:\n got %+v\nwant %+v", restored.Answers, s.Answers)
	}
	if !reflect.DeepEqual(restored.Feedbacks, s.Feedbacks) {
		t.Errorf("feedbacks differ:\n got %+v\nwant %+v", restored.Feedbacks, s.Feedbacks)
	}
	if restored.Current != s.Current {
		t.Errorf("current = %d, want %d", restored.Current, s.Current)
	}
	if !reflect.DeepEqual(restored.Skipped, s.Skipped) {
		t.Errorf("skipped differ: got %v want %v", restored.Skipped, s.Skipped)
	}
	if !reflect.DeepEqual(restored.FollowUps, s.FollowUps) {
		t.Errorf("follow-ups differ:\n got %+v\nwant %+v", restored.FollowUps, s.FollowUps)
	}
	if restored.InsertText != s.InsertText {
		t.Errorf("insert = %q, want %q", restored.InsertText, s.InsertText)
	}
	if restored.Phase != PhaseExam {
		t.Errorf("phase = %v, want exam", restored.Phase)
	}
}

func TestRestore_PastEndIndexLandsInSummary(t *testing.T) {
	snap := &Snapshot{
		ActiveQuestions: []Question{{ID: "1", Type: TypeShortText, Marks: 1}},
		CurrentQIndex:   1,
	}
	s := Restore("t", snap)
	if s.Phase != PhaseSummary {
		t.Fatalf("phase = %v, want summary", s.Phase)
	}
}

func TestRestore_ClampsNegativeIndex(t *testing.T) {
	snap := &Snapshot{
		ActiveQuestions: []Question{{ID: "1", Type: TypeShortText, Marks: 1}},
		CurrentQIndex:   -4,
	}
	s := Restore("t", snap)
	if s.Current != 0 || s.Phase != PhaseExam {
		t.Fatalf("current = %d phase = %v", s.Current, s.Phase)
	}
}

func TestResumable(t *testing.T) {
	if (&Snapshot{}).Resumable() {
		t.Fatal("empty snapshot reported resumable")
	}
	var nilSnap *Snapshot
	if nilSnap.Resumable() {
		t.Fatal("nil snapshot reported resumable")
	}
	sn := &Snapshot{ActiveQuestions: []Question{{ID: "1"}}}
	if !sn.Resumable() {
		t.Fatal("populated snapshot not resumable")
	}
}
