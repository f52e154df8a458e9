package exam

import (
	"time"
)

// Snapshot is the serializable projection of a session, written to the
// local store on state changes during the exam phase and read once at
// launch to offer a resume.
type Snapshot struct {
	ActiveQuestions  []Question               `json:"activeQuestions"`
	UserAnswers      map[string]Answer        `json:"userAnswers"`
	Feedbacks        map[string]*Feedback     `json:"feedbacks"`
	InsertContent    string                   `json:"insertContent,omitempty"`
	CurrentQIndex    int                      `json:"currentQIndex"`
	SkippedQuestions []string                 `json:"skippedQuestions"`
	FollowUpChats    map[string][]ChatMessage `json:"followUpChats,omitempty"`
	MarkScheme       MarkScheme               `json:"markScheme,omitempty"`
	ElapsedSecs      int                      `json:"elapsedSecs,omitempty"`
	Timestamp        time.Time                `json:"timestamp"`
}

// Resumable reports whether the snapshot holds a session worth offering
// to resume.
func (sn *Snapshot) Resumable() bool {
	return sn != nil && len(sn.ActiveQuestions) > 0
}

// TakeSnapshot projects the session into its persistent form.
func (s *Session) TakeSnapshot(now time.Time) *Snapshot {
	skipped := make([]string, 0, len(s.Skipped))
	for i := range s.Questions {
		if s.Skipped[s.Questions[i].ID] {
			skipped = append(skipped, s.Questions[i].ID)
		}
	}
	answers := make(map[string]Answer, len(s.Answers))
	for id, a := range s.Answers {
		answers[id] = a
	}
	feedbacks := make(map[string]*Feedback, len(s.Feedbacks))
	for id, fb := range s.Feedbacks {
		cp := *fb
		feedbacks[id] = &cp
	}
	chats := make(map[string][]ChatMessage, len(s.FollowUps))
	for id, msgs := range s.FollowUps {
		chats[id] = append([]ChatMessage(nil), msgs...)
	}
	return &Snapshot{
		ActiveQuestions:  append([]Question(nil), s.Questions...),
		UserAnswers:      answers,
		Feedbacks:        feedbacks,
		InsertContent:    s.InsertText,
		CurrentQIndex:    s.Current,
		SkippedQuestions: skipped,
		FollowUpChats:    chats,
		MarkScheme:       s.Scheme,
		ElapsedSecs:      int(s.Elapsed.Seconds()),
		Timestamp:        now,
	}
}

// Restore rebuilds a session in the exam phase from a snapshot. The
// current index is clamped into [0, len(questions)]; the past-the-end
// sentinel restores straight into the summary phase.
func Restore(id string, sn *Snapshot) *Session {
	s := NewSession(id)
	s.Questions = append([]Question(nil), sn.ActiveQuestions...)
	for qid, a := range sn.UserAnswers {
		s.Answers[qid] = a
	}
	for qid, fb := range sn.Feedbacks {
		if fb == nil {
			continue
		}
		cp := *fb
		s.Feedbacks[qid] = &cp
	}
	for _, qid := range sn.SkippedQuestions {
		s.Skipped[qid] = true
	}
	for qid, msgs := range sn.FollowUpChats {
		s.FollowUps[qid] = append([]ChatMessage(nil), msgs...)
	}
	s.Scheme = sn.MarkScheme
	s.InsertText = sn.InsertContent
	s.Elapsed = time.Duration(sn.ElapsedSecs) * time.Second
	s.Current = sn.CurrentQIndex
	if s.Current < 0 {
		s.Current = 0
	}
	if s.Current > len(s.Questions) {
		s.Current = len(s.Questions)
	}
	if s.Current >= len(s.Questions) {
		s.Phase = PhaseSummary
	} else {
		s.Phase = PhaseExam
	}
	s.Started = time.Now().Add(-s.Elapsed)
	return s
}
