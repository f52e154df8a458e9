package exam

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrNoQuestions is returned when extraction produced an empty paper.
var ErrNoQuestions = errors.New("no questions extracted from paper")

// AutoVerifiedText is the feedback body for a regex-verified answer.
const AutoVerifiedText = "Correct! (Auto-verified)"

// SubmitDecision tells the orchestrator what a submit attempt resolved to.
type SubmitDecision int

const (
	// SubmitRejected means the answer was empty or the question is locked;
	// nothing changed.
	SubmitRejected SubmitDecision = iota
	// SubmitAutoVerified means the marking regex matched and full-marks
	// feedback was applied locally. No network call may be made.
	SubmitAutoVerified
	// SubmitNeedsMarking means a marking request must be issued for the
	// captured answer.
	SubmitNeedsMarking
)

// BeginParsing moves upload → parsing.
func (s *Session) BeginParsing() {
	if s.Phase == PhaseUpload {
		s.Phase = PhaseParsing
	}
}

// FailParsing aborts parsing back to upload, discarding any partial side
// effects (a mark scheme parsed before the primary extraction failed must
// not survive).
func (s *Session) FailParsing() {
	s.Phase = PhaseUpload
	s.Questions = nil
	s.Scheme = nil
	s.InsertText = ""
}

// InstallQuestions completes parsing: the session enters the exam phase at
// index 0. Question IDs are deduplicated in place so every ID is unique
// and stable for the session's lifetime.
func (s *Session) InstallQuestions(qs []Question, scheme MarkScheme, insertText string) error {
	if len(qs) == 0 {
		return ErrNoQuestions
	}
	seen := make(map[string]bool, len(qs))
	for i := range qs {
		id := strings.TrimSpace(qs[i].ID)
		if id == "" {
			id = fmt.Sprintf("q%d", i+1)
		}
		for seen[id] {
			id += "'"
		}
		seen[id] = true
		qs[i].ID = id
		if qs[i].Marks < 1 {
			qs[i].Marks = 1
		}
	}
	s.Questions = qs
	s.Scheme = scheme
	s.InsertText = insertText
	s.Current = 0
	s.Phase = PhaseExam
	s.Started = time.Now()
	return nil
}

// SetAnswer records the student's answer for a question. Rejected once the
// question has feedback or a marking request in flight: submitted is
// terminal, and editing during marking would make a stale response
// ambiguous.
func (s *Session) SetAnswer(id string, a Answer) bool {
	if s.Question(id) == nil {
		return false
	}
	if s.Feedbacks[id] != nil {
		return false
	}
	if sc := s.scratch[id]; sc != nil && sc.MarkingPending {
		return false
	}
	s.Answers[id] = a
	return true
}

// Submit validates the current answer for the question and decides how it
// gets marked. On SubmitNeedsMarking the caller must issue the marking
// request and later call ApplyMarking with the same question ID.
func (s *Session) Submit(id string) SubmitDecision {
	q := s.Question(id)
	if q == nil || s.Feedbacks[id] != nil {
		return SubmitRejected
	}
	sc := s.ScratchFor(id)
	if sc.MarkingPending {
		return SubmitRejected
	}
	ans := s.Answers[id]
	if ans.IsEmpty() {
		return SubmitRejected
	}

	if q.MarkingRegex != "" && q.Type.Scalar() {
		if matched := matchRegex(q.MarkingRegex, ans.Text); matched {
			fb := NewFeedback(q.Marks, q.Marks, AutoVerifiedText, "")
			fb.AutoVerified = true
			s.Feedbacks[id] = &fb
			delete(s.Skipped, id)
			return SubmitAutoVerified
		}
	}

	sc.MarkingPending = true
	return SubmitNeedsMarking
}

// matchRegex tests pattern case-insensitively against the trimmed answer.
// A pattern that fails to compile never matches.
func matchRegex(pattern, answer string) bool {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return false
	}
	return re.MatchString(strings.TrimSpace(answer))
}

// ApplyMarking stores the feedback produced for a question, keyed by the
// ID captured at request time. Dropped when the question no longer exists
// or already has feedback (a stale or duplicate response). Clears the
// skipped mark: submitting wins over an earlier skip.
func (s *Session) ApplyMarking(id string, fb Feedback) bool {
	q := s.Question(id)
	if q == nil {
		return false
	}
	if sc := s.scratch[id]; sc != nil {
		sc.MarkingPending = false
	}
	if s.Feedbacks[id] != nil {
		return false
	}
	clamped := NewFeedback(fb.Score, q.Marks, fb.Text, fb.Rewrite)
	clamped.AutoVerified = fb.AutoVerified
	s.Feedbacks[id] = &clamped
	delete(s.Skipped, id)
	return true
}

// Skip marks the question skipped and advances exactly like Next. A
// question with feedback cannot be re-skipped; it only advances.
func (s *Session) Skip(id string) {
	if s.Question(id) != nil && s.Feedbacks[id] == nil {
		s.Skipped[id] = true
	}
	s.Next()
}

// Next advances the current pointer. Moving past the last question
// transitions to the summary phase. Returns true on that transition.
func (s *Session) Next() bool {
	if s.Phase != PhaseExam {
		return false
	}
	s.Current++
	if s.Current >= len(s.Questions) {
		s.Current = len(s.Questions)
		s.Phase = PhaseSummary
		return true
	}
	return false
}

// SetHint applies a hint response if its target question still exists.
func (s *Session) SetHint(id, hint string) bool {
	sc := s.ScratchFor(id)
	if sc == nil {
		return false
	}
	sc.HintPending = false
	sc.Hint = hint
	return true
}

// SetExplanation applies an explanation response if its target question
// still exists.
func (s *Session) SetExplanation(id, text string) bool {
	sc := s.ScratchFor(id)
	if sc == nil {
		return false
	}
	sc.ExplainPending = false
	sc.Explanation = text
	return true
}

// AppendFollowUp appends to a question's chat thread. Append-only; drops
// messages for unknown questions.
func (s *Session) AppendFollowUp(id string, msg ChatMessage) bool {
	if s.Question(id) == nil {
		return false
	}
	s.FollowUps[id] = append(s.FollowUps[id], msg)
	return true
}

// Summary aggregates the session for the summary phase.
type Summary struct {
	TotalScored   int
	TotalPossible int
	Answered      int
	SkippedCount  int
	AutoVerified  int
	Elapsed       time.Duration
}

// Summarize computes score totals across all questions. Possible marks
// count every question, scored marks only those with feedback.
func (s *Session) Summarize() Summary {
	sum := Summary{Elapsed: s.Elapsed}
	for i := range s.Questions {
		q := &s.Questions[i]
		sum.TotalPossible += q.Marks
		if fb := s.Feedbacks[q.ID]; fb != nil {
			sum.TotalScored += fb.Score
			sum.Answered++
			if fb.AutoVerified {
				sum.AutoVerified++
			}
		} else if s.Skipped[q.ID] {
			sum.SkippedCount++
		}
	}
	return sum
}
