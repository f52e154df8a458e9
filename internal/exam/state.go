package exam

import (
	"time"
)

// Phase is the top-level state of a session.
type Phase int

const (
	PhaseUpload  Phase = iota // waiting for paper + credential
	PhaseParsing              // extraction in flight
	PhaseExam                 // answering questions
	PhaseSummary              // past the last question
)

func (p Phase) String() string {
	switch p {
	case PhaseUpload:
		return "upload"
	case PhaseParsing:
		return "parsing"
	case PhaseExam:
		return "exam"
	case PhaseSummary:
		return "summary"
	}
	return "unknown"
}

// Scratch is the transient per-question UI state. Keyed by question ID so
// late-arriving responses for a question the student has navigated away
// from still land on the right entry, and responses for questions that no
// longer exist are dropped.
type Scratch struct {
	Hint           string
	Explanation    string
	MarkingPending bool
	HintPending    bool
	ExplainPending bool
	ChatPending    bool
}

// Session is the full runtime state of one exam attempt.
type Session struct {
	ID    string
	Phase Phase

	Questions []Question
	Answers   map[string]Answer
	Feedbacks map[string]*Feedback
	Skipped   map[string]bool
	FollowUps map[string][]ChatMessage
	Scheme    MarkScheme

	// Current indexes Questions; len(Questions) is the past-the-end
	// sentinel that forces the summary phase.
	Current int

	// InsertText is the extraction-derived description of the insert
	// document, carried into marking prompts.
	InsertText string

	Started time.Time
	Elapsed time.Duration

	scratch map[string]*Scratch
}

// NewSession creates a session in the upload phase.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Phase:     PhaseUpload,
		Answers:   make(map[string]Answer),
		Feedbacks: make(map[string]*Feedback),
		Skipped:   make(map[string]bool),
		FollowUps: make(map[string][]ChatMessage),
		scratch:   make(map[string]*Scratch),
	}
}

// ScratchFor returns the transient state for a question, creating it if
// the question exists. Returns nil for unknown IDs.
func (s *Session) ScratchFor(id string) *Scratch {
	if s.Question(id) == nil {
		return nil
	}
	sc, ok := s.scratch[id]
	if !ok {
		sc = &Scratch{}
		s.scratch[id] = sc
	}
	return sc
}

// Question returns the question with the given ID, or nil.
func (s *Session) Question(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// CurrentQuestion returns the question at the current index, or nil when
// past the end.
func (s *Session) CurrentQuestion() *Question {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Current]
}
