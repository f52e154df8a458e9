package exam

// Feedback is the marking result for one question. Created at most once
// per question; once present the question's input is locked.
type Feedback struct {
	Score        int    `json:"score"`
	TotalMarks   int    `json:"totalMarks"`
	Text         string `json:"text"`
	Rewrite      string `json:"rewrite,omitempty"`
	AutoVerified bool   `json:"autoVerified,omitempty"`
}

// NewFeedback builds a Feedback with the score clamped to [0, totalMarks].
// The AI layer is not trusted to stay in range.
func NewFeedback(score, totalMarks int, text, rewrite string) Feedback {
	if score < 0 {
		score = 0
	}
	if score > totalMarks {
		score = totalMarks
	}
	return Feedback{Score: score, TotalMarks: totalMarks, Text: text, Rewrite: rewrite}
}

// ChatRole is the author of a follow-up chat message.
type ChatRole string

const (
	RoleStudent ChatRole = "user"
	RoleTutor   ChatRole = "ai"
)

// ChatMessage is one entry in a per-question follow-up thread.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// SchemeEntry is the mark-scheme guidance for a single question.
type SchemeEntry struct {
	TotalMarks        int      `json:"totalMarks"`
	Criteria          []string `json:"criteria"`
	AcceptableAnswers []string `json:"acceptableAnswers"`
}

// MarkScheme maps question IDs to their scheme entries. Loaded once during
// parsing (best effort), read-only during the exam phase.
type MarkScheme map[string]SchemeEntry
