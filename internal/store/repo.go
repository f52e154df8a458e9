package store

import (
	"context"
	"time"

	"github.com/devikam/paperprep/internal/exam"
)

// SnapshotRepo persists the serializable session projection. Writes are
// last-write-wins; Latest returns the single most recent snapshot.
type SnapshotRepo interface {
	// Save stores a snapshot, replacing any previous one.
	Save(ctx context.Context, sessionID string, snap *exam.Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*exam.Snapshot, error)

	// Clear deletes all snapshots (paperprep reset, or session restart).
	Clear(ctx context.Context) error
}

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID     string
	Action        string // start, resume, end
	PaperName     string
	QuestionCount int
	Answered      int
	ScoredMarks   int
	PossibleMarks int
	DurationSecs  int
}

// AnswerEventData captures one marked answer.
type AnswerEventData struct {
	SessionID    string
	QuestionID   string
	QuestionType string
	Marks        int
	Score        int
	AutoVerified bool
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	Attachments  int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMEventRow is one recorded LLM call, as listed by the llm command.
type LLMEventRow struct {
	ID           int
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	Attachments  int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMUsageRow aggregates token usage for one purpose label.
type LLMUsageRow struct {
	Purpose      string `json:"purpose"`
	Calls        int    `json:"calls"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	AvgLatencyMs int64  `json:"avg_latency_ms"`
}

// SessionHistoryRow is one session as reported by the stats command.
type SessionHistoryRow struct {
	SessionID     string
	StartedAt     time.Time
	Action        string
	PaperName     string
	QuestionCount int
	Answered      int
	ScoredMarks   int
	PossibleMarks int
	DurationSecs  int
}

// EventRepo provides append access to domain events and the history
// queries built on them.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records a marked answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// SessionHistory returns the most recent session end events, newest first.
	SessionHistory(ctx context.Context, limit int) ([]SessionHistoryRow, error)

	// RecentLLMRequests returns the newest LLM call events, optionally
	// filtered by purpose.
	RecentLLMRequests(ctx context.Context, limit int, purpose string) ([]LLMEventRow, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageRow, error)
}
