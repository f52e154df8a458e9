// Package marking issues AI marking, hint, explanation and follow-up
// requests for individual questions. All functions are stateless; the
// session decides what to do with the results.
package marking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/llm"
)

// ErrorMarkingText is the feedback body shown when the marking call
// itself failed. The student can still move on.
const ErrorMarkingText = "Error marking."

// Config controls the marking service.
type Config struct {
	// MaxTokens is the token budget for marking and chat responses.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.3,
	}
}

// Service implements marking operations over an LLM provider.
type Service struct {
	provider llm.Provider
	config   Config
}

// New creates a marking Service with the given provider and config.
func New(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, config: cfg}
}

// MarkInput is everything a marking request needs.
type MarkInput struct {
	Question   exam.Question
	Scheme     *exam.SchemeEntry
	InsertText string
	Answer     exam.Answer
}

// markOutput is the raw marking response before clamping.
type markOutput struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
	Rewrite  string `json:"rewrite"`
}

// Mark sends one answer for marking and always returns a usable Feedback.
// A provider failure degrades to a zero-score error feedback; an
// unparseable response degrades to a zero-score feedback carrying the raw
// text. Neither blocks the student from progressing.
func (s *Service) Mark(ctx context.Context, in MarkInput) exam.Feedback {
	ctx = llm.WithPurpose(ctx, "marking")

	req := llm.Request{
		System: markingSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildMarkingMessage(in)},
		},
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return exam.NewFeedback(0, in.Question.Marks, ErrorMarkingText, "")
	}

	raw := resp.Text()
	var out markOutput
	if err := json.Unmarshal([]byte(llm.CleanJSON(raw)), &out); err != nil {
		// Keep whatever the model said as the feedback body.
		return exam.NewFeedback(0, in.Question.Marks, strings.TrimSpace(raw), "N/A")
	}

	return exam.NewFeedback(out.Score, in.Question.Marks, out.Feedback, out.Rewrite)
}

// Hint requests a nudge for the given question. The caller drops the
// result on error; a failed hint is invisible to the student.
func (s *Service) Hint(ctx context.Context, q *exam.Question, insert string) (string, error) {
	ctx = llm.WithPurpose(ctx, "hint")

	req := llm.Request{
		System: hintSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: questionBlock(q, insert) + "\nGive me a hint."},
		},
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("hint request failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// Explain requests an explanation of already-delivered feedback.
func (s *Service) Explain(ctx context.Context, q *exam.Question, ans exam.Answer, fb *exam.Feedback) (string, error) {
	ctx = llm.WithPurpose(ctx, "explain")

	req := llm.Request{
		System: explainSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExplainMessage(q, ans, fb)},
		},
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("explain request failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// FollowUp continues a per-question chat thread. history is the prior
// thread; text is the student's new message. Failures surface inline in
// the chat rather than crashing the thread.
func (s *Service) FollowUp(ctx context.Context, q *exam.Question, ans exam.Answer, fb *exam.Feedback, history []exam.ChatMessage, text string) (string, error) {
	ctx = llm.WithPurpose(ctx, "chat")

	msgs := []llm.Message{
		{Role: llm.RoleUser, Content: buildExplainMessage(q, ans, fb)},
		{Role: llm.RoleAssistant, Content: "Understood. I have the question, the answer and the feedback. What would you like to ask?"},
	}
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == exam.RoleTutor {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Text})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: text})

	req := llm.Request{
		System:      chatSystemPrompt,
		Messages:    msgs,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("follow-up request failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
