// Package extract turns attached exam documents into structured questions
// and mark schemes via the LLM provider. It is stateless; the session owns
// everything it returns.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/llm"
)

// ErrNoQuestions reports an extraction that parsed but found nothing.
// The session treats this the same as a failed extraction.
var ErrNoQuestions = errors.New("no questions found in paper")

// Service implements question and mark scheme extraction over an LLM provider.
type Service struct {
	provider llm.Provider
	config   Config
}

// New creates an extraction Service with the given provider and config.
func New(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, config: cfg}
}

// Input is the source material for one extraction.
type Input struct {
	// PaperName is the display name of the paper, shown to the model for
	// context (e.g. the uploaded filename).
	PaperName string

	// Paper is the exam paper PDF. Required.
	Paper []byte

	// Insert is the insert/source booklet PDF. Optional.
	Insert []byte
}

// Result is a successful extraction.
type Result struct {
	Questions  []exam.Question
	InsertText string
}

// paperOutput is the raw LLM response before validation.
type paperOutput struct {
	Questions     []exam.Question `json:"questions"`
	InsertContent string          `json:"insertContent"`
}

// ExtractPaper sends the paper (and insert, when present) to the model and
// parses the structured question list. Zero questions is a failure.
func (s *Service) ExtractPaper(ctx context.Context, input Input) (*Result, error) {
	ctx = llm.WithPurpose(ctx, "extraction")

	req := llm.Request{
		System: paperSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPaperMessage(input.PaperName, len(input.Insert) > 0)},
		},
		Attachments: attachments(input.Paper, input.Insert),
		Schema:      PaperSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	var raw paperOutput
	if err := json.Unmarshal([]byte(llm.CleanJSON(string(resp.Content))), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	if len(raw.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	return &Result{Questions: raw.Questions, InsertText: raw.InsertContent}, nil
}

// schemeOutput is the raw mark scheme response.
type schemeOutput struct {
	MarkScheme exam.MarkScheme `json:"markScheme"`
}

// ExtractScheme parses a mark scheme document into per-question criteria.
// Callers treat failure as non-fatal; a session runs fine without a scheme.
func (s *Service) ExtractScheme(ctx context.Context, scheme []byte) (exam.MarkScheme, error) {
	ctx = llm.WithPurpose(ctx, "markscheme")

	req := llm.Request{
		System: schemeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Extract the mark scheme."},
		},
		Attachments: attachments(scheme, nil),
		Schema:      SchemeSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mark scheme extraction failed: %w", err)
	}

	var raw schemeOutput
	if err := json.Unmarshal([]byte(llm.CleanJSON(string(resp.Content))), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse mark scheme response: %w", err)
	}
	return raw.MarkScheme, nil
}

func attachments(docs ...[]byte) []llm.Attachment {
	var out []llm.Attachment
	for _, d := range docs {
		if len(d) == 0 {
			continue
		}
		out = append(out, llm.Attachment{MIMEType: "application/pdf", Data: d})
	}
	return out
}
