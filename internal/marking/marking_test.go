package marking

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/llm"
)

var q = exam.Question{
	ID:    "2a",
	Type:  exam.TypeShortText,
	Marks: 3,
	Text:  "Explain why the rate increases with temperature.",
}

func TestMark(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"{\"score\": 2, \"feedback\": \"Good on collisions, missing activation energy.\", \"rewrite\": \"At higher temperature...\"}"`),
	})
	svc := New(mock, DefaultConfig())

	fb := svc.Mark(context.Background(), MarkInput{
		Question: q,
		Answer:   exam.TextAnswer("particles collide more often"),
	})

	if fb.Score != 2 || fb.TotalMarks != 3 {
		t.Errorf("score = %d/%d, want 2/3", fb.Score, fb.TotalMarks)
	}
	if fb.Rewrite == "" {
		t.Error("expected rewrite")
	}

	// The serialized answer and the marks travel in the prompt.
	sent := mock.Calls[0].Messages[0].Content
	if !strings.Contains(sent, "particles collide more often") {
		t.Error("answer missing from prompt")
	}
	if !strings.Contains(sent, "[3 marks]") {
		t.Error("marks missing from prompt")
	}
}

func TestMarkClampsOverRangeScore(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"{\"score\": 99, \"feedback\": \"f\", \"rewrite\": \"r\"}"`),
	})
	svc := New(mock, DefaultConfig())

	fb := svc.Mark(context.Background(), MarkInput{Question: q, Answer: exam.TextAnswer("a")})
	if fb.Score != 3 {
		t.Errorf("score = %d, want clamped to 3", fb.Score)
	}
}

func TestMarkDegradesOnBadJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"not json"`),
	})
	svc := New(mock, DefaultConfig())

	fb := svc.Mark(context.Background(), MarkInput{Question: q, Answer: exam.TextAnswer("a")})
	if fb.Score != 0 {
		t.Errorf("score = %d, want 0", fb.Score)
	}
	if fb.Text != "not json" {
		t.Errorf("text = %q, want raw response", fb.Text)
	}
	if fb.Rewrite != "N/A" {
		t.Errorf("rewrite = %q, want N/A", fb.Rewrite)
	}
}

func TestMarkDegradesOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{},
	})
	svc := New(mock, DefaultConfig())

	fb := svc.Mark(context.Background(), MarkInput{Question: q, Answer: exam.TextAnswer("a")})
	if fb.Score != 0 || fb.Text != ErrorMarkingText {
		t.Errorf("feedback = %+v, want zero-score %q", fb, ErrorMarkingText)
	}
}

func TestMarkIncludesSchemeEntry(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"{\"score\": 1, \"feedback\": \"f\", \"rewrite\": \"r\"}"`),
	})
	svc := New(mock, DefaultConfig())

	svc.Mark(context.Background(), MarkInput{
		Question: q,
		Scheme: &exam.SchemeEntry{
			TotalMarks:        3,
			Criteria:          []string{"mentions collision frequency", "mentions activation energy"},
			AcceptableAnswers: []string{"more frequent successful collisions"},
		},
		Answer: exam.TextAnswer("a"),
	})

	sent := mock.Calls[0].Messages[0].Content
	if !strings.Contains(sent, "mentions activation energy") {
		t.Error("scheme criteria missing from prompt")
	}
	if !strings.Contains(sent, "more frequent successful collisions") {
		t.Error("acceptable answers missing from prompt")
	}
}

func TestMarkSerializesGraphAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"{\"score\": 1, \"feedback\": \"f\", \"rewrite\": \"r\"}"`),
	})
	svc := New(mock, DefaultConfig())

	gq := exam.Question{ID: "5", Type: exam.TypeGraphDrawing, Marks: 2, Text: "Plot the points."}
	svc.Mark(context.Background(), MarkInput{
		Question: gq,
		Answer: exam.DrawnAnswer(&exam.GraphAnswer{
			Points: []exam.Point{{X: 1, Y: 2}},
			Lines:  []exam.Line{{X1: 0, Y1: 0, X2: 4, Y2: 8}},
		}),
	})

	// Graph answers travel as enumerated coordinates, never raster data.
	sent := mock.Calls[0].Messages[0].Content
	if !strings.Contains(sent, "(1.00, 2.00)") {
		t.Errorf("plotted point missing from prompt:\n%s", sent)
	}
	if !strings.Contains(sent, "(0.00, 0.00) -> (4.00, 8.00)") {
		t.Error("drawn line missing from prompt")
	}
}

func TestHint(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"Think about what happens to particle energy."`),
	})
	svc := New(mock, DefaultConfig())

	hint, err := svc.Hint(context.Background(), &q, "")
	if err != nil {
		t.Fatalf("hint: %v", err)
	}
	if hint != "Think about what happens to particle energy." {
		t.Errorf("hint = %q", hint)
	}
}

func TestHintError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	svc := New(mock, DefaultConfig())

	if _, err := svc.Hint(context.Background(), &q, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestFollowUpThreadsHistory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"Because the gradient is the rate."`),
	})
	svc := New(mock, DefaultConfig())

	fb := exam.NewFeedback(1, 3, "Partially correct.", "")
	history := []exam.ChatMessage{
		{Role: exam.RoleStudent, Text: "Why did I lose marks?"},
		{Role: exam.RoleTutor, Text: "You did not name activation energy."},
	}

	reply, err := svc.FollowUp(context.Background(), &q, exam.TextAnswer("a"), &fb, history, "What about the gradient?")
	if err != nil {
		t.Fatalf("follow-up: %v", err)
	}
	if reply != "Because the gradient is the rate." {
		t.Errorf("reply = %q", reply)
	}

	// Prior thread arrives in order ahead of the new message.
	msgs := mock.Calls[0].Messages
	last := msgs[len(msgs)-1]
	if last.Role != llm.RoleUser || last.Content != "What about the gradient?" {
		t.Errorf("last message = %+v", last)
	}
	prev := msgs[len(msgs)-2]
	if prev.Role != llm.RoleAssistant || !strings.Contains(prev.Content, "activation energy") {
		t.Errorf("tutor history message = %+v", prev)
	}
}
