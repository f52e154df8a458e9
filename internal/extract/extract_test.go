package extract

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/llm"
)

var paperBytes = []byte("%PDF-1.4 fake paper")
var insertBytes = []byte("%PDF-1.4 fake insert")

func TestExtractPaper(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{
			"questions": [
				{"id": "1", "type": "short_text", "marks": 2, "question": "Name the process shown in Fig. 1.1.", "relatedFigure": "Fig. 1.1", "figurePage": 2},
				{"id": "2", "type": "numerical", "marks": 3, "question": "Calculate the speed.", "markingRegex": "^15(\\.0)? ?m/s$"}
			],
			"insertContent": "Source A: ..."
		}`),
	})
	svc := New(mock, DefaultConfig())

	res, err := svc.ExtractPaper(context.Background(), Input{
		PaperName: "bio-p2.pdf",
		Paper:     paperBytes,
		Insert:    insertBytes,
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if len(res.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(res.Questions))
	}
	if res.Questions[0].Type != exam.TypeShortText || res.Questions[0].FigurePage != 2 {
		t.Errorf("question 1 = %+v", res.Questions[0])
	}
	if res.Questions[1].MarkingRegex == "" {
		t.Error("expected markingRegex on question 2")
	}
	if res.InsertText != "Source A: ..." {
		t.Errorf("insertText = %q", res.InsertText)
	}

	// Both documents go out as PDF attachments on a schema-bound request.
	req := mock.Calls[0]
	if len(req.Attachments) != 2 {
		t.Fatalf("attachments = %d, want 2", len(req.Attachments))
	}
	if req.Attachments[0].MIMEType != "application/pdf" {
		t.Errorf("mime = %q", req.Attachments[0].MIMEType)
	}
	if req.Schema != PaperSchema {
		t.Error("expected paper schema on request")
	}
}

func TestExtractPaperNoInsert(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"questions": [{"id": "1", "type": "long_text", "marks": 6, "question": "Discuss."}]}`),
	})
	svc := New(mock, DefaultConfig())

	res, err := svc.ExtractPaper(context.Background(), Input{PaperName: "p.pdf", Paper: paperBytes})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.InsertText != "" {
		t.Errorf("insertText = %q, want empty", res.InsertText)
	}
	if len(mock.Calls[0].Attachments) != 1 {
		t.Errorf("attachments = %d, want 1", len(mock.Calls[0].Attachments))
	}
}

func TestExtractPaperZeroQuestionsFails(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"questions": []}`),
	})
	svc := New(mock, DefaultConfig())

	_, err := svc.ExtractPaper(context.Background(), Input{PaperName: "p.pdf", Paper: paperBytes})
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
}

func TestExtractPaperFencedResponse(t *testing.T) {
	// Providers without native structured output wrap JSON in fences.
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("```json\n{\"questions\": [{\"id\": \"1\", \"type\": \"short_text\", \"marks\": 1, \"question\": \"Q?\"}]}\n```"),
	})
	svc := New(mock, DefaultConfig())

	res, err := svc.ExtractPaper(context.Background(), Input{PaperName: "p.pdf", Paper: paperBytes})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Questions) != 1 {
		t.Errorf("questions = %d, want 1", len(res.Questions))
	}
}

func TestExtractPaperTableNullCells(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"questions": [{
			"id": "4", "type": "table", "marks": 3, "question": "Complete the table.",
			"tableStructure": {"headers": ["Metal", "Reacts?"], "initialData": [["zinc", null], [null, "no"]]}
		}]}`),
	})
	svc := New(mock, DefaultConfig())

	res, err := svc.ExtractPaper(context.Background(), Input{PaperName: "p.pdf", Paper: paperBytes})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	tbl := res.Questions[0].Table
	if tbl == nil {
		t.Fatal("expected tableStructure")
	}
	// null cells decode to "" and mean "student fills this in".
	if tbl.InitialData[0][1] != "" || tbl.InitialData[1][0] != "" {
		t.Errorf("initialData = %+v, want empty strings for null cells", tbl.InitialData)
	}
	if tbl.InitialData[0][0] != "zinc" {
		t.Errorf("initialData[0][0] = %q", tbl.InitialData[0][0])
	}
}

func TestExtractPaperProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{},
	})
	svc := New(mock, DefaultConfig())

	_, err := svc.ExtractPaper(context.Background(), Input{PaperName: "p.pdf", Paper: paperBytes})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestExtractScheme(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"markScheme": {
			"1": {"totalMarks": 2, "criteria": ["names osmosis", "mentions water potential"], "acceptableAnswers": ["osmosis"]},
			"2": {"totalMarks": 3, "criteria": ["correct rearrangement", "correct substitution", "correct unit"], "acceptableAnswers": ["15 m/s"]}
		}}`),
	})
	svc := New(mock, DefaultConfig())

	scheme, err := svc.ExtractScheme(context.Background(), []byte("%PDF ms"))
	if err != nil {
		t.Fatalf("extract scheme: %v", err)
	}
	entry, ok := scheme["2"]
	if !ok {
		t.Fatal("missing scheme entry for question 2")
	}
	if entry.TotalMarks != 3 || len(entry.Criteria) != 3 {
		t.Errorf("entry = %+v", entry)
	}

	if mock.Calls[0].Schema != SchemeSchema {
		t.Error("expected scheme schema on request")
	}
}

func TestExtractSchemeBadJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`I could not read this document.`),
	})
	svc := New(mock, DefaultConfig())

	var scheme exam.MarkScheme
	scheme, err := svc.ExtractScheme(context.Background(), []byte("%PDF ms"))
	if err == nil {
		t.Fatal("expected error for unparseable scheme")
	}
	if scheme != nil {
		t.Errorf("scheme = %+v, want nil", scheme)
	}
}
