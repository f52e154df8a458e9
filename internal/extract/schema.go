package extract

import "github.com/devikam/paperprep/internal/llm"

// questionProperties is shared by the extraction schema. It mirrors the
// question shape the session consumes.
var questionProperties = map[string]any{
	"id": map[string]any{
		"type":        "string",
		"description": "Question number as printed on the paper, e.g. '1', '2a', '3(b)(ii)'",
	},
	"section": map[string]any{
		"type":        "string",
		"description": "Section heading the question falls under, if the paper has sections",
	},
	"type": map[string]any{
		"type": "string",
		"enum": []any{
			"multiple_choice", "short_text", "long_text", "list",
			"numerical", "table", "graph_drawing",
		},
		"description": "How the student answers this question",
	},
	"marks": map[string]any{
		"type":        "integer",
		"minimum":     1,
		"description": "Marks available, as printed (e.g. the [3] after the question)",
	},
	"pageNumber": map[string]any{
		"type":        "integer",
		"description": "1-based page of the paper where the question appears",
	},
	"question": map[string]any{
		"type":        "string",
		"description": "Full question text, including any sub-part wording",
	},
	"options": map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "Choices for multiple_choice questions. Omit otherwise.",
	},
	"listCount": map[string]any{
		"type":        "integer",
		"description": "Number of items requested for list questions, e.g. 'State two...' is 2",
	},
	"tableStructure": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headers": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"initialData": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": []any{"string", "null"}},
				},
				"description": "Pre-filled cells. null marks a cell the student must complete.",
			},
		},
		"required":    []any{"headers", "initialData"},
		"description": "Grid for table questions. Omit otherwise.",
	},
	"graphConfig": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"xLabel": map[string]any{"type": "string"},
			"yLabel": map[string]any{"type": "string"},
			"xMin":   map[string]any{"type": "number"},
			"xMax":   map[string]any{"type": "number"},
			"yMin":   map[string]any{"type": "number"},
			"yMax":   map[string]any{"type": "number"},
		},
		"required":    []any{"xLabel", "yLabel", "xMin", "xMax", "yMin", "yMax"},
		"description": "Axis ranges for graph_drawing questions. Omit otherwise.",
	},
	"context": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type":    map[string]any{"type": "string"},
			"title":   map[string]any{"type": "string"},
			"content": map[string]any{"type": "string"},
		},
		"required":    []any{"type", "content"},
		"description": "Source material the question refers to: a passage, data set or diagram description",
	},
	"relatedFigure": map[string]any{
		"type":        "string",
		"description": "Name of a figure the question references, e.g. 'Fig. 2.1'",
	},
	"figurePage": map[string]any{
		"type":        "integer",
		"description": "1-based page where the referenced figure appears",
	},
	"markingRegex": map[string]any{
		"type":        "string",
		"description": "Case-insensitive regex matching a clearly correct short answer, when one exists. Omit for open-ended questions.",
	},
}

// PaperSchema defines the JSON schema for question extraction responses.
var PaperSchema = &llm.Schema{
	Name:        "extracted-paper",
	Description: "All questions extracted from an exam paper, plus any insert text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"properties":           questionProperties,
					"required":             []any{"id", "type", "marks", "question"},
					"additionalProperties": false,
				},
			},
			"insertContent": map[string]any{
				"type":        "string",
				"description": "Plain-text transcription of the insert booklet, when one was provided",
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// SchemeSchema defines the JSON schema for mark scheme extraction responses.
var SchemeSchema = &llm.Schema{
	Name:        "extracted-mark-scheme",
	Description: "Per-question marking criteria extracted from a mark scheme document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"markScheme": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"totalMarks": map[string]any{
							"type":    "integer",
							"minimum": 0,
						},
						"criteria": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"acceptableAnswers": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []any{"totalMarks", "criteria", "acceptableAnswers"},
				},
				"description": "Keyed by question id exactly as printed on the paper",
			},
		},
		"required":             []any{"markScheme"},
		"additionalProperties": false,
	},
}
