package exam

// QuestionType identifies which answer capture surface a question uses.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeShortText      QuestionType = "short_text"
	TypeLongText       QuestionType = "long_text"
	TypeList           QuestionType = "list"
	TypeNumerical      QuestionType = "numerical"
	TypeTable          QuestionType = "table"
	TypeGraphDrawing   QuestionType = "graph_drawing"
)

// Scalar reports whether the question's answer is a single string.
// Only scalar answers are eligible for regex auto-verification.
func (t QuestionType) Scalar() bool {
	switch t {
	case TypeShortText, TypeLongText, TypeNumerical, TypeMultipleChoice:
		return true
	}
	return false
}

// TableStructure describes the grid a table question presents.
// A nil cell in the extracted JSON decodes to "" and means "student fills this in".
type TableStructure struct {
	Headers     []string   `json:"headers"`
	InitialData [][]string `json:"initialData"`
}

// GraphConfig defines the logical axis range for a graph drawing question.
type GraphConfig struct {
	XLabel string  `json:"xLabel"`
	YLabel string  `json:"yLabel"`
	XMin   float64 `json:"xMin"`
	XMax   float64 `json:"xMax"`
	YMin   float64 `json:"yMin"`
	YMax   float64 `json:"yMax"`
}

// QuestionContext carries source material the question refers to
// (a passage, data set or diagram description lifted from the paper).
type QuestionContext struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Question is a single extracted exam question. Immutable once extracted;
// owned by the Session.
type Question struct {
	ID            string           `json:"id"`
	Section       string           `json:"section,omitempty"`
	Type          QuestionType     `json:"type"`
	Marks         int              `json:"marks"`
	PageNumber    int              `json:"pageNumber,omitempty"`
	Text          string           `json:"question"`
	Options       []string         `json:"options,omitempty"`
	ListCount     int              `json:"listCount,omitempty"`
	Table         *TableStructure  `json:"tableStructure,omitempty"`
	Graph         *GraphConfig     `json:"graphConfig,omitempty"`
	Context       *QuestionContext `json:"context,omitempty"`
	RelatedFigure string           `json:"relatedFigure,omitempty"`
	FigurePage    int              `json:"figurePage,omitempty"`
	MarkingRegex  string           `json:"markingRegex,omitempty"`
}

// SourcePage returns the page the viewer should jump to when this
// question becomes current: the referenced figure page when set,
// otherwise the question's own page. Zero means "no page known".
func (q *Question) SourcePage() int {
	if q.FigurePage > 0 {
		return q.FigurePage
	}
	return q.PageNumber
}
