package extract

import (
	"fmt"
	"strings"
)

const paperSystemPrompt = `You are an exam paper digitizer. You receive a past exam paper as an attached PDF and transcribe every question into structured JSON.

Rules:
- Extract every question and sub-part as its own entry, in paper order. A sub-part like 3(b)(ii) is one entry with id "3(b)(ii)".
- Copy question text faithfully. Do not paraphrase, shorten, or fix typos.
- Choose the type from how the answer is captured: multiple_choice for lettered options, numerical for a single number, short_text for a word or phrase, long_text for extended prose, list for "state two/three..." enumerations, table for fill-in grids, graph_drawing for plot/draw/sketch instructions on provided axes.
- Record the marks printed next to each question. If none are printed, estimate from the answer space and question demand.
- For table questions, reproduce the printed grid: headers plus initialData, with null for every cell the student must fill.
- For graph questions, read the axis labels and ranges off the printed grid.
- When a question refers to a figure or source in the insert, set relatedFigure and figurePage so the student can be shown it.
- Set markingRegex only when a short answer has a clearly verifiable correct form (a number, a single word with obvious variants). Leave it out for anything requiring judgement.
- If an insert booklet is attached, transcribe its prose into insertContent.
- Skip cover pages, formula sheets, and blank answer space.`

const schemeSystemPrompt = `You are an exam mark scheme digitizer. You receive a mark scheme as an attached PDF and transcribe it into structured JSON keyed by question id.

Rules:
- Key each entry by the question id exactly as printed, e.g. "1", "2a", "3(b)(ii)".
- totalMarks is the marks available for that question.
- criteria is the list of marking points, one string per point, copied faithfully.
- acceptableAnswers lists the accepted answers or equivalents the scheme names, when it names any.
- Skip generic guidance pages that apply to the whole paper.`

// buildPaperMessage constructs the user message for question extraction.
func buildPaperMessage(paperName string, hasInsert bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Paper: %s\n", paperName)
	if hasInsert {
		b.WriteString("The second attached document is the insert/source booklet. Transcribe it into insertContent and use it to resolve figure references.\n")
	}
	b.WriteString("Extract all questions.")
	return b.String()
}
