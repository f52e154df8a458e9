package marking

import (
	"fmt"
	"strings"

	"github.com/devikam/paperprep/internal/exam"
)

const markingSystemPrompt = `You are an experienced examiner marking a student's answer to one past-paper question.

Rules:
- Mark strictly to the scheme entry when one is given. Without one, mark to the standard expected at this level for the marks available.
- Award whole marks only, between 0 and the marks available.
- Feedback should name what earned marks and what was missing, in two or three sentences addressed to the student.
- For written answers, include a model rewrite: the answer as a strong student would have written it. For numerical answers a one-line worked value is enough.
- Respond with a JSON object: {"score": <int>, "feedback": "<string>", "rewrite": "<string>"}. No other text.`

const hintSystemPrompt = `You are a tutor helping a student who is stuck on a past-paper question.

Rules:
- Give one short nudge toward the method or the first step. Two sentences at most.
- Never state the answer or any part of it.`

const explainSystemPrompt = `You are a tutor. A student has received marked feedback on their answer and wants it explained.

Rules:
- Explain why the answer earned the score it did, walking through the marking points in plain language.
- Keep it under a short paragraph. Address the student directly.`

const chatSystemPrompt = `You are a tutor in a follow-up conversation about one marked past-paper question. Answer the student's questions about this question, their answer, and the feedback. Stay on topic and keep replies short.`

// questionBlock renders the shared question description used by every prompt.
func questionBlock(q *exam.Question, insert string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question %s", q.ID)
	if q.Section != "" {
		fmt.Fprintf(&b, " (section %s)", q.Section)
	}
	fmt.Fprintf(&b, " [%d marks]:\n%s\n", q.Marks, q.Text)

	if len(q.Options) > 0 {
		b.WriteString("Options:\n")
		for i, opt := range q.Options {
			fmt.Fprintf(&b, "  %c. %s\n", 'A'+i, opt)
		}
	}
	if q.Context != nil && q.Context.Content != "" {
		fmt.Fprintf(&b, "\nSource material (%s):\n%s\n", q.Context.Type, q.Context.Content)
	}
	if q.RelatedFigure != "" {
		fmt.Fprintf(&b, "\nThe question refers to %s.\n", q.RelatedFigure)
	}
	if insert != "" {
		fmt.Fprintf(&b, "\nInsert booklet:\n%s\n", insert)
	}
	return b.String()
}

// buildMarkingMessage constructs the user message for a marking request.
func buildMarkingMessage(in MarkInput) string {
	var b strings.Builder
	b.WriteString(questionBlock(&in.Question, in.InsertText))

	if in.Scheme != nil {
		b.WriteString("\nMark scheme entry:\n")
		fmt.Fprintf(&b, "Total marks: %d\n", in.Scheme.TotalMarks)
		for _, c := range in.Scheme.Criteria {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		if len(in.Scheme.AcceptableAnswers) > 0 {
			fmt.Fprintf(&b, "Acceptable answers: %s\n", strings.Join(in.Scheme.AcceptableAnswers, "; "))
		}
	}

	b.WriteString("\nStudent answer:\n")
	b.WriteString(in.Answer.ForMarking())
	return b.String()
}

// buildExplainMessage constructs the user message for an explanation request.
func buildExplainMessage(q *exam.Question, ans exam.Answer, fb *exam.Feedback) string {
	var b strings.Builder
	b.WriteString(questionBlock(q, ""))
	b.WriteString("\nStudent answer:\n")
	b.WriteString(ans.ForMarking())
	fmt.Fprintf(&b, "\nScore awarded: %d/%d\n", fb.Score, fb.TotalMarks)
	fmt.Fprintf(&b, "Feedback given:\n%s\n", fb.Text)
	b.WriteString("\nExplain this feedback.")
	return b.String()
}
