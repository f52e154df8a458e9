package examroom

import (
	"time"

	"github.com/devikam/paperprep/internal/docview"
	"github.com/devikam/paperprep/internal/exam"
)

// docsLoadedMsg carries the parsed source documents. A nil renderer with
// a message means that document failed to load; the pane stays blank.
type docsLoadedMsg struct {
	Paper   docview.PageRenderer
	Insert  docview.PageRenderer
	PaperErr  string
	InsertErr string
}

// frameMsg delivers a completed page render for the viewer pane.
type frameMsg struct {
	Frame *docview.Frame
	Err   error
}

// markedMsg delivers marking feedback, keyed by the question ID captured
// at request time, never the current question.
type markedMsg struct {
	QID string
	FB  exam.Feedback
}

// hintMsg delivers a hint response for the captured question.
type hintMsg struct {
	QID  string
	Text string
	Err  error
}

// explainMsg delivers a feedback explanation for the captured question.
type explainMsg struct {
	QID  string
	Text string
	Err  error
}

// chatReplyMsg delivers a follow-up chat reply for the captured question.
type chatReplyMsg struct {
	QID  string
	Text string
	Err  error
}

// timerTickMsg fires once per second while the exam phase is active.
type timerTickMsg time.Time

// snapshotWrittenMsg confirms a snapshot write finished.
type snapshotWrittenMsg struct {
	Err error
}
