// Package examroom is the active exam screen: one question at a time on
// the left, the source document viewer on the right. It owns the submit
// and marking flow, the per-question hint/explain/chat requests, the
// session timer and the snapshot writes that make the session resumable.
package examroom

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/devikam/paperprep/internal/docview"
	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/marking"
	"github.com/devikam/paperprep/internal/router"
	"github.com/devikam/paperprep/internal/screen"
	"github.com/devikam/paperprep/internal/screens/summary"
	"github.com/devikam/paperprep/internal/store"
	"github.com/devikam/paperprep/internal/ui/components"
	"github.com/devikam/paperprep/internal/ui/layout"
)

// questionPaneRatio splits the screen between question and viewer.
const questionPaneRatio = 0.45

// Screen implements screen.Screen for the exam phase.
type Screen struct {
	sess      *exam.Session
	marker    *marking.Service
	snapRepo  store.SnapshotRepo
	eventRepo store.EventRepo

	paperPath  string
	insertPath string
	paperDoc   docview.PageRenderer
	insertDoc  docview.PageRenderer
	paperErr   string
	insertErr  string

	surface *docview.Surface
	frame   *docview.Frame
	viewErr string

	showInsert bool
	page       int
	scale      float64

	widget  answerWidget
	widgetQ string // question ID the widget was built for

	chatOpen  bool
	chatInput components.TextInput
	chatErr   string

	width, height int
	dirty         bool
	quitConfirm   bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)

// New creates the exam room for a session already in the exam phase.
func New(sess *exam.Session, marker *marking.Service, snapRepo store.SnapshotRepo, eventRepo store.EventRepo, paperPath, insertPath string) *Screen {
	s := &Screen{
		sess:       sess,
		marker:     marker,
		snapRepo:   snapRepo,
		eventRepo:  eventRepo,
		paperPath:  paperPath,
		insertPath: insertPath,
		surface:    docview.NewSurface(),
		page:       1,
		scale:      1.0,
		width:      100,
		height:     30,
		chatInput:  components.NewTextInput("Ask about this feedback...", false, 300),
	}
	if q := sess.CurrentQuestion(); q != nil {
		if p := q.SourcePage(); p > 0 {
			s.page = p
		}
	}
	s.rebuildWidget()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(
		s.loadDocsCmd(),
		s.widget.init(),
		timerTick(),
	)
}

func (s *Screen) Title() string {
	return "Exam"
}

// Status feeds the header readout: progress, elapsed time, marks so far.
func (s *Screen) Status() string {
	sum := s.sess.Summarize()
	elapsed := int(s.sess.Elapsed.Seconds())
	pos := s.sess.Current + 1
	if pos > len(s.sess.Questions) {
		pos = len(s.sess.Questions)
	}
	return fmt.Sprintf("Q %d/%d  %02d:%02d  %d/%d marks",
		pos, len(s.sess.Questions),
		elapsed/60, elapsed%60,
		sum.TotalScored, sum.TotalPossible)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Save and exit"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.chatOpen {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Esc", Description: "Close chat"},
		}
	}

	q := s.sess.CurrentQuestion()
	if q != nil && s.sess.Feedbacks[q.ID] != nil {
		return []layout.KeyHint{
			{Key: "N", Description: "Next"},
			{Key: "E", Description: "Explain"},
			{Key: "F", Description: "Follow-up"},
			{Key: "Esc", Description: "Exit"},
		}
	}

	hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
	if s.widget.wantsEnter() {
		hints[0] = layout.KeyHint{Key: "Ctrl+S", Description: "Submit"}
	}
	hints = append(hints,
		layout.KeyHint{Key: "Ctrl+G", Description: "Hint"},
		layout.KeyHint{Key: "Ctrl+K", Description: "Skip"},
		layout.KeyHint{Key: "PgUp/PgDn", Description: "Page"},
		layout.KeyHint{Key: "Esc", Description: "Exit"},
	)
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		s.widget.setSize(s.questionPaneWidth())
		return s, s.renderCmd()

	case docsLoadedMsg:
		return s.handleDocsLoaded(msg)

	case frameMsg:
		return s.handleFrame(msg)

	case markedMsg:
		return s.handleMarked(msg)

	case hintMsg:
		if msg.Err != nil {
			// A failed hint is invisible; the pending flag just clears.
			if sc := s.sess.ScratchFor(msg.QID); sc != nil {
				sc.HintPending = false
			}
			return s, nil
		}
		s.sess.SetHint(msg.QID, msg.Text)
		return s, nil

	case explainMsg:
		if msg.Err != nil {
			if sc := s.sess.ScratchFor(msg.QID); sc != nil {
				sc.ExplainPending = false
			}
			return s, nil
		}
		s.sess.SetExplanation(msg.QID, msg.Text)
		return s, nil

	case chatReplyMsg:
		return s.handleChatReply(msg)

	case timerTickMsg:
		return s.handleTimerTick()

	case snapshotWrittenMsg:
		// Best effort; a failed write retries on the next dirty tick.
		if msg.Err != nil {
			s.dirty = true
		}
		return s, nil

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg:
		if s.widget.wantsMouse() {
			var cmd tea.Cmd
			s.widget, cmd = s.widget.update(msg)
			s.captureAnswer()
			return s, cmd
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			return s, s.saveAndQuit()
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	if s.chatOpen {
		switch key {
		case "esc":
			s.chatOpen = false
			s.chatErr = ""
			return s, nil
		case "enter":
			return s, s.sendChat()
		}
		var cmd tea.Cmd
		s.chatInput, cmd = s.chatInput.Update(msg)
		return s, cmd
	}

	switch key {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "enter":
		if !s.widget.wantsEnter() {
			return s, s.submit()
		}
	case "ctrl+s":
		return s, s.submit()
	case "ctrl+n":
		return s, s.advance(false)
	case "ctrl+k":
		return s, s.advance(true)
	case "ctrl+g":
		return s, s.requestHint()
	case "ctrl+e":
		return s, s.requestExplain()
	case "ctrl+f":
		return s, s.openChat()
	case "ctrl+p":
		return s, s.jumpToSource()
	case "ctrl+o":
		return s, s.toggleDocument()
	case "pgup":
		return s, s.setPage(s.page - 1)
	case "pgdown":
		return s, s.setPage(s.page + 1)
	case "ctrl+up":
		return s, s.setScale(s.scale + 0.25)
	case "ctrl+down":
		return s, s.setScale(s.scale - 0.25)
	}

	// Plain shortcuts once the question is locked and typing is over.
	if q := s.sess.CurrentQuestion(); q != nil && s.sess.Feedbacks[q.ID] != nil {
		switch key {
		case "n":
			return s, s.advance(false)
		case "e":
			return s, s.requestExplain()
		case "f":
			return s, s.openChat()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.widget, cmd = s.widget.update(msg)
	s.captureAnswer()
	return s, cmd
}

// captureAnswer pushes the widget state into the session. Rejected edits
// (locked or marking in flight) leave the session untouched.
func (s *Screen) captureAnswer() {
	q := s.sess.CurrentQuestion()
	if q == nil || q.ID != s.widgetQ {
		return
	}
	if s.sess.SetAnswer(q.ID, s.widget.value()) {
		s.dirty = true
	}
}

// submit routes the current answer: regex auto-verify locally, otherwise
// a marking request keyed by the question ID captured now.
func (s *Screen) submit() tea.Cmd {
	q := s.sess.CurrentQuestion()
	if q == nil {
		return nil
	}
	s.captureAnswer()

	switch s.sess.Submit(q.ID) {
	case exam.SubmitAutoVerified:
		s.widget.lock()
		s.dirty = true
		return s.answerEventCmd(q.ID)

	case exam.SubmitNeedsMarking:
		s.widget.lock()
		return s.markCmd(q.ID)
	}
	return nil
}

// markCmd issues the marking request. Everything the response handler
// needs is captured here; the student may navigate away meanwhile.
func (s *Screen) markCmd(qid string) tea.Cmd {
	q := s.sess.Question(qid)
	in := marking.MarkInput{
		Question:   *q,
		InsertText: s.sess.InsertText,
		Answer:     s.sess.Answers[qid],
	}
	if entry, ok := s.sess.Scheme[qid]; ok {
		in.Scheme = &entry
	}
	marker := s.marker
	return func() tea.Msg {
		fb := marker.Mark(context.Background(), in)
		return markedMsg{QID: qid, FB: fb}
	}
}

func (s *Screen) handleMarked(msg markedMsg) (screen.Screen, tea.Cmd) {
	if !s.sess.ApplyMarking(msg.QID, msg.FB) {
		return s, nil
	}
	s.dirty = true
	if q := s.sess.CurrentQuestion(); q != nil && q.ID == msg.QID {
		s.widget.lock()
	}
	return s, s.answerEventCmd(msg.QID)
}

// answerEventCmd appends the marked-answer event off the update loop.
func (s *Screen) answerEventCmd(qid string) tea.Cmd {
	q := s.sess.Question(qid)
	fb := s.sess.Feedbacks[qid]
	if q == nil || fb == nil {
		return nil
	}
	data := store.AnswerEventData{
		SessionID:    s.sess.ID,
		QuestionID:   q.ID,
		QuestionType: string(q.Type),
		Marks:        q.Marks,
		Score:        fb.Score,
		AutoVerified: fb.AutoVerified,
	}
	repo := s.eventRepo
	return func() tea.Msg {
		_ = repo.AppendAnswerEvent(context.Background(), data)
		return nil
	}
}

// advance moves to the next question, optionally skipping the current
// one. Advancing past the last question ends the exam.
func (s *Screen) advance(skip bool) tea.Cmd {
	q := s.sess.CurrentQuestion()
	if q == nil {
		return nil
	}
	s.captureAnswer()

	if skip {
		s.sess.Skip(q.ID)
	} else {
		s.sess.Next()
	}
	s.dirty = true

	if s.sess.Phase == exam.PhaseSummary {
		return s.finishExam()
	}

	s.chatOpen = false
	s.chatErr = ""
	s.rebuildWidget()
	return tea.Batch(s.widget.init(), s.jumpToSource())
}

// rebuildWidget constructs the capture surface for the current question.
func (s *Screen) rebuildWidget() {
	q := s.sess.CurrentQuestion()
	if q == nil {
		return
	}
	locked := s.sess.Feedbacks[q.ID] != nil
	if sc := s.sess.ScratchFor(q.ID); sc != nil && sc.MarkingPending {
		locked = true
	}
	s.widget = newAnswerWidget(q, s.sess.Answers[q.ID], locked, s.questionPaneWidth())
	s.widgetQ = q.ID
}

// finishExam records the end event, writes the final snapshot and hands
// over to the summary screen.
func (s *Screen) finishExam() tea.Cmd {
	sum := s.sess.Summarize()
	_ = s.eventRepo.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID:     s.sess.ID,
		Action:        "end",
		PaperName:     s.paperName(),
		QuestionCount: len(s.sess.Questions),
		Answered:      sum.Answered,
		ScoredMarks:   sum.TotalScored,
		PossibleMarks: sum.TotalPossible,
		DurationSecs:  int(sum.Elapsed.Seconds()),
	})

	next := summary.New(s.sess, s.snapRepo, s.eventRepo)
	return tea.Batch(
		s.saveSnapshotCmd(),
		func() tea.Msg { return router.PushScreenMsg{Screen: next} },
	)
}

func (s *Screen) requestHint() tea.Cmd {
	q := s.sess.CurrentQuestion()
	if q == nil || s.sess.Feedbacks[q.ID] != nil {
		return nil
	}
	sc := s.sess.ScratchFor(q.ID)
	if sc.HintPending || sc.Hint != "" {
		return nil
	}
	sc.HintPending = true

	qid, question, insert := q.ID, *q, s.sess.InsertText
	marker := s.marker
	return func() tea.Msg {
		text, err := marker.Hint(context.Background(), &question, insert)
		return hintMsg{QID: qid, Text: text, Err: err}
	}
}

func (s *Screen) requestExplain() tea.Cmd {
	q := s.sess.CurrentQuestion()
	if q == nil {
		return nil
	}
	fb := s.sess.Feedbacks[q.ID]
	if fb == nil {
		return nil
	}
	sc := s.sess.ScratchFor(q.ID)
	if sc.ExplainPending || sc.Explanation != "" {
		return nil
	}
	sc.ExplainPending = true

	qid, question, ans, fbCopy := q.ID, *q, s.sess.Answers[q.ID], *fb
	marker := s.marker
	return func() tea.Msg {
		text, err := marker.Explain(context.Background(), &question, ans, &fbCopy)
		return explainMsg{QID: qid, Text: text, Err: err}
	}
}

func (s *Screen) openChat() tea.Cmd {
	q := s.sess.CurrentQuestion()
	if q == nil || s.sess.Feedbacks[q.ID] == nil {
		return nil
	}
	s.chatOpen = true
	s.chatErr = ""
	return s.chatInput.Init()
}

// sendChat appends the student message and issues the follow-up request
// with the thread as it stood before this message.
func (s *Screen) sendChat() tea.Cmd {
	q := s.sess.CurrentQuestion()
	if q == nil {
		return nil
	}
	fb := s.sess.Feedbacks[q.ID]
	text := s.chatInput.Value()
	if fb == nil || text == "" {
		return nil
	}
	sc := s.sess.ScratchFor(q.ID)
	if sc.ChatPending {
		return nil
	}

	history := append([]exam.ChatMessage(nil), s.sess.FollowUps[q.ID]...)
	s.sess.AppendFollowUp(q.ID, exam.ChatMessage{Role: exam.RoleStudent, Text: text})
	sc.ChatPending = true
	s.chatInput.SetValue("")
	s.chatErr = ""
	s.dirty = true

	qid, question, ans, fbCopy := q.ID, *q, s.sess.Answers[q.ID], *fb
	marker := s.marker
	return func() tea.Msg {
		reply, err := marker.FollowUp(context.Background(), &question, ans, &fbCopy, history, text)
		return chatReplyMsg{QID: qid, Text: reply, Err: err}
	}
}

func (s *Screen) handleChatReply(msg chatReplyMsg) (screen.Screen, tea.Cmd) {
	if sc := s.sess.ScratchFor(msg.QID); sc != nil {
		sc.ChatPending = false
	}
	if msg.Err != nil {
		if q := s.sess.CurrentQuestion(); q != nil && q.ID == msg.QID {
			s.chatErr = "Couldn't send. Try again."
		}
		return s, nil
	}
	s.sess.AppendFollowUp(msg.QID, exam.ChatMessage{Role: exam.RoleTutor, Text: msg.Text})
	s.dirty = true
	return s, nil
}

// handleTimerTick advances the clock once per second and flushes any
// pending snapshot write. The tick chain ends with the exam phase.
func (s *Screen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if s.sess.Phase != exam.PhaseExam {
		return s, nil
	}
	s.sess.Elapsed += time.Second

	cmds := []tea.Cmd{timerTick()}
	if s.dirty {
		s.dirty = false
		cmds = append(cmds, s.saveSnapshotCmd())
	}
	return s, tea.Batch(cmds...)
}

func (s *Screen) saveSnapshotCmd() tea.Cmd {
	snap := s.sess.TakeSnapshot(time.Now())
	repo := s.snapRepo
	id := s.sess.ID
	return func() tea.Msg {
		err := repo.Save(context.Background(), id, snap)
		return snapshotWrittenMsg{Err: err}
	}
}

// saveAndQuit writes a final snapshot synchronously so the session can
// be resumed, then exits.
func (s *Screen) saveAndQuit() tea.Cmd {
	snap := s.sess.TakeSnapshot(time.Now())
	_ = s.snapRepo.Save(context.Background(), s.sess.ID, snap)
	return tea.Quit
}

func (s *Screen) paperName() string {
	return baseName(s.paperPath)
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

// errIsCancel reports whether a render error is the silence signal.
func errIsCancel(err error) bool {
	return errors.Is(err, docview.ErrRenderCancelled)
}
