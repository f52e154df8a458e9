// Package upload is the entry screen: it shows the selected documents,
// checks the AI credential, offers a resume when a snapshot exists, and
// drives the parsing phase with a progressive question reveal.
package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/extract"
	"github.com/devikam/paperprep/internal/marking"
	"github.com/devikam/paperprep/internal/router"
	"github.com/devikam/paperprep/internal/screen"
	"github.com/devikam/paperprep/internal/screens/examroom"
	"github.com/devikam/paperprep/internal/store"
	"github.com/devikam/paperprep/internal/ui/layout"

	"github.com/google/uuid"
)

// revealInterval paces the progressive question reveal. Purely cosmetic;
// the full batch is already parsed.
const revealInterval = 120 * time.Millisecond

// Screen implements screen.Screen for the upload and parsing phases.
type Screen struct {
	extractor *extract.Service
	marker    *marking.Service
	snapRepo  store.SnapshotRepo
	eventRepo store.EventRepo
	credErr   error

	paperPath  string
	insertPath string
	schemePath string

	sess     *exam.Session
	resume   *exam.Snapshot
	parsed   *parsedMsg
	revealed int
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the upload screen. credErr is non-nil when no provider
// could be configured; starting a session is then blocked.
func New(extractor *extract.Service, marker *marking.Service, snapRepo store.SnapshotRepo, eventRepo store.EventRepo, credErr error, paperPath, insertPath, schemePath string) *Screen {
	return &Screen{
		extractor:  extractor,
		marker:     marker,
		snapRepo:   snapRepo,
		eventRepo:  eventRepo,
		credErr:    credErr,
		paperPath:  paperPath,
		insertPath: insertPath,
		schemePath: schemePath,
		sess:       exam.NewSession(uuid.New().String()),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.checkResume()
}

func (s *Screen) Title() string {
	if s.sess.Phase == exam.PhaseParsing {
		return "Parsing paper"
	}
	return "New session"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.sess.Phase == exam.PhaseParsing {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Start"}}
	if s.resume.Resumable() {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Resume saved session"})
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resumeCheckedMsg:
		if msg.Err == nil && msg.Snap.Resumable() {
			s.resume = msg.Snap
		}
		return s, nil

	case parsedMsg:
		return s.handleParsed(msg)

	case revealTickMsg:
		return s.handleRevealTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.sess.Phase == exam.PhaseParsing {
		return s, nil
	}

	switch msg.String() {
	case "enter", "s":
		return s.startParsing()
	case "r":
		if s.resume.Resumable() {
			return s.startResume()
		}
	}
	return s, nil
}

// startParsing validates preconditions and kicks off extraction.
func (s *Screen) startParsing() (screen.Screen, tea.Cmd) {
	if s.credErr != nil {
		s.errMsg = fmt.Sprintf("No AI credential configured: %v", s.credErr)
		return s, nil
	}
	if s.paperPath == "" {
		s.errMsg = "No paper selected. Pass the paper PDF to `paperprep sit`."
		return s, nil
	}

	s.errMsg = ""
	s.sess.BeginParsing()
	return s, s.parseCmd()
}

// parseCmd reads the documents and runs extraction off the event loop.
// The mark scheme is a second, best-effort call; its failure never
// aborts the primary flow.
func (s *Screen) parseCmd() tea.Cmd {
	paperPath, insertPath, schemePath := s.paperPath, s.insertPath, s.schemePath
	extractor := s.extractor
	return func() tea.Msg {
		paper, err := os.ReadFile(paperPath)
		if err != nil {
			return parsedMsg{Err: fmt.Errorf("read paper: %w", err)}
		}
		var insert []byte
		if insertPath != "" {
			if insert, err = os.ReadFile(insertPath); err != nil {
				return parsedMsg{Err: fmt.Errorf("read insert: %w", err)}
			}
		}

		ctx := context.Background()
		result, err := extractor.ExtractPaper(ctx, extract.Input{
			PaperName: filepath.Base(paperPath),
			Paper:     paper,
			Insert:    insert,
		})
		if err != nil {
			return parsedMsg{Err: err}
		}

		var scheme exam.MarkScheme
		if schemePath != "" {
			if data, rerr := os.ReadFile(schemePath); rerr == nil {
				scheme, _ = extractor.ExtractScheme(ctx, data)
			}
		}

		return parsedMsg{Result: result, Scheme: scheme}
	}
}

func (s *Screen) handleParsed(msg parsedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		// Back to upload; partial side effects are discarded.
		s.sess.FailParsing()
		s.errMsg = fmt.Sprintf("Extraction failed: %v", msg.Err)
		return s, nil
	}

	if err := s.sess.InstallQuestions(msg.Result.Questions, msg.Scheme, msg.Result.InsertText); err != nil {
		s.sess.FailParsing()
		s.errMsg = fmt.Sprintf("Extraction failed: %v", err)
		return s, nil
	}

	s.parsed = &msg
	s.revealed = 0
	return s, revealTick()
}

func (s *Screen) handleRevealTick() (screen.Screen, tea.Cmd) {
	if s.parsed == nil {
		return s, nil
	}
	s.revealed++
	if s.revealed < len(s.sess.Questions) {
		return s, revealTick()
	}
	return s, s.enterExam("start")
}

// startResume rebuilds the session from the snapshot and goes straight
// to the exam room.
func (s *Screen) startResume() (screen.Screen, tea.Cmd) {
	s.sess = exam.Restore(uuid.New().String(), s.resume)
	return s, s.enterExam("resume")
}

// enterExam records the session event and pushes the exam room.
func (s *Screen) enterExam(action string) tea.Cmd {
	_ = s.eventRepo.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID:     s.sess.ID,
		Action:        action,
		PaperName:     filepath.Base(s.paperPath),
		QuestionCount: len(s.sess.Questions),
	})

	room := examroom.New(s.sess, s.marker, s.snapRepo, s.eventRepo, s.paperPath, s.insertPath)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: room}
	}
}

// checkResume looks for a saved snapshot at mount.
func (s *Screen) checkResume() tea.Cmd {
	repo := s.snapRepo
	return func() tea.Msg {
		snap, err := repo.Latest(context.Background())
		return resumeCheckedMsg{Snap: snap, Err: err}
	}
}

func revealTick() tea.Cmd {
	return tea.Tick(revealInterval, func(t time.Time) tea.Msg {
		return revealTickMsg(t)
	})
}
