// Package app wires the screens, the store and the AI services into the
// root Bubble Tea model.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/devikam/paperprep/internal/extract"
	"github.com/devikam/paperprep/internal/marking"
	"github.com/devikam/paperprep/internal/router"
	"github.com/devikam/paperprep/internal/screen"
	"github.com/devikam/paperprep/internal/screens/summary"
	"github.com/devikam/paperprep/internal/screens/upload"
	"github.com/devikam/paperprep/internal/store"
	"github.com/devikam/paperprep/internal/ui/layout"
)

// Options carries everything the app needs to run a session.
type Options struct {
	SnapshotRepo store.SnapshotRepo
	EventRepo    store.EventRepo
	Extractor    *extract.Service
	Marker       *marking.Service

	// CredErr is non-nil when no AI provider could be configured. The
	// upload screen shows it and blocks starting.
	CredErr error

	PaperPath  string
	InsertPath string
	SchemePath string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel creates the model with the upload screen mounted.
func newAppModel(opts Options) AppModel {
	return AppModel{
		opts:   opts,
		router: router.New(newUploadScreen(opts)),
	}
}

func newUploadScreen(opts Options) screen.Screen {
	return upload.New(opts.Extractor, opts.Marker, opts.SnapshotRepo, opts.EventRepo,
		opts.CredErr, opts.PaperPath, opts.InsertPath, opts.SchemePath)
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Screens size their panes off this too.
		return m, m.router.Update(msg)

	case summary.RestartMsg:
		// Hard reset: discard the whole stack and start a fresh session
		// over the same documents.
		return m, m.router.Update(router.ReplaceScreenMsg{Screen: newUploadScreen(m.opts)})

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}
	status := ""
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			footerHints = hints
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program. Mouse reporting is on for the graph
// drawing canvas.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
