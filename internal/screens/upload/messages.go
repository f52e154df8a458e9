package upload

import (
	"time"

	"github.com/devikam/paperprep/internal/exam"
	"github.com/devikam/paperprep/internal/extract"
)

// resumeCheckedMsg carries the snapshot lookup done at mount.
type resumeCheckedMsg struct {
	Snap *exam.Snapshot
	Err  error
}

// parsedMsg is sent when the extraction round-trip finishes. Scheme is
// nil when no scheme document was given or its extraction failed.
type parsedMsg struct {
	Result *extract.Result
	Scheme exam.MarkScheme
	Err    error
}

// revealTickMsg drives the progressive question reveal after parsing.
type revealTickMsg time.Time
