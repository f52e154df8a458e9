package docview

import (
	"errors"
	"fmt"
)

// ErrRenderCancelled signals that a newer render superseded this one.
// It is control flow, not a failure; callers drop the result silently.
var ErrRenderCancelled = errors.New("render cancelled")

// ErrDocumentLoad reports a byte stream that could not be parsed as a
// document. Non-fatal to the session; the viewer stays blank.
type ErrDocumentLoad struct {
	Name string
	Err  error
}

func (e *ErrDocumentLoad) Error() string {
	return fmt.Sprintf("load document %q: %v", e.Name, e.Err)
}

func (e *ErrDocumentLoad) Unwrap() error {
	return e.Err
}

// ErrPageOutOfRange reports a page outside [1, NumPages].
type ErrPageOutOfRange struct {
	Page  int
	Pages int
}

func (e *ErrPageOutOfRange) Error() string {
	return fmt.Sprintf("page %d out of range [1, %d]", e.Page, e.Pages)
}
