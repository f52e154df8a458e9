package docview

import (
	"context"
	"sync"
)

// Request describes one page render.
type Request struct {
	Page     int
	Scale    float64
	MaxWidth int // viewer pane width in cells
}

// Surface is a single raster target (paper pane or insert pane). It
// enforces the one-render-per-surface rule: beginning a render cancels
// whatever was in flight, and a superseded render can never deliver a
// frame. Safe for use from render goroutines.
type Surface struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSurface returns an idle surface.
func NewSurface() *Surface {
	return &Surface{}
}

// begin cancels the in-flight render, if any, and registers a new one.
func (s *Surface) begin(parent context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.gen++
	s.cancel = cancel
	return ctx, s.gen
}

// current reports whether gen is still the newest render.
func (s *Surface) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

// Invalidate cancels any in-flight render without starting a new one.
// Used when the surface's document goes away.
func (s *Surface) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// Render rasterizes and encodes one page. Page and scale changes both
// route through here, so either invalidates the previous render. Returns
// ErrRenderCancelled when a newer render superseded this one; callers
// treat that as silence, not failure.
func (s *Surface) Render(parent context.Context, r PageRenderer, req Request) (*Frame, error) {
	ctx, gen := s.begin(parent)

	page := ClampPage(r, req.Page)
	img, err := r.RenderPage(page, req.Scale)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ErrRenderCancelled
	}

	content, w, h, err := encodeHalfBlocks(ctx, img, req.MaxWidth)
	if err != nil {
		return nil, err
	}

	// Commit only if nothing newer started while encoding.
	if !s.current(gen) {
		return nil, ErrRenderCancelled
	}
	return &Frame{
		Page:    page,
		Scale:   req.Scale,
		Content: content,
		Width:   w,
		Height:  h,
	}, nil
}
