package docview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"
)

// fakeRenderer blocks inside RenderPage until released, so tests can
// overlap two renders deterministically.
type fakeRenderer struct {
	pages   int
	started chan struct{}
	release chan struct{}
}

func (f *fakeRenderer) NumPages() int { return f.pages }

func (f *fakeRenderer) RenderPage(page int, scale float64) (image.Image, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(page * 10), G: 100, B: 200, A: 255})
		}
	}
	return img, nil
}

func (f *fakeRenderer) Close() error { return nil }

type renderResult struct {
	frame *Frame
	err   error
}

func TestSurfaceCancelBeforeReplace(t *testing.T) {
	fake := &fakeRenderer{
		pages:   3,
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	surf := NewSurface()
	ctx := context.Background()

	results := make(chan renderResult, 2)
	render := func(page int) {
		frame, err := surf.Render(ctx, fake, Request{Page: page, Scale: 1.0, MaxWidth: 4})
		results <- renderResult{frame, err}
	}

	// First render enters the rasterizer and blocks.
	go render(1)
	<-fake.started

	// Second render begins while the first is still in flight.
	go render(2)
	<-fake.started

	// Release both.
	close(fake.release)

	var cancelled, completed int
	var completedPage int
	for i := 0; i < 2; i++ {
		res := <-results
		switch {
		case errors.Is(res.err, ErrRenderCancelled):
			cancelled++
		case res.err == nil:
			completed++
			completedPage = res.frame.Page
		default:
			t.Fatalf("unexpected error: %v", res.err)
		}
	}

	// Exactly one render completes, and it is the latest.
	if completed != 1 || cancelled != 1 {
		t.Fatalf("completed = %d, cancelled = %d, want 1 and 1", completed, cancelled)
	}
	if completedPage != 2 {
		t.Errorf("completed page = %d, want 2", completedPage)
	}
}

func TestSurfaceSequentialRenders(t *testing.T) {
	fake := &fakeRenderer{pages: 3}
	surf := NewSurface()
	ctx := context.Background()

	for page := 1; page <= 3; page++ {
		frame, err := surf.Render(ctx, fake, Request{Page: page, Scale: 1.0, MaxWidth: 4})
		if err != nil {
			t.Fatalf("render page %d: %v", page, err)
		}
		if frame.Page != page {
			t.Errorf("frame page = %d, want %d", frame.Page, page)
		}
		if !strings.Contains(frame.Content, "▀") {
			t.Error("expected half-block cells in frame content")
		}
	}
}

func TestSurfaceInvalidate(t *testing.T) {
	fake := &fakeRenderer{
		pages:   1,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	surf := NewSurface()

	results := make(chan renderResult, 1)
	go func() {
		frame, err := surf.Render(context.Background(), fake, Request{Page: 1, Scale: 1.0, MaxWidth: 4})
		results <- renderResult{frame, err}
	}()
	<-fake.started

	surf.Invalidate()
	close(fake.release)

	res := <-results
	if !errors.Is(res.err, ErrRenderCancelled) {
		t.Fatalf("err = %v, want ErrRenderCancelled", res.err)
	}

	// The surface accepts new renders after invalidation.
	fake2 := &fakeRenderer{pages: 1}
	frame, err := surf.Render(context.Background(), fake2, Request{Page: 1, Scale: 1.0, MaxWidth: 4})
	if err != nil || frame == nil {
		t.Fatalf("render after invalidate: %v", err)
	}
}

func TestSurfaceClampsPage(t *testing.T) {
	fake := &fakeRenderer{pages: 3}
	surf := NewSurface()

	frame, err := surf.Render(context.Background(), fake, Request{Page: 99, Scale: 1.0, MaxWidth: 4})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if frame.Page != 3 {
		t.Errorf("page = %d, want clamped to 3", frame.Page)
	}

	frame, err = surf.Render(context.Background(), fake, Request{Page: 0, Scale: 1.0, MaxWidth: 4})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if frame.Page != 1 {
		t.Errorf("page = %d, want clamped to 1", frame.Page)
	}
}

func TestEncodeStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	_, _, _, err := encodeHalfBlocks(ctx, img, 8)
	if !errors.Is(err, ErrRenderCancelled) {
		t.Fatalf("err = %v, want ErrRenderCancelled", err)
	}
}

func TestEncodeDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	content, w, h, err := encodeHalfBlocks(context.Background(), img, 4)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// 8px wide at 4 cells is 2px per cell, so 8px tall gives 2 rows.
	if w != 4 || h != 2 {
		t.Errorf("dims = %dx%d, want 4x2", w, h)
	}
	rows := strings.Split(content, "\n")
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
}

func TestClampPageBounds(t *testing.T) {
	fake := &fakeRenderer{pages: 5}
	tests := []struct{ in, want int }{
		{-1, 1}, {0, 1}, {1, 1}, {3, 3}, {5, 5}, {6, 5},
	}
	for _, tt := range tests {
		if got := ClampPage(fake, tt.in); got != tt.want {
			t.Errorf("ClampPage(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSurfaceRenderTimeoutContext(t *testing.T) {
	fake := &fakeRenderer{
		pages:   1,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	surf := NewSurface()
	ctx, cancel := context.WithCancel(context.Background())

	results := make(chan renderResult, 1)
	go func() {
		frame, err := surf.Render(ctx, fake, Request{Page: 1, Scale: 1.0, MaxWidth: 4})
		results <- renderResult{frame, err}
	}()
	<-fake.started

	// Parent cancellation propagates like supersession.
	cancel()
	close(fake.release)

	select {
	case res := <-results:
		if !errors.Is(res.err, ErrRenderCancelled) {
			t.Fatalf("err = %v, want ErrRenderCancelled", res.err)
		}
	case <-time.After(time.Second):
		t.Fatal("render did not finish")
	}
}
