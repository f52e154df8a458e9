package docview

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// Frame is one rendered page, encoded as ANSI half-block rows ready to
// place in the viewer pane.
type Frame struct {
	Page    int
	Scale   float64
	Content string
	Width   int // cells
	Height  int // rows
}

// encodeHalfBlocks downsamples the image to maxWidth cells and encodes
// it two pixel rows per text row using the upper half block glyph, with
// truecolor foreground (top pixel) and background (bottom pixel). The
// context is checked between rows so a superseded render stops early.
func encodeHalfBlocks(ctx context.Context, img image.Image, maxWidth int) (string, int, int, error) {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 || maxWidth <= 0 {
		return "", 0, 0, nil
	}

	width := maxWidth
	if srcW < width {
		width = srcW
	}
	// A terminal cell is roughly twice as tall as wide; half blocks give
	// two pixels per cell, so rows come out near square.
	px := float64(srcW) / float64(width)
	rows := int(float64(srcH) / px / 2)
	if rows < 1 {
		rows = 1
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		if err := ctx.Err(); err != nil {
			return "", 0, 0, ErrRenderCancelled
		}
		for col := 0; col < width; col++ {
			sx := b.Min.X + int(float64(col)*px)
			topY := b.Min.Y + int(float64(row*2)*px)
			botY := b.Min.Y + int(float64(row*2+1)*px)
			if botY >= b.Max.Y {
				botY = b.Max.Y - 1
			}

			tr, tg, tb_, _ := img.At(sx, topY).RGBA()
			br, bg, bb, _ := img.At(sx, botY).RGBA()
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				tr>>8, tg>>8, tb_>>8, br>>8, bg>>8, bb>>8)
		}
		sb.WriteString("\x1b[0m\n")
	}
	return strings.TrimRight(sb.String(), "\n"), width, rows, nil
}
