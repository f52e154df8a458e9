// Package docview renders pages of the source documents (paper, insert)
// to terminal raster frames. Each render surface owns at most one
// in-flight render; starting a new one cancels its predecessor first.
package docview

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

// baseDPI is the PDF point density at scale 1.0.
const baseDPI = 72.0

// PageRenderer rasterizes single pages. Implemented by Document; tests
// substitute fakes.
type PageRenderer interface {
	// NumPages returns the page count. Navigation is bounded to
	// [1, NumPages].
	NumPages() int

	// RenderPage rasterizes the 1-based page at the given zoom scale.
	RenderPage(page int, scale float64) (image.Image, error)

	// Close releases the underlying document resources.
	Close() error
}

// Document is a loaded PDF.
type Document struct {
	doc   *fitz.Document
	pages int
}

// LoadDocument parses a PDF from memory. Failure is an *ErrDocumentLoad;
// the caller leaves the viewer blank rather than aborting the session.
func LoadDocument(name string, data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, &ErrDocumentLoad{Name: name, Err: err}
	}
	return &Document{doc: doc, pages: doc.NumPage()}, nil
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.pages
}

// RenderPage rasterizes one page. page is 1-based.
func (d *Document) RenderPage(page int, scale float64) (image.Image, error) {
	if page < 1 || page > d.pages {
		return nil, &ErrPageOutOfRange{Page: page, Pages: d.pages}
	}
	if scale <= 0 {
		scale = 1.0
	}
	img, err := d.doc.ImageDPI(page-1, baseDPI*scale)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Close releases the document.
func (d *Document) Close() error {
	return d.doc.Close()
}

// ClampPage bounds a navigation target to the renderer's page range.
func ClampPage(r PageRenderer, page int) int {
	if page < 1 {
		return 1
	}
	if n := r.NumPages(); page > n {
		return n
	}
	return page
}
