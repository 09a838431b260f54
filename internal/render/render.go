// Package render rasterizes PDF pages to PNG for the page picker and for
// per-page extraction. Rendering is deterministic for the same (document,
// page, scale), which makes rendered pages safe to memoize.
package render

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"github.com/oukeidos/scantranslate/internal/cache"
	"github.com/oukeidos/scantranslate/internal/fingerprint"
)

// baseDPI is the PDF point resolution; scale multiplies it.
const baseDPI = 72.0

// DefaultScale matches the 2x zoom the page preview uses.
const DefaultScale = 2.0

// PageRenderer turns PDF bytes into page images.
type PageRenderer interface {
	// PageCount reports the number of pages in the document.
	PageCount(pdf []byte) (int, error)
	// RenderPage rasterizes one zero-based page at the given scale and
	// returns PNG bytes.
	RenderPage(pdf []byte, pageIndex int, scale float64) ([]byte, error)
}

// MuPDFRenderer renders through go-fitz (MuPDF). Rendered pages are cached
// by (document fingerprint, page, scale) so repeated page flips do not
// re-rasterize.
type MuPDFRenderer struct {
	cache *cache.Store[[]byte]
}

// NewMuPDFRenderer returns a caching renderer. A nil store gets a private
// default-capacity cache.
func NewMuPDFRenderer(store *cache.Store[[]byte]) *MuPDFRenderer {
	if store == nil {
		store = cache.New[[]byte](0)
	}
	return &MuPDFRenderer{cache: store}
}

func (r *MuPDFRenderer) PageCount(pdf []byte) (int, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

func (r *MuPDFRenderer) RenderPage(pdf []byte, pageIndex int, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = DefaultScale
	}
	fp := fingerprint.Bytes(pdf)
	qualifier := fmt.Sprintf("page=%d scale=%g", pageIndex, scale)
	if b, ok := r.cache.Get(fp, qualifier); ok {
		return b, nil
	}

	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	if pageIndex < 0 || pageIndex >= doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d)", pageIndex, doc.NumPage())
	}

	img, err := doc.ImageDPI(pageIndex, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageIndex, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", pageIndex, err)
	}

	b := buf.Bytes()
	r.cache.Put(fp, qualifier, b)
	return b, nil
}
