// Package mupdf renders PDF documents via MuPDF (go-fitz bindings).
package mupdf

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"github.com/campus-labs/examchat/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.DocumentRenderer = (*Renderer)(nil)

// Renderer reads a PDF file through MuPDF.
type Renderer struct {
	doc *fitz.Document
}

// Open loads the document at path.
func Open(path string) (*Renderer, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	return &Renderer{doc: doc}, nil
}

// PageCount returns the number of pages.
func (r *Renderer) PageCount() int {
	return r.doc.NumPage()
}

// PageText returns the embedded text layer of a page.
func (r *Renderer) PageText(page int) (string, error) {
	text, err := r.doc.Text(page)
	if err != nil {
		return "", fmt.Errorf("extracting text from page %d: %w", page, err)
	}
	return text, nil
}

// PageImages renders the page to a single PNG. MuPDF rasterises the
// whole page, which covers scanned documents where the content is one
// full-page image with no text layer.
func (r *Renderer) PageImages(page int) ([][]byte, error) {
	img, err := r.doc.Image(page)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding page %d: %w", page, err)
	}

	return [][]byte{buf.Bytes()}, nil
}

// Outline returns the document's table of contents. Documents without
// bookmarks return an empty slice.
func (r *Renderer) Outline() ([]driven.OutlineItem, error) {
	toc, err := r.doc.ToC()
	if err != nil {
		return nil, fmt.Errorf("reading outline: %w", err)
	}

	items := make([]driven.OutlineItem, 0, len(toc))
	for _, entry := range toc {
		items = append(items, driven.OutlineItem{
			Level: entry.Level,
			Title: entry.Title,
			Page:  entry.Page,
		})
	}
	return items, nil
}

// Close releases the underlying document.
func (r *Renderer) Close() error {
	return r.doc.Close()
}
