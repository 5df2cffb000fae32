package driven

// DocumentRenderer exposes the paginated source document. Its
// correctness is delegated entirely to the underlying rendering
// library; the core only consumes text, images, and the outline.
type DocumentRenderer interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageText returns the embedded text layer of a page (0-based).
	// May be empty for scanned pages.
	PageText(page int) (string, error)

	// PageImages returns the encoded bytes of every image embedded in
	// a page, in document order.
	PageImages(page int) ([][]byte, error)

	// Outline returns the table of contents, if any.
	Outline() ([]OutlineItem, error)

	// Close releases resources.
	Close() error
}

// OutlineItem is one table-of-contents entry.
type OutlineItem struct {
	// Level is the nesting depth, starting at 1.
	Level int

	// Title is the entry text.
	Title string

	// Page is the 1-based target page.
	Page int
}
