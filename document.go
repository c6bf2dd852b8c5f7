// Package paper implements a backend-agnostic 2-D page graphics model:
// shapes, text layout and images are placed onto pages, and any of the
// pdf, svg or raster back-ends can walk the resulting document to
// produce output.
package paper

// Document owns an ordered list of pages and a global title.
type Document struct {
	Title string
	Pages []*Page
}

func NewDocument(title string) *Document {
	return &Document{Title: title}
}

// AddPage appends and returns a new page of the given size (in points)
// and effective scale k (1 if zero).
func (d *Document) AddPage(width, height, k float64, title string) *Page {
	page := newPage(width, height, k, title)
	d.Pages = append(d.Pages, page)
	return page
}
