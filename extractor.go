package rankmdx

import "time"

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// Excerpt is the page description, if the page declares one.
	Excerpt string

	// Image is the page's hero image URL, if any.
	Image string

	// PublishDate is the publication date found in metadata, or zero.
	PublishDate time.Time

	// ContentHTML is the dominant content block as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// ContentExtractor isolates the dominant content block of a page.
type ContentExtractor interface {
	// Extract processes raw HTML and returns the main content.
	// pageURL is used to resolve relative links and images.
	// Returns EINVALID when no dominant content block is found.
	Extract(html, pageURL string) (*ExtractResult, error)
}
