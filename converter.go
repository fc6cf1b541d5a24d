package rankmdx

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from a ContentExtractor).
	// Relative links and images are resolved against pageURL.
	Convert(html, pageURL string) (string, error)
}
