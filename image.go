package rankmdx

import "strings"

// DefaultProductImage is used when neither the page nor the model supplies
// a usable product image.
const DefaultProductImage = "/images/producto-generico.webp"

// placeholderImageMarkers identify thumbnails and lazy-load placeholders.
var placeholderImageMarkers = []string{"-150x150", "placeholder", "data:image", "_thumb"}

// IsPlaceholderImage reports whether src is a thumbnail or placeholder that
// must never be stored as a product image.
func IsPlaceholderImage(src string) bool {
	src = strings.ToLower(strings.TrimSpace(src))
	if src == "" {
		return true
	}
	for _, m := range placeholderImageMarkers {
		if strings.Contains(src, m) {
			return true
		}
	}
	return false
}
