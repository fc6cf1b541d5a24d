package rankmdx

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlug is used for titles that contain no letters or digits.
const DefaultSlug = "articulo"

// maxSlugLength caps slug length in runes.
const maxSlugLength = 80

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug reports whether s is a well-formed slug.
func IsValidSlug(s string) bool {
	return len(s) <= maxSlugLength && slugPattern.MatchString(s)
}

// Slugify converts a title to a URL slug: accents are folded, letters and
// digits are lowercased, and every other run of characters becomes a
// single hyphen.
func Slugify(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(foldAccents(title)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			prevHyphen = false
		} else if !prevHyphen && sb.Len() > 0 {
			sb.WriteRune('-')
			prevHyphen = true
		}
	}

	slug := truncateSlug(strings.TrimSuffix(sb.String(), "-"), maxSlugLength)
	if slug == "" {
		return DefaultSlug
	}
	return slug
}

// truncateSlug shortens slug to at most n bytes, cutting at a hyphen when
// one is available.
func truncateSlug(slug string, n int) string {
	if len(slug) <= n {
		return slug
	}
	cut := slug[:n]
	if slug[n] != '-' {
		if i := strings.LastIndex(cut, "-"); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimSuffix(cut, "-")
}

// SlugWithSuffix returns the n-th candidate for base: base itself for
// n <= 1, then base-2, base-3 and so on. The base is shortened so the
// candidate stays within the slug length limit.
func SlugWithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	suffix := "-" + strconv.Itoa(n)
	return truncateSlug(base, maxSlugLength-len(suffix)) + suffix
}

// foldAccents strips combining marks, turning "Guía" into "Guia".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
