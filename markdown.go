package rankmdx

import (
	"regexp"
	"strings"
)

var (
	excessBlankLines = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
	adMarkerLine     = regexp.MustCompile(`(?im)^[ \t]*[*_]*(?:publicidad|anuncio|advertisement|sponsored|patrocinado|contenido patrocinado)[*_]*[ \t]*$`)
	creditLine       = regexp.MustCompile(`(?im)^[ \t]*[*_]*(?:fotos?|imagen|imágenes|image|photo|créditos?|credits?|fuente|vía|via)[*_]*[ \t]*:.*$`)
	brokenLinkText   = regexp.MustCompile(`\[([^\[\]\n]*)\n+[ \t]*([^\[\]\n]*)\]\(`)
	brokenLinkTarget = regexp.MustCompile(`\][ \t]*\n+[ \t]*\(`)
	imageCaptionLink = regexp.MustCompile(`\[!\[([^\]]*)\]\([^)]*\)[ \t]*([^\[\]]*)\]\([^)]*\)`)
	boldThenLink     = regexp.MustCompile(`\*\*([^*\n]+)\*\*\n+\[([^\]\n]+)\]\([^)\n]*\)`)
)

// CleanMarkdown applies the fixed sequence of rewrites that removes page
// noise from converted markdown before it is sent to the model.
func CleanMarkdown(md string) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	md = collapseBlankLines(md)
	md = adMarkerLine.ReplaceAllString(md, "")
	md = creditLine.ReplaceAllString(md, "")
	md = mergeBrokenLinks(md)
	md = imageCaptionLink.ReplaceAllStringFunc(md, func(m string) string {
		sub := imageCaptionLink.FindStringSubmatch(m)
		name := strings.TrimSpace(sub[2])
		if name == "" {
			name = strings.TrimSpace(sub[1])
		}
		if name == "" {
			return ""
		}
		return "**" + name + "**"
	})
	md = boldThenLink.ReplaceAllStringFunc(md, func(m string) string {
		sub := boldThenLink.FindStringSubmatch(m)
		if strings.TrimSpace(sub[1]) != strings.TrimSpace(sub[2]) {
			return m
		}
		return "**" + strings.TrimSpace(sub[1]) + "**"
	})
	return strings.TrimSpace(collapseBlankLines(md))
}

func collapseBlankLines(md string) string {
	return excessBlankLines.ReplaceAllString(md, "\n\n")
}

// mergeBrokenLinks rejoins link syntax split across lines by the converter.
func mergeBrokenLinks(md string) string {
	for range 8 {
		next := brokenLinkTarget.ReplaceAllString(md, "](")
		next = brokenLinkText.ReplaceAllString(next, "[$1 $2](")
		if next == md {
			break
		}
		md = next
	}
	return md
}
