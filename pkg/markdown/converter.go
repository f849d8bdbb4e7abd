package markdown

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// Models occasionally format cultural notes with markdown (bold terms,
// bullet lists). The web client renders HTML, so notes are converted and
// stripped down to a small tag whitelist before they leave the API.

var (
	paragraphRe    = regexp.MustCompile(`<p>(.*?)</p>`)
	codeBlockRe    = regexp.MustCompile(`<pre><code(?: class="[^"]*")?>(.*?)</code></pre>`)
	tagRe          = regexp.MustCompile(`</?([a-zA-Z]+)(?:\s[^>]*)?>`)
	tagNameRe      = regexp.MustCompile(`</?([a-zA-Z]+)`)
	extraNewlineRe = regexp.MustCompile(`\n{3,}`)
)

var allowedTags = []string{"b", "i", "u", "s", "code", "pre", "br", "ul", "ol", "li"}

// NotesToHTML converts model-produced markdown notes to sanitized HTML.
func NotesToHTML(notes string) string {
	if notes == "" {
		return ""
	}

	html := string(blackfriday.Run([]byte(notes), blackfriday.WithExtensions(blackfriday.CommonExtensions)))

	return sanitize(html)
}

func sanitize(html string) string {
	html = paragraphRe.ReplaceAllString(html, "$1\n")

	html = strings.ReplaceAll(html, "<strong>", "<b>")
	html = strings.ReplaceAll(html, "</strong>", "</b>")
	html = strings.ReplaceAll(html, "<em>", "<i>")
	html = strings.ReplaceAll(html, "</em>", "</i>")

	html = codeBlockRe.ReplaceAllString(html, "<pre>$1</pre>")

	// Drop everything outside the whitelist, keeping inner text
	html = tagRe.ReplaceAllStringFunc(html, func(match string) string {
		tagMatch := tagNameRe.FindStringSubmatch(match)
		if len(tagMatch) > 1 {
			for _, allowed := range allowedTags {
				if tagMatch[1] == allowed {
					return match
				}
			}
		}
		return ""
	})

	html = extraNewlineRe.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
