package search

import (
	"strings"

	"golang.org/x/net/html"
)

// normalizeContent strips any markup the provider left in a result's
// free-text content and bounds it to maxLen runes. Downstream message size
// depends on this bound.
func normalizeContent(content string, maxLen int) string {
	text := stripMarkup(content)
	return truncate(text, maxLen)
}

// stripMarkup extracts visible text from HTML-ish content. Plain text
// passes through with whitespace collapsed.
func stripMarkup(s string) string {
	if !strings.ContainsRune(s, '<') {
		return collapseWhitespace(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(s)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return collapseWhitespace(b.String())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate bounds s to maxLen runes without splitting a rune.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
