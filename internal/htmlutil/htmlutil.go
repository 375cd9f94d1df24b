// Package htmlutil prepares user-supplied article HTML for storage and for
// language-model input.
package htmlutil

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var sanitizePolicy = bluemonday.UGCPolicy()

// Sanitize strips dangerous markup from article content while keeping the
// formatting tags a post editor produces.
func Sanitize(content string) string {
	return sanitizePolicy.Sanitize(content)
}

// ExtractText returns the plain text of an HTML fragment with block elements
// separated by newlines. Non-HTML input passes through unchanged apart from
// whitespace trimming.
func ExtractText(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "<") {
		return trimmed
	}

	doc, err := html.Parse(strings.NewReader(trimmed))
	if err != nil {
		return trimmed
	}

	ignoreTags := map[string]bool{
		"script": true, "style": true, "head": true, "nav": true,
		"footer": true, "aside": true, "form": true, "noscript": true,
	}

	var b strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode && ignoreTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 {
					b.WriteString(" ")
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
		if n.Type == html.ElementNode && isBlockTag(n.Data) && b.Len() > 0 {
			if !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
		}
	}
	traverse(doc)

	return strings.TrimSpace(b.String())
}

func isBlockTag(tag string) bool {
	switch tag {
	case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "blockquote", "pre", "br", "tr":
		return true
	}
	return false
}
