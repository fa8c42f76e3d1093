// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil normalizes HTML and URL lists for the collection and
// scoring stages.
package textutil

import (
	"strings"

	"golang.org/x/net/html"
)

// CollapseWhitespace replaces every maximal run of whitespace with a single
// space and trims both ends. Idempotent.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// skippedElements are subtrees whose text must not leak into output.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
}

// HTMLToText extracts the visible text of an HTML document: skipped
// subtrees (script, style, noscript, svg) are removed entirely, remaining
// text nodes are joined by spaces, and whitespace is collapsed. html.Parse
// is error-tolerant, so malformed markup degrades to a best-effort result
// rather than failing.
func HTMLToText(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
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

	return CollapseWhitespace(b.String())
}

// DedupeURLs removes duplicate URLs while preserving first-seen order.
// Two entries are duplicates when their trimmed, lowercased forms match;
// this is string identity, not URL normalization. Empty and
// whitespace-only entries are dropped, and surviving entries are trimmed
// with their first-seen casing kept.
func DedupeURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	var out []string
	for _, u := range urls {
		trimmed := strings.TrimSpace(u)
		key := strings.ToLower(trimmed)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}
