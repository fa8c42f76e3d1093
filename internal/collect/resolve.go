// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/vendorscore/internal/httputil"
	"github.com/pdiddy/vendorscore/internal/textutil"
)

// searchBase is the DuckDuckGo HTML search endpoint. Declared as a var so
// tests can substitute an httptest server.
var searchBase = "https://duckduckgo.com/html/"

// redirectHost marks DuckDuckGo redirect-wrapper links whose uddg query
// parameter carries the true target.
const redirectHost = "duckduckgo.com/l/"

// ResolveCandidates returns ranked candidate site URLs for the company.
// An explicit website short-circuits search and is the sole candidate,
// normalized. Otherwise the company name is searched on the web and up to
// MaxCandidates result links are returned. Search failures yield an empty
// list; surfacing "no results" to the operator is the caller's job.
func (c *Collector) ResolveCandidates(ctx context.Context, name, website string) []string {
	if strings.TrimSpace(website) != "" {
		return []string{NormalizeSiteURL(website)}
	}
	return c.searchCompany(ctx, name)
}

// searchCompany issues a "{name} company website" query against the
// search provider and extracts result links: redirect wrappers unwrapped,
// non-http(s) links dropped, deduplicated, capped.
func (c *Collector) searchCompany(ctx context.Context, name string) []string {
	query := url.Values{"q": {name + " company website"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchBase+"?"+query.Encode(), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil
	}

	var candidates []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			if href := attrValue(n, "href"); href != "" {
				candidates = append(candidates, unwrapRedirect(href))
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	var filtered []string
	for _, href := range candidates {
		parsed, err := url.Parse(href)
		if err != nil || !strings.HasPrefix(parsed.Scheme, "http") {
			continue
		}
		filtered = append(filtered, href)
	}

	filtered = textutil.DedupeURLs(filtered)
	if len(filtered) > c.Cfg.MaxCandidates {
		filtered = filtered[:c.Cfg.MaxCandidates]
	}
	return filtered
}

// unwrapRedirect recovers the true target from a redirect-wrapper link.
// Non-wrapper links pass through unchanged.
func unwrapRedirect(href string) string {
	if !strings.Contains(href, redirectHost) {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// hasClass reports whether the element's class attribute contains name.
func hasClass(n *html.Node, name string) bool {
	for _, class := range strings.Fields(attrValue(n, "class")) {
		if class == name {
			return true
		}
	}
	return false
}
