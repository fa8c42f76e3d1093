// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect resolves a company to a website and crawls the homepage
// plus a bounded set of relevant sub-pages. Fetches are cache-first and
// robots-gated; transport failures degrade to fewer pages, never to errors
// crossing the package boundary.
package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pdiddy/vendorscore/internal/httputil"
	"github.com/pdiddy/vendorscore/internal/textutil"
	"github.com/pdiddy/vendorscore/pkg/types"
)

// PageCache stores fetched page bodies keyed by exact URL.
type PageCache interface {
	GetPage(ctx context.Context, url string) (string, bool, error)
	SavePage(ctx context.Context, url, content string) error
}

// Gate decides whether a URL may be fetched under a site's robots policy.
type Gate interface {
	CanFetch(ctx context.Context, siteRoot, targetURL string) bool
}

// linkKeywords qualify a homepage anchor for discovery when its resolved
// href or visible text contains one of them.
var linkKeywords = []string{
	"about", "services", "solutions", "expertise", "portfolio", "case",
	"clients", "industries", "contact", "careers", "jobs", "security",
	"privacy", "compliance", "certification",
}

// Collector crawls one company site at a time. Construct with New.
type Collector struct {
	Cache  PageCache
	Gate   Gate
	Client *http.Client
	Cfg    types.CollectorConfig

	// Sleep replaces time.Sleep for the inter-request delay. Tests inject
	// a no-op to run deterministically.
	Sleep func(time.Duration)
}

// New builds a Collector with config defaults applied and an HTTP client
// bounded by the configured timeout.
func New(cache PageCache, gate Gate, cfg types.CollectorConfig) *Collector {
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultUserAgent
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = types.DefaultMaxCandidates
	}
	if cfg.MaxDiscovered <= 0 {
		cfg.MaxDiscovered = types.DefaultMaxDiscovered
	}
	if cfg.FetchDelay <= 0 {
		cfg.FetchDelay = types.DefaultFetchDelay
	}
	return &Collector{
		Cache:  cache,
		Gate:   gate,
		Client: &http.Client{Timeout: cfg.Timeout},
		Cfg:    cfg,
	}
}

// NormalizeSiteURL prefixes https:// when the URL carries no scheme.
func NormalizeSiteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return "https://" + raw
	}
	return raw
}

// Collect crawls the site: gate the root, fetch the homepage, discover
// qualifying links, and fetch each discovered link cache-first with the
// configured inter-request delay. extra URLs join the discovered set
// before deduplication. The homepage is always first; discovery order is
// preserved. A disallowed root or unreachable homepage yields no pages.
// Skips and failures are reported as warning lines on w.
func (c *Collector) Collect(ctx context.Context, siteURL string, extra []string, w io.Writer) []types.Page {
	root := NormalizeSiteURL(siteURL)

	if !c.Gate.CanFetch(ctx, root, root) {
		fmt.Fprintf(w, "robots.txt disallows %s; nothing collected\n", root)
		return nil
	}

	home, err := c.fetchPage(ctx, root)
	if err != nil {
		fmt.Fprintf(w, "warning: homepage fetch failed: %v\n", err)
		return nil
	}
	pages := []types.Page{*home}

	links := c.discoverLinks(root, home.Content)
	links = append(links, extra...)
	links = textutil.DedupeURLs(links)

	for _, link := range links {
		// Gate against the original root; a discovered link's own host is
		// not consulted.
		if !c.Gate.CanFetch(ctx, root, link) {
			fmt.Fprintf(w, "skipped %s (robots.txt)\n", link)
			continue
		}

		c.sleep(c.Cfg.FetchDelay)

		page, err := c.fetchPage(ctx, link)
		if err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
			continue
		}
		pages = append(pages, *page)
	}

	return pages
}

// fetchPage returns the page cache-first: a hit skips the network entirely
// and reports the hit time as FetchedAt. On a miss the body is fetched
// with the identifying User-Agent, persisted under the exact request URL,
// and returned. Transport errors and non-200 statuses are returned as
// errors for the caller to degrade on.
func (c *Collector) fetchPage(ctx context.Context, pageURL string) (*types.Page, error) {
	// A cache read failure is treated as a miss.
	if content, ok, err := c.Cache.GetPage(ctx, pageURL); err == nil && ok {
		return &types.Page{URL: pageURL, Content: content, FetchedAt: time.Now().UTC()}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pageURL, err)
	}

	if err := c.Cache.SavePage(ctx, pageURL, string(body)); err != nil {
		return nil, fmt.Errorf("caching %s: %w", pageURL, err)
	}

	return &types.Page{URL: pageURL, Content: string(body), FetchedAt: time.Now().UTC()}, nil
}

// discoverLinks collects homepage anchors whose resolved href or visible
// text, lowercased, contains a discovery keyword. Bare in-page fragment
// anchors are excluded. Results are deduplicated and capped.
func (c *Collector) discoverLinks(baseURL, body string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if link, ok := qualifyAnchor(base, n); ok {
				links = append(links, link)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	links = textutil.DedupeURLs(links)
	if len(links) > c.Cfg.MaxDiscovered {
		links = links[:c.Cfg.MaxDiscovered]
	}
	return links
}

// qualifyAnchor resolves the anchor's href against base and reports
// whether it matches a discovery keyword.
func qualifyAnchor(base *url.URL, n *html.Node) (string, bool) {
	href := attrValue(n, "href")
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref).String()

	label := strings.ToLower(resolved + " " + anchorText(n))
	for _, kw := range linkKeywords {
		if strings.Contains(label, kw) {
			return resolved, true
		}
	}
	return "", false
}

// anchorText returns the collapsed visible text under the anchor node.
func anchorText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return textutil.CollapseWhitespace(b.String())
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func (c *Collector) sleep(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}
