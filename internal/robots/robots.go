// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package robots evaluates a site's robots.txt policy before fetching.
// Retrieval failures fail open: an unreachable policy means no restriction.
package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// Gate checks robots.txt rules for a fixed identifying agent.
type Gate struct {
	// Client issues the policy fetch. http.DefaultClient when nil.
	Client *http.Client

	// UserAgent is the agent name evaluated against the policy's groups
	// and sent as the User-Agent header on the policy fetch.
	UserAgent string
}

// CanFetch reports whether targetURL may be fetched under the policy at
// siteRoot's /robots.txt. The policy is fetched fresh on every call. Any
// transport failure, non-200 status, or parse failure permits the fetch.
func (g *Gate) CanFetch(ctx context.Context, siteRoot, targetURL string) bool {
	root, err := url.Parse(siteRoot)
	if err != nil {
		return true
	}
	policyURL := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, policyURL, nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", g.UserAgent)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return true
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return true
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true
	}

	policy, err := robotstxt.FromBytes(body)
	if err != nil {
		return true
	}

	target, err := url.Parse(targetURL)
	if err != nil {
		return true
	}
	path := target.Path
	if path == "" {
		path = "/"
	}
	if target.RawQuery != "" {
		path += "?" + target.RawQuery
	}

	return policy.FindGroup(g.UserAgent).Test(path)
}
