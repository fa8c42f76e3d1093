// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score turns collected pages and a criteria selection into a
// Scorecard via one model call. The response parser is deliberately
// tolerant: the producer is probabilistic and violates its schema, so
// individual malformed records are dropped and malformed numbers fall
// back to defaults, while a response that is not JSON at all yields no
// scorecard.
package score

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/vendorscore/internal/textutil"
	"github.com/pdiddy/vendorscore/pkg/types"
)

// Backend abstracts the language-model API so tests can supply a canned
// implementation. Model identity and sampling temperature are fixed at
// backend construction.
type Backend interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Preconditions surfaced before any network activity.
var (
	ErrNoAPIKey   = errors.New("no API credential supplied")
	ErrNoCriteria = errors.New("no criteria selected")
)

// Engine scores one company per call.
type Engine struct {
	Backend Backend
	Cfg     types.ScoringConfig
}

// NewEngine builds an Engine with config defaults applied.
func NewEngine(backend Backend, cfg types.ScoringConfig) *Engine {
	if cfg.PageCharBudget <= 0 {
		cfg.PageCharBudget = types.DefaultPageCharBudget
	}
	if cfg.CorpusCharBudget <= 0 {
		cfg.CorpusCharBudget = types.DefaultCorpusCharBudget
	}
	return &Engine{Backend: backend, Cfg: cfg}
}

// Score builds the rubric-constrained prompt from the collected pages,
// invokes the backend once, and parses the response into a Scorecard.
// Missing credential or empty criteria return before any network call.
// Backend and parse failures return an error the caller reports as
// "no scorecard produced"; no retry happens at this layer.
func (e *Engine) Score(ctx context.Context, pages []types.Page, criteria []types.CriterionDef) (*types.Scorecard, error) {
	if e.Cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if len(criteria) == 0 {
		return nil, ErrNoCriteria
	}

	corpus := e.buildCorpus(pages)

	system, user, err := renderPrompts(corpus, criteria)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := e.Backend.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}

	card, err := parseScorecard(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}
	return card, nil
}

// buildCorpus converts each page to text, truncates it to the per-page
// budget, prefixes its source URL, joins pages with blank lines, and
// truncates the whole corpus to the overall budget.
func (e *Engine) buildCorpus(pages []types.Page) string {
	chunks := make([]string, 0, len(pages))
	for _, p := range pages {
		text := truncate(textutil.HTMLToText(p.Content), e.Cfg.PageCharBudget)
		chunks = append(chunks, "URL: "+p.URL+"\n"+text)
	}
	return truncate(strings.Join(chunks, "\n\n"), e.Cfg.CorpusCharBudget)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// parseScorecard decodes the raw model response as an untyped JSON
// document and applies the lenient coercion rules. Top-level parse
// failure is fatal; per-criterion failures drop the entry only.
func parseScorecard(raw string) (*types.Scorecard, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}

	card := &types.Scorecard{
		OverallScore:   toFloat(doc["overall_score"], 0),
		Coverage:       toFloat(doc["coverage"], 0),
		Confidence:     toFloat(doc["confidence"], 0),
		CategoryScores: map[string]float64{},
	}

	if rawScores, ok := doc["category_scores"].(map[string]any); ok {
		for category, v := range rawScores {
			card.CategoryScores[category] = toFloat(v, 0)
		}
	}

	if rawCriteria, ok := doc["criteria"].([]any); ok {
		for _, entry := range rawCriteria {
			if c, ok := convertCriterion(entry); ok {
				card.Criteria = append(card.Criteria, c)
			}
		}
	}

	if rawFlags, ok := doc["flags"].([]any); ok {
		for _, f := range rawFlags {
			if s, ok := f.(string); ok {
				card.Flags = append(card.Flags, s)
			}
		}
	}

	// has_public_info only triggers when the model said false explicitly.
	noPublicInfo := false
	if v, ok := doc["has_public_info"].(bool); ok && !v {
		noPublicInfo = true
	}

	englishSupport := "unknown"
	if v, ok := doc["english_support"].(string); ok {
		englishSupport = strings.ToLower(v)
	}

	if noPublicInfo {
		if !card.HasFlag(types.FlagNoPublicInfo) {
			card.Flags = append(card.Flags, types.FlagNoPublicInfo)
		}
		// Evidence-free numbers are never trusted: zero everything the
		// model claimed.
		card.OverallScore = 0
		card.Coverage = 0
		card.Confidence = 0
		card.CategoryScores = map[string]float64{}
		card.Criteria = nil
	}

	if englishSupport == "no" && !card.HasFlag(types.FlagNoEnglishSupport) {
		card.Flags = append(card.Flags, types.FlagNoEnglishSupport)
	}

	return card, nil
}

// convertCriterion converts one criteria array entry. Entries that are
// not JSON objects cannot be converted and are dropped; within an object,
// malformed fields fall back to defaults.
func convertCriterion(entry any) (types.CriterionScore, bool) {
	obj, ok := entry.(map[string]any)
	if !ok {
		return types.CriterionScore{}, false
	}
	return types.CriterionScore{
		CriterionID: toString(obj["id"], "unknown"),
		Name:        toString(obj["name"], ""),
		Category:    toString(obj["category"], ""),
		Score:       toFloat(obj["score"], 0),
		MaxScore:    toFloat(obj["max_score"], 5.0),
		Weight:      toFloat(obj["weight"], 1.0),
		Rationale:   toString(obj["rationale"], ""),
	}, true
}

// toFloat coerces a JSON value to float64. Numbers pass through; strings
// are parsed after stripping a trailing percent sign; anything else, or a
// failed parse, yields def.
func toFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return def
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(n, "%", ""))
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return f
		}
		return def
	default:
		return def
	}
}

func toString(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}
