// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for the vendorscore pipeline:
// collected pages, the criterion catalog, scorecards, and per-stage
// configuration.
package types

import "time"

// Page is one fetched web page. Pages are immutable once fetched and are
// cached by exact URL string.
type Page struct {
	// URL is the exact request URL used as the cache key.
	URL string `json:"url" yaml:"url"`

	// Content is the raw HTML body.
	Content string `json:"content" yaml:"content"`

	// FetchedAt records when the body was retrieved. Cache hits report the
	// time of the hit, not the original fetch; display only.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// CriterionScore is one scored rubric item as produced by the scoring
// engine. Never hand-authored.
type CriterionScore struct {
	// CriterionID identifies the rubric item (matches CriterionDef.ID).
	CriterionID string `json:"id" yaml:"id"`

	// Name is the display name echoed by the model.
	Name string `json:"name" yaml:"name"`

	// Category is the rubric grouping echoed by the model.
	Category string `json:"category" yaml:"category"`

	// Score is the awarded score in [0, MaxScore].
	Score float64 `json:"score" yaml:"score"`

	// MaxScore is the scale ceiling, nominally 5.0.
	MaxScore float64 `json:"max_score" yaml:"max_score"`

	// Weight is the criterion weight, nominally in [0.5, 3.0].
	Weight float64 `json:"weight" yaml:"weight"`

	// Rationale is the model's free-text justification.
	Rationale string `json:"rationale" yaml:"rationale"`
}

// Scorecard is the full structured scoring output for one company run.
//
// Invariant: when Flags contains FlagNoPublicInfo, OverallScore, Coverage,
// and Confidence are zero and CategoryScores and Criteria are empty. The
// scoring engine enforces this regardless of what the model returned.
type Scorecard struct {
	// OverallScore is the aggregate score in [0, 100].
	OverallScore float64 `json:"overall_score" yaml:"overall_score"`

	// Coverage is the model-reported fraction of the rubric it had
	// sufficient evidence to address, in [0, 1].
	Coverage float64 `json:"coverage" yaml:"coverage"`

	// Confidence is the model's self-assessed reliability, in [0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// CategoryScores maps rubric category to a score in [0, 100].
	CategoryScores map[string]float64 `json:"category_scores" yaml:"category_scores"`

	// Criteria lists the scored rubric items in model output order.
	Criteria []CriterionScore `json:"criteria" yaml:"criteria"`

	// Flags lists disqualifying or advisory conditions, order preserved.
	Flags []string `json:"flags" yaml:"flags"`
}

// Disqualification and advisory flag values appended by the scoring engine.
const (
	FlagNoPublicInfo     = "No public information found."
	FlagNoEnglishSupport = "No English support."
)

// HasFlag reports whether the scorecard carries the given flag.
func (s *Scorecard) HasFlag(flag string) bool {
	for _, f := range s.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Run is one scoring attempt recorded in the ledger. A run that fails
// before producing a scorecard stays unfinished; that is accepted, not an
// error state.
type Run struct {
	// ID is an opaque collision-resistant identifier (UUID).
	ID string `json:"id" yaml:"id"`

	// CompanyName is the operator-supplied company name.
	CompanyName string `json:"company_name" yaml:"company_name"`

	// Website is the resolved or operator-supplied site, empty if unknown.
	Website string `json:"website,omitempty" yaml:"website,omitempty"`

	// StartedAt is set when the run row is created.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// FinishedAt is nil until a scorecard is produced.
	FinishedAt *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`

	// OverallScore, Coverage, and Confidence are copied from the scorecard
	// when the run finishes.
	OverallScore float64 `json:"overall_score" yaml:"overall_score"`
	Coverage     float64 `json:"coverage" yaml:"coverage"`
	Confidence   float64 `json:"confidence" yaml:"confidence"`

	// Flags are the scorecard flags, serialized as JSON in the ledger.
	Flags []string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// Evidence is one supporting snippet behind an extracted feature.
type Evidence struct {
	SourceURL   string    `json:"source_url" yaml:"source_url"`
	Snippet     string    `json:"snippet" yaml:"snippet"`
	SourceType  string    `json:"source_type" yaml:"source_type"`
	RetrievedAt time.Time `json:"retrieved_at" yaml:"retrieved_at"`
	Confidence  float64   `json:"confidence" yaml:"confidence"`
}

// Feature is a named fact extracted about a company, with evidence.
// Features persist alongside runs but are not consumed by the scoring path.
type Feature struct {
	Name       string     `json:"name" yaml:"name"`
	Value      any        `json:"value" yaml:"value"`
	Confidence float64    `json:"confidence" yaml:"confidence"`
	Evidence   []Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// CompanyResult bundles everything the report writers consume.
type CompanyResult struct {
	CompanyName string    `json:"company_name" yaml:"company_name"`
	Website     string    `json:"website,omitempty" yaml:"website,omitempty"`
	Scorecard   Scorecard `json:"scorecard" yaml:"scorecard"`
	RunID       string    `json:"run_id" yaml:"run_id"`
}
