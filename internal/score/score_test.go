// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/vendorscore/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	response string
	err      error
	calls    int
	system   string
	user     string
}

func (m *mockBackend) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.calls++
	m.system = systemPrompt
	m.user = userPrompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func testEngine(backend Backend) *Engine {
	return NewEngine(backend, types.ScoringConfig{
		ModelConfig: types.ModelConfig{Model: "test-model", APIKey: "sk-test"},
	})
}

func testCriteria() []types.CriterionDef {
	return []types.CriterionDef{
		{ID: "identity_contact_info", Name: "Contact information presence", Category: "Identity"},
		{ID: "tech_cloud", Name: "Cloud infrastructure experience", Category: "Technical"},
	}
}

func testPages() []types.Page {
	return []types.Page{
		{URL: "https://acme.example", Content: "<html><body>Acme builds software.</body></html>"},
	}
}

// --- preconditions ---

func TestScoreNoAPIKey(t *testing.T) {
	backend := &mockBackend{}
	e := NewEngine(backend, types.ScoringConfig{})

	_, err := e.Score(context.Background(), testPages(), testCriteria())
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("err = %v, want ErrNoAPIKey", err)
	}
	if backend.calls != 0 {
		t.Errorf("backend called %d times, want 0", backend.calls)
	}
}

func TestScoreNoCriteria(t *testing.T) {
	backend := &mockBackend{}
	e := testEngine(backend)

	_, err := e.Score(context.Background(), testPages(), nil)
	if !errors.Is(err, ErrNoCriteria) {
		t.Fatalf("err = %v, want ErrNoCriteria", err)
	}
	if backend.calls != 0 {
		t.Errorf("backend called %d times without criteria, want 0", backend.calls)
	}
}

// --- prompt construction ---

func TestScorePromptContents(t *testing.T) {
	backend := &mockBackend{response: `{"overall_score": 10}`}
	e := testEngine(backend)

	_, err := e.Score(context.Background(), testPages(), testCriteria())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if !strings.Contains(backend.system, "Use ONLY the provided text") {
		t.Errorf("system prompt missing evidence-only instruction: %q", backend.system)
	}
	for _, want := range []string{
		"- identity_contact_info | Identity | Contact information presence",
		"- tech_cloud | Technical | Cloud infrastructure experience",
		"URL: https://acme.example",
		"Acme builds software.",
		`"english_support": "yes"|"no"|"unknown"`,
	} {
		if !strings.Contains(backend.user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestBuildCorpusBudgets(t *testing.T) {
	e := NewEngine(nil, types.ScoringConfig{PageCharBudget: 10, CorpusCharBudget: 30})

	pages := []types.Page{
		{URL: "https://a.example", Content: strings.Repeat("word ", 100)},
		{URL: "https://b.example", Content: strings.Repeat("word ", 100)},
	}
	corpus := e.buildCorpus(pages)

	if len(corpus) > 30 {
		t.Errorf("corpus length = %d, want <= overall budget 30", len(corpus))
	}
	if !strings.HasPrefix(corpus, "URL: https://a.example\n") {
		t.Errorf("corpus should start with first page's URL line: %q", corpus)
	}
}

// --- backend failure ---

func TestScoreBackendFailure(t *testing.T) {
	backend := &mockBackend{err: errors.New("connection reset")}
	e := testEngine(backend)

	_, err := e.Score(context.Background(), testPages(), testCriteria())
	if err == nil {
		t.Fatal("expected error from backend failure")
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want 1 (no retry at this layer)", backend.calls)
	}
}

func TestScoreNonJSONResponse(t *testing.T) {
	backend := &mockBackend{response: "Sorry, I cannot help with that."}
	e := testEngine(backend)

	if _, err := e.Score(context.Background(), testPages(), testCriteria()); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

// --- parsing ---

func TestParseScorecardWellFormed(t *testing.T) {
	raw := `{
		"overall_score": 64.5,
		"coverage": 0.7,
		"confidence": 0.55,
		"category_scores": {"Identity": 80, "Technical": 50},
		"criteria": [
			{"id": "identity_contact_info", "name": "Contact information presence", "category": "Identity",
			 "score": 4.0, "max_score": 5.0, "weight": 1.0, "rationale": "Address and phone listed."}
		],
		"flags": [],
		"has_public_info": true,
		"english_support": "yes"
	}`

	card, err := parseScorecard(raw)
	if err != nil {
		t.Fatalf("parseScorecard: %v", err)
	}
	if card.OverallScore != 64.5 || card.Coverage != 0.7 || card.Confidence != 0.55 {
		t.Errorf("summary fields = %v/%v/%v", card.OverallScore, card.Coverage, card.Confidence)
	}
	if card.CategoryScores["Identity"] != 80 {
		t.Errorf("CategoryScores[Identity] = %v, want 80", card.CategoryScores["Identity"])
	}
	if len(card.Criteria) != 1 || card.Criteria[0].CriterionID != "identity_contact_info" {
		t.Errorf("criteria = %+v", card.Criteria)
	}
	if len(card.Flags) != 0 {
		t.Errorf("flags = %v, want empty", card.Flags)
	}
}

func TestParseScorecardNoPublicInfoOverrides(t *testing.T) {
	raw := `{
		"overall_score": 88,
		"coverage": 0.9,
		"confidence": 0.8,
		"category_scores": {"Identity": 90},
		"criteria": [{"id": "identity_contact_info", "score": 5}],
		"flags": ["Looks great"],
		"has_public_info": false
	}`

	card, err := parseScorecard(raw)
	if err != nil {
		t.Fatalf("parseScorecard: %v", err)
	}
	if card.OverallScore != 0 || card.Coverage != 0 || card.Confidence != 0 {
		t.Errorf("numeric fields not zeroed: %v/%v/%v", card.OverallScore, card.Coverage, card.Confidence)
	}
	if len(card.CategoryScores) != 0 {
		t.Errorf("category_scores not cleared: %v", card.CategoryScores)
	}
	if len(card.Criteria) != 0 {
		t.Errorf("criteria not cleared: %v", card.Criteria)
	}
	if !card.HasFlag(types.FlagNoPublicInfo) {
		t.Errorf("flags = %v, missing %q", card.Flags, types.FlagNoPublicInfo)
	}
}

func TestParseScorecardNoPublicInfoFlagNotDuplicated(t *testing.T) {
	raw := `{"has_public_info": false, "flags": ["No public information found."]}`

	card, err := parseScorecard(raw)
	if err != nil {
		t.Fatalf("parseScorecard: %v", err)
	}
	count := 0
	for _, f := range card.Flags {
		if f == types.FlagNoPublicInfo {
			count++
		}
	}
	if count != 1 {
		t.Errorf("flag appears %d times, want 1", count)
	}
}

func TestParseScorecardEnglishSupportAdvisory(t *testing.T) {
	raw := `{"overall_score": 42, "english_support": "NO"}`

	card, err := parseScorecard(raw)
	if err != nil {
		t.Fatalf("parseScorecard: %v", err)
	}
	if !card.HasFlag(types.FlagNoEnglishSupport) {
		t.Errorf("flags = %v, missing %q", card.Flags, types.FlagNoEnglishSupport)
	}
	if card.OverallScore != 42 {
		t.Errorf("overall_score = %v, want 42 (english flag is advisory only)", card.OverallScore)
	}
}

func TestParseScorecardDropsUnconvertibleEntries(t *testing.T) {
	raw := `{
		"criteria": [
			{"id": "good", "score": 4, "max_score": 5, "weight": 1, "rationale": "ok"},
			"not an object",
			{"id": "degraded", "score": "n/a", "max_score": "bogus", "weight": null}
		]
	}`

	card, err := parseScorecard(raw)
	if err != nil {
		t.Fatalf("parseScorecard: %v", err)
	}
	if len(card.Criteria) != 2 {
		t.Fatalf("len(criteria) = %d, want 2 (non-object dropped, degraded kept)", len(card.Criteria))
	}
	degraded := card.Criteria[1]
	if degraded.Score != 0 {
		t.Errorf("unconvertible score = %v, want fallback 0", degraded.Score)
	}
	if degraded.MaxScore != 5.0 {
		t.Errorf("unconvertible max_score = %v, want fallback 5.0", degraded.MaxScore)
	}
	if degraded.Weight != 1.0 {
		t.Errorf("missing weight = %v, want fallback 1.0", degraded.Weight)
	}
}

func TestParseScorecardMissingFields(t *testing.T) {
	card, err := parseScorecard(`{}`)
	if err != nil {
		t.Fatalf("parseScorecard: %v", err)
	}
	if card.OverallScore != 0 || len(card.Criteria) != 0 || len(card.Flags) != 0 {
		t.Errorf("empty document should produce zero scorecard: %+v", card)
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		def  float64
		want float64
	}{
		{"number", 3.5, 0, 3.5},
		{"integer-valued number", float64(4), 0, 4},
		{"numeric string", "2.5", 0, 2.5},
		{"percent string", "85%", 0, 85},
		{"padded percent string", " 60 %", 0, 60},
		{"garbage string", "n/a", 1.5, 1.5},
		{"nil", nil, 5.0, 5.0},
		{"bool", true, 2.0, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toFloat(tt.in, tt.def); got != tt.want {
				t.Errorf("toFloat(%v, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
			}
		})
	}
}
