// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// CriterionDef is one rubric item definition. The catalog is static: loaded
// at startup and never mutated. Identity is the ID field; Name and Category
// are presentation only.
type CriterionDef struct {
	// ID is the stable identifier, unique across the catalog.
	ID string `json:"id" yaml:"id"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Category groups related criteria.
	Category string `json:"category" yaml:"category"`
}

// DefaultCriteria is the built-in vendor scoring rubric.
var DefaultCriteria = []CriterionDef{
	{ID: "identity_website_quality", Name: "Official website quality", Category: "Identity"},
	{ID: "identity_contact_info", Name: "Contact information presence", Category: "Identity"},
	{ID: "identity_legal_identifiers", Name: "Legal or company identifiers", Category: "Identity"},
	{ID: "identity_brand_consistency", Name: "Branding consistency", Category: "Identity"},
	{ID: "identity_address_presence", Name: "Physical address presence", Category: "Identity"},
	{ID: "identity_leadership_visibility", Name: "Leadership visibility", Category: "Identity"},

	{ID: "history_years_in_business", Name: "Years in business", Category: "History"},
	{ID: "history_founding_story", Name: "Founding story clarity", Category: "History"},
	{ID: "history_milestones", Name: "Milestones or timeline presence", Category: "History"},

	{ID: "scale_headcount", Name: "Headcount or scale signals", Category: "Scale"},
	{ID: "scale_growth", Name: "Growth indicators", Category: "Scale"},
	{ID: "scale_hiring", Name: "Hiring or capacity signals", Category: "Scale"},

	{ID: "capacity_delivery", Name: "Delivery capacity signals", Category: "Capacity"},
	{ID: "capacity_pm", Name: "Project management capacity", Category: "Capacity"},
	{ID: "capacity_qa", Name: "QA or testing capacity", Category: "Capacity"},

	{ID: "tech_stack_clarity", Name: "Tech stack clarity", Category: "Technical"},
	{ID: "tech_stack_breadth", Name: "Technical breadth", Category: "Technical"},
	{ID: "tech_cloud", Name: "Cloud infrastructure experience", Category: "Technical"},
	{ID: "tech_devops", Name: "DevOps maturity signals", Category: "Technical"},
	{ID: "tech_security_tooling", Name: "Security tooling signals", Category: "Technical"},

	{ID: "market_services", Name: "Service offering clarity", Category: "Market"},
	{ID: "market_industry_focus", Name: "Industry focus clarity", Category: "Market"},
	{ID: "market_outsourcing_specialization", Name: "Outsourcing specialization", Category: "Market"},
	{ID: "market_engagement_models", Name: "Engagement model options", Category: "Market"},
	{ID: "market_pricing_transparency", Name: "Pricing transparency", Category: "Market"},
	{ID: "market_timezone_fit", Name: "Timezone or geo fit", Category: "Market"},

	{ID: "reputation_case_studies", Name: "Case studies or portfolio", Category: "Reputation"},
	{ID: "reputation_clients_named", Name: "Named clients or logos", Category: "Reputation"},
	{ID: "reputation_reviews_presence", Name: "Public reviews presence", Category: "Reputation"},
	{ID: "reputation_reviews_sentiment", Name: "Review sentiment signals", Category: "Reputation"},
	{ID: "reputation_press", Name: "Press mentions", Category: "Reputation"},
	{ID: "reputation_awards", Name: "Awards or recognition", Category: "Reputation"},

	{ID: "compliance_certifications", Name: "Security or compliance certifications", Category: "Compliance"},
	{ID: "compliance_security_policy", Name: "Security policy visibility", Category: "Compliance"},
	{ID: "compliance_privacy_policy", Name: "Privacy policy visibility", Category: "Compliance"},
	{ID: "compliance_data_protection", Name: "Data protection statements", Category: "Compliance"},
	{ID: "compliance_ip_protection", Name: "IP or NDA handling", Category: "Compliance"},

	{ID: "operations_methodology", Name: "Delivery methodology", Category: "Operations"},
	{ID: "operations_communication", Name: "Communication practices", Category: "Operations"},
	{ID: "operations_sla", Name: "SLA or response commitments", Category: "Operations"},
	{ID: "operations_onboarding", Name: "Onboarding process clarity", Category: "Operations"},

	{ID: "communication_english", Name: "English support", Category: "Communication"},

	{ID: "stability_financial_signals", Name: "Financial stability signals", Category: "Stability"},
	{ID: "stability_revenue_signals", Name: "Revenue range signals", Category: "Stability"},
	{ID: "stability_client_retention", Name: "Client retention signals", Category: "Stability"},

	{ID: "finance_rate_range", Name: "Rate range visibility", Category: "Finance"},
	{ID: "finance_payment_terms", Name: "Payment terms clarity", Category: "Finance"},

	{ID: "talent_seniority_mix", Name: "Seniority mix signals", Category: "Talent"},
	{ID: "talent_training", Name: "Training or certification programs", Category: "Talent"},

	{ID: "risk_legal", Name: "Legal disputes or negative news", Category: "Risk"},
	{ID: "risk_inconsistencies", Name: "Inconsistencies across sources", Category: "Risk"},
	{ID: "risk_generic_content", Name: "Overly generic or thin content", Category: "Risk"},
}

// ValidateCriteria checks that every definition has a non-empty ID and that
// IDs are unique across the catalog.
func ValidateCriteria(defs []CriterionDef) error {
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("criterion %d: empty id", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate criterion id %q", d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}

// LoadCriteria reads an alternate rubric catalog from a YAML file. The file
// holds a list of {id, name, category} entries.
func LoadCriteria(path string) ([]CriterionDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading criteria file %s: %w", path, err)
	}
	var defs []CriterionDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing criteria file %s: %w", path, err)
	}
	if err := ValidateCriteria(defs); err != nil {
		return nil, fmt.Errorf("criteria file %s: %w", path, err)
	}
	return defs, nil
}

// SelectCriteria returns the definitions whose IDs appear in ids, in
// catalog order. Unknown ids are ignored.
func SelectCriteria(defs []CriterionDef, ids []string) []CriterionDef {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []CriterionDef
	for _, d := range defs {
		if want[d.ID] {
			out = append(out, d)
		}
	}
	return out
}

// FilterByCategory returns the definitions belonging to any of the given
// categories, in catalog order.
func FilterByCategory(defs []CriterionDef, categories []string) []CriterionDef {
	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	var out []CriterionDef
	for _, d := range defs {
		if want[d.Category] {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the distinct categories in catalog order.
func Categories(defs []CriterionDef) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range defs {
		if !seen[d.Category] {
			seen[d.Category] = true
			out = append(out, d.Category)
		}
	}
	return out
}
