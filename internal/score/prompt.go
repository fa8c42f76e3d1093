// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/vendorscore/pkg/types"
)

// systemPrompt pins the model to evidence-only scoring and a JSON-only
// response.
const systemPrompt = "You are a strict analyst scoring outsourcing vendors. " +
	"Use ONLY the provided text. Do not assume or invent. " +
	"If evidence is missing, score low and reduce coverage/confidence. " +
	"Return ONLY valid JSON."

// userPromptTmpl lists the selected criteria and the exact response shape
// expected, then appends the collected corpus.
var userPromptTmpl = template.Must(template.New("score").Parse(`Score the company using the criteria list below. Use float scores.

Criteria (score 0-5 each, 5 is best; weight 0.5-3.0):
{{- range .Criteria}}
- {{.ID}} | {{.Category}} | {{.Name}}
{{- end}}

Return JSON in this schema:
{
  "overall_score": float (0-100),
  "coverage": float (0-1),
  "confidence": float (0-1),
  "category_scores": {"Category": float (0-100), ...},
  "criteria": [
    {"id": string, "name": string, "category": string, "score": float (0-5), "max_score": 5.0, "weight": float, "rationale": string}
  ],
  "flags": [string],
  "has_public_info": bool,
  "english_support": "yes"|"no"|"unknown"
}

Only include criteria that are listed above. Do not add new criteria.

If there is not enough public information, set has_public_info=false, overall_score=0, coverage=0, confidence=0, and include flag "No public information found."

Text:
{{.Corpus}}
`))

// renderPrompts produces the system and user prompt segments for one
// scoring call.
func renderPrompts(corpus string, criteria []types.CriterionDef) (system, user string, err error) {
	var buf bytes.Buffer
	data := struct {
		Criteria []types.CriterionDef
		Corpus   string
	}{criteria, corpus}
	if err := userPromptTmpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return systemPrompt, buf.String(), nil
}
