// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCriteriaValid(t *testing.T) {
	require.NoError(t, ValidateCriteria(DefaultCriteria))
	assert.Len(t, DefaultCriteria, 52)
	assert.Len(t, Categories(DefaultCriteria), 14)
}

func TestValidateCriteriaDuplicateID(t *testing.T) {
	defs := []CriterionDef{
		{ID: "a", Name: "A", Category: "X"},
		{ID: "a", Name: "A again", Category: "Y"},
	}
	assert.Error(t, ValidateCriteria(defs))
}

func TestValidateCriteriaEmptyID(t *testing.T) {
	assert.Error(t, ValidateCriteria([]CriterionDef{{Name: "no id", Category: "X"}}))
}

func TestLoadCriteria(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	yaml := `
- id: custom_one
  name: Custom one
  category: Custom
- id: custom_two
  name: Custom two
  category: Custom
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	defs, err := LoadCriteria(path)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "custom_one", defs[0].ID)
	assert.Equal(t, "Custom", defs[1].Category)
}

func TestLoadCriteriaMissingFile(t *testing.T) {
	_, err := LoadCriteria(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSelectCriteria(t *testing.T) {
	defs := []CriterionDef{
		{ID: "a", Name: "A", Category: "X"},
		{ID: "b", Name: "B", Category: "X"},
		{ID: "c", Name: "C", Category: "Y"},
	}

	got := SelectCriteria(defs, []string{"c", "a", "nope"})
	require.Len(t, got, 2)
	// Catalog order is preserved, not request order.
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestFilterByCategory(t *testing.T) {
	defs := []CriterionDef{
		{ID: "a", Name: "A", Category: "X"},
		{ID: "b", Name: "B", Category: "Y"},
		{ID: "c", Name: "C", Category: "X"},
	}

	got := FilterByCategory(defs, []string{"X"})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestScorecardHasFlag(t *testing.T) {
	sc := Scorecard{Flags: []string{FlagNoPublicInfo}}
	assert.True(t, sc.HasFlag(FlagNoPublicInfo))
	assert.False(t, sc.HasFlag(FlagNoEnglishSupport))
}
