// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vendorscore/pkg/types"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Inspect the criteria catalog",
	Long: `Criteria shows the catalog the scoring stage works from: the built-in
set of weighted criteria, or a custom catalog loaded with --criteria-file.`,
}

var criteriaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List criteria with their categories",
	RunE:  runCriteriaList,
}

var criteriaCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the distinct criteria categories",
	RunE:  runCriteriaCategories,
}

func init() {
	criteriaCmd.PersistentFlags().String("criteria-file", "", "YAML criteria catalog (default: built-in catalog)")
	criteriaListCmd.Flags().StringSlice("ids", nil, "restrict to these criterion IDs")
	criteriaListCmd.Flags().StringSlice("categories", nil, "restrict to these categories")

	criteriaCmd.AddCommand(criteriaListCmd)
	criteriaCmd.AddCommand(criteriaCategoriesCmd)
	rootCmd.AddCommand(criteriaCmd)
}

// criteriaFromFlags loads the catalog and applies --ids / --categories
// restrictions. Used by both the criteria and score commands.
func criteriaFromFlags(cmd *cobra.Command) ([]types.CriterionDef, error) {
	defs := types.DefaultCriteria
	if path, _ := cmd.Flags().GetString("criteria-file"); path != "" {
		loaded, err := types.LoadCriteria(path)
		if err != nil {
			return nil, err
		}
		defs = loaded
	}
	if err := types.ValidateCriteria(defs); err != nil {
		return nil, err
	}

	if ids, _ := cmd.Flags().GetStringSlice("ids"); len(ids) > 0 {
		defs = types.SelectCriteria(defs, ids)
	}
	if cats, _ := cmd.Flags().GetStringSlice("categories"); len(cats) > 0 {
		defs = types.FilterByCategory(defs, cats)
	}
	return defs, nil
}

func runCriteriaList(cmd *cobra.Command, args []string) error {
	defs, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%-32s  %-24s  %s\n", "ID", "Category", "Name")
	for _, d := range defs {
		fmt.Fprintf(os.Stdout, "%-32s  %-24s  %s\n", d.ID, d.Category, d.Name)
	}
	fmt.Fprintf(os.Stdout, "\n%d criteria\n", len(defs))
	return nil
}

func runCriteriaCategories(cmd *cobra.Command, args []string) error {
	defs, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}
	for _, c := range types.Categories(defs) {
		fmt.Println(c)
	}
	return nil
}
