package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sectionpaths/internal/entity"
	"sectionpaths/internal/errors"
)

var lookupLangcode string

var lookupCmd = &cobra.Command{
	Use:   "lookup <path>",
	Short: "Resolve an alias or source path",
	Long: `Resolves in either direction: an argument starting with "/" is treated
as an alias and resolved to its source path, anything else as a source path
(term/<id> or node/<id>) resolved to its alias.

Examples:
  sectionpaths lookup /news/local
  sectionpaths lookup term/7
  sectionpaths lookup node/42 --langcode=de`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupLangcode, "langcode", "en", "Language code to resolve in")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	query := args[0]
	var rec *entity.Alias
	if strings.HasPrefix(query, "/") {
		rec, err = a.aliases.FindByAlias(query, lookupLangcode)
	} else {
		rec, err = a.aliases.FindBySource(query, lookupLangcode)
	}
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Newf(errors.EntityNotFound, "no alias record for %q (%s)", query, lookupLangcode)
	}

	fmt.Printf("Source:   %s\n", rec.Source)
	fmt.Printf("Alias:    %s\n", rec.Alias)
	fmt.Printf("Langcode: %s\n", rec.Langcode)
	return nil
}
