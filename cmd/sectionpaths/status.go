package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusLangcode string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and alias store summary",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusLangcode, "langcode", "en", "Language code to count aliases in")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("Root:                 %s\n", a.root)
	fmt.Printf("Bundles:              %d configured\n", len(a.cfg.Bundles))
	fmt.Printf("Replace on delete:    %v\n", a.cfg.GenerateNodeAliasIfTermEmpty)
	fmt.Printf("Batch term ops:       %v\n", a.cfg.UseBatchForTermOperations)

	vocabularies := make(map[string]bool)
	bundles := make([]string, 0, len(a.cfg.Bundles))
	for bundle := range a.cfg.Bundles {
		bundles = append(bundles, bundle)
	}
	sort.Strings(bundles)
	for _, bundle := range bundles {
		bc := a.cfg.Bundles[bundle]
		fmt.Printf("  %s -> %s (%s)\n", bundle, bc.Vocabulary, bc.Field)
		vocabularies[bc.Vocabulary] = true
	}

	names := make([]string, 0, len(vocabularies))
	for vocab := range vocabularies {
		names = append(names, vocab)
	}
	sort.Strings(names)
	for _, vocab := range names {
		terms, err := a.terms.ByVocabulary(vocab)
		if err != nil {
			return err
		}
		fmt.Printf("Vocabulary %q:        %d terms\n", vocab, len(terms))
	}

	count, err := a.aliases.CountByLangcode(statusLangcode)
	if err != nil {
		return err
	}
	fmt.Printf("Aliases (%s):         %d\n", statusLangcode, count)
	return nil
}
