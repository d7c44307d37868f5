package main

import (
	"github.com/spf13/cobra"

	"sectionpaths/internal/version"
)

var (
	// rootFlag is the CLI --root flag value
	rootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "sectionpaths",
	Short: "sectionpaths - hierarchical taxonomy URL alias engine",
	Long: `sectionpaths keeps URL aliases synchronized with a hierarchical taxonomy:
every section term gets an alias mirroring its ancestor chain, every content
item gets an alias under its section, and changes cascade through subtrees
and related content automatically.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("sectionpaths version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Project root holding the .sectionpaths directory")
}
