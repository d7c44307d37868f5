package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sectionpaths/internal/config"
	"sectionpaths/internal/errors"
)

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize sectionpaths configuration",
	Long:  "Creates a .sectionpaths/ directory with default configuration at the project root",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes existing .sectionpaths directory)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dotDir := filepath.Join(rootFlag, config.DotDir)
	if _, statErr := os.Stat(dotDir); statErr == nil {
		if !initForce {
			// Idempotent behavior: already initialized is success
			fmt.Println("sectionpaths already initialized.")
			fmt.Printf("Configuration at: %s\n", filepath.Join(dotDir, "config.json"))
			fmt.Println("\nRun 'sectionpaths init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(dotDir); removeErr != nil {
			return errors.New(errors.InternalError, "removing existing dot directory", removeErr)
		}
	}

	cfg := config.DefaultSettings()
	if err := cfg.Save(rootFlag); err != nil {
		return err
	}

	fmt.Println("sectionpaths initialized.")
	fmt.Printf("Configuration at: %s\n", filepath.Join(dotDir, "config.json"))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Configure bundles in config.json (bundle -> vocabulary mapping)")
	fmt.Println("  2. Run 'sectionpaths seed' to load fixture data, or wire your own entities")
	fmt.Println("  3. Run 'sectionpaths regenerate' to build aliases")
	return nil
}
