package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sectionpaths/internal/batch"
)

var (
	regenBatch        bool
	regenVocabularies []string
	regenTimeout      time.Duration
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Regenerate all aliases for configured vocabularies",
	Long: `Walks the root terms of every configured vocabulary and recomputes the
alias of each subtree and its related content.

By default the rebuild runs synchronously. With --batch it goes through a
persisted, resumable job processed in chunks; an interrupted run can be
continued with 'sectionpaths jobs resume <job-id>'.

Examples:
  sectionpaths regenerate
  sectionpaths regenerate --vocabulary=sections
  sectionpaths regenerate --batch`,
	RunE: runRegenerate,
}

func init() {
	regenerateCmd.Flags().BoolVar(&regenBatch, "batch", false, "Run through a resumable background job")
	regenerateCmd.Flags().StringSliceVar(&regenVocabularies, "vocabulary", nil, "Limit to specific vocabularies (repeatable)")
	regenerateCmd.Flags().DurationVar(&regenTimeout, "timeout", 10*time.Minute, "Maximum time to wait for a batch job")
	rootCmd.AddCommand(regenerateCmd)
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	scope := batch.RebuildScope{Vocabularies: regenVocabularies}

	if !regenBatch {
		result, err := a.engine.RebuildSync(context.Background(), scope)
		if err != nil {
			return err
		}
		fmt.Printf("Regenerated %d of %d term trees.\n", result.Processed, result.Total)
		return nil
	}

	job, err := a.engine.QueueRebuild(regenVocabularies)
	if err != nil {
		return err
	}
	fmt.Printf("Queued rebuild job %s\n", job.ID)

	finished, err := a.waitForJob(job.ID, regenTimeout)
	if err != nil {
		return err
	}
	printJob(finished)
	if finished.Status != batch.JobCompleted {
		return fmt.Errorf("job %s ended %s", finished.ID, finished.Status)
	}
	return nil
}
