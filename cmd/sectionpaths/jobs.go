package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sectionpaths/internal/batch"
	"sectionpaths/internal/errors"
)

var (
	jobsLimit  int
	jobsStatus string
	jobsType   string
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage background alias jobs",
	Long: `List, inspect, resume and cancel background jobs.

Jobs are used for chunked alias regeneration and deferred node updates.
Interrupted jobs keep a checkpoint and can be resumed.

Examples:
  sectionpaths jobs list
  sectionpaths jobs status <job-id>
  sectionpaths jobs resume <job-id>
  sectionpaths jobs cancel <job-id>`,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent jobs",
	RunE:  runJobsList,
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show details of a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsStatus,
}

var jobsResumeCmd = &cobra.Command{
	Use:   "resume <job-id>",
	Short: "Resume a failed or cancelled job from its checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsResume,
}

var jobsCancelCmd = &cobra.Command{
	Use:   "cancel <job-id>",
	Short: "Cancel a queued or running job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsCancel,
}

func init() {
	jobsListCmd.Flags().IntVar(&jobsLimit, "limit", 20, "Maximum jobs to return")
	jobsListCmd.Flags().StringVar(&jobsStatus, "status", "", "Filter by status (queued, running, completed, failed, cancelled)")
	jobsListCmd.Flags().StringVar(&jobsType, "type", "", "Filter by type (rebuild_aliases, node_alias_update)")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsStatusCmd)
	jobsCmd.AddCommand(jobsResumeCmd)
	jobsCmd.AddCommand(jobsCancelCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	opts := batch.ListJobsOptions{Limit: jobsLimit}
	if jobsStatus != "" {
		opts.Status = []batch.JobStatus{batch.JobStatus(jobsStatus)}
	}
	if jobsType != "" {
		opts.Type = []batch.JobType{batch.JobType(jobsType)}
	}

	resp, err := a.engine.Runner().ListJobs(opts)
	if err != nil {
		return err
	}

	if len(resp.Jobs) == 0 {
		fmt.Println("No jobs found.")
		return nil
	}
	fmt.Printf("%-36s  %-18s  %-10s  %4s  %s\n", "ID", "TYPE", "STATUS", "PROG", "CREATED")
	for _, job := range resp.Jobs {
		fmt.Printf("%-36s  %-18s  %-10s  %3d%%  %s\n",
			job.ID, job.Type, job.Status, job.Progress,
			job.CreatedAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("%d of %d jobs shown.\n", len(resp.Jobs), resp.TotalCount)
	return nil
}

func runJobsStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	job, err := a.engine.Runner().GetJob(args[0])
	if err != nil {
		return err
	}
	if job == nil {
		return errors.Newf(errors.JobNotFound, "job %s not found", args[0])
	}
	printJob(job)
	return nil
}

func runJobsResume(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	job, err := a.engine.Resume(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Resuming job %s from %d%%\n", job.ID, job.Progress)

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

func runJobsCancel(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.engine.Runner().Cancel(args[0]); err != nil {
		return err
	}
	fmt.Printf("Cancelled job %s\n", args[0])
	return nil
}

func printJob(job *batch.Job) {
	fmt.Printf("Job:      %s\n", job.ID)
	fmt.Printf("Type:     %s\n", job.Type)
	fmt.Printf("Status:   %s\n", job.Status)
	fmt.Printf("Progress: %d%%\n", job.Progress)
	fmt.Printf("Created:  %s\n", job.CreatedAt.Local().Format(time.RFC3339))
	if job.StartedAt != nil {
		fmt.Printf("Duration: %s\n", job.Duration().Round(time.Millisecond))
	}
	if job.Error != "" {
		fmt.Printf("Error:    %s\n", job.Error)
	}
	if job.Result != "" {
		fmt.Printf("Result:   %s\n", job.Result)
	}
}
