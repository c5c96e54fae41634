package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mktcontext/internal/job"
	"mktcontext/internal/runner"
)

// resolveJob finds a job by full ID or unique short-ID prefix.
func resolveJob(ref string) (*job.Job, error) {
	if j := registry.Get(ref); j != nil {
		return j, nil
	}

	var match *job.Job
	for _, j := range registry.List() {
		if len(ref) >= 4 && len(ref) <= len(j.ID) && j.ID[:len(ref)] == ref {
			if match != nil {
				return nil, fmt.Errorf("job ID prefix %q is ambiguous", ref)
			}
			match = j
		}
	}
	if match == nil {
		return nil, fmt.Errorf("job %s not found", ref)
	}
	return match, nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs created in this session",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs := registry.List()
		if len(jobs) == 0 {
			fmt.Println("No jobs in this session.")
			return nil
		}
		fmt.Println(renderJobTable(jobs))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show a job's status, result and iteration history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := resolveJob(args[0])
		if err != nil {
			return err
		}
		fmt.Println(renderJobDetail(j))
		fmt.Println(renderIterations(j.Iterations))
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <job-id> [path]",
	Short: "Write a job's final commentary to a text file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := resolveJob(args[0])
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 2 {
			path = args[1]
		}
		written, err := runner.Export(j, path)
		if err != nil {
			return err
		}
		fmt.Printf("Saved to %s\n", written)
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <job-id>",
	Short: "Cancel a pending or running job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := resolveJob(args[0])
		if err != nil {
			return err
		}
		if !registry.Cancel(j.ID) {
			return fmt.Errorf("job %s is %s and cannot be cancelled", j.ShortID(), j.Status)
		}
		fmt.Printf("Cancelled job %s\n", j.ShortID())
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Remove a job from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := resolveJob(args[0])
		if err != nil {
			return err
		}
		registry.Delete(j.ID)
		fmt.Printf("Deleted job %s\n", j.ShortID())
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show job counts by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(renderSummary(registry.Summary()))
		return nil
	},
}
