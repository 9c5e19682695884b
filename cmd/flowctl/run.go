package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/flowctl/flowctl/internal/ferrors"
	"github.com/flowctl/flowctl/internal/jobctl"
	"github.com/flowctl/flowctl/internal/signal"
	"github.com/spf13/cobra"
)

var runSuffix string

var runCmd = &cobra.Command{
	Use:   "run <job-id> [-- args...]",
	Short: "Attach to a live instance, restart a terminated one, or launch fresh",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSuffix, "suffix", "", "multi-job instance suffix")
}

func runRun(cmd *cobra.Command, args []string) error {
	jobID := args[0]
	extra := args[1:]
	if idx := cmd.ArgsLenAtDash(); idx >= 0 {
		extra = args[idx:]
	}

	c, proj, err := newController()
	if err != nil {
		return err
	}
	defer proj.Close()

	err = c.Run(cmd.Context(), jobID, runSuffix, extra)
	if errors.Is(err, context.Canceled) {
		signal.PrintCancellationMessage(jobID)
		return nil
	}
	var pending *jobctl.PendingExit
	if errors.As(err, &pending) {
		fmt.Fprintf(os.Stderr, "job %q is pending\n", pending.JobID)
		os.Exit(2)
	}
	var unknown *ferrors.UnknownEntity
	if errors.As(err, &unknown) {
		exitAvailableJobs(c)
	}
	return err
}
