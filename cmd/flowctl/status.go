package cmd

import (
	"errors"
	"fmt"

	"github.com/flowctl/flowctl/internal/ferrors"
	"github.com/spf13/cobra"
)

var statusSuffix string

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Print the external CLI's status view for each of a job's discovered instances",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusSuffix, "suffix", "s", "", "multi-job instance suffix")
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, proj, err := newController()
	if err != nil {
		return err
	}
	defer proj.Close()

	err = c.Status(cmd.Context(), args[0], statusSuffix)
	var unknown *ferrors.UnknownEntity
	if errors.As(err, &unknown) {
		exitAvailableJobs(c)
		fmt.Println()
	}
	return err
}
