package cmd

import (
	"errors"
	"fmt"

	"github.com/flowctl/flowctl/internal/ferrors"
	"github.com/spf13/cobra"
)

var logsSuffix string

var logsCmd = &cobra.Command{
	Use:   "logs <job-id>",
	Short: "Fetch log output for a job's single live instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().StringVar(&logsSuffix, "suffix", "", "multi-job instance suffix")
}

func runLogs(cmd *cobra.Command, args []string) error {
	c, proj, err := newController()
	if err != nil {
		return err
	}
	defer proj.Close()

	out, err := c.Logs(cmd.Context(), args[0], logsSuffix)
	var notFound *ferrors.NotFound
	if errors.As(err, &notFound) {
		fmt.Println("not running")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
