package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var killSuffix string

var killCmd = &cobra.Command{
	Use:   "kill <job-id>",
	Short: "Kill every live instance of a declared job",
	Args:  cobra.ExactArgs(1),
	RunE:  runKill,
}

func init() {
	killCmd.Flags().StringVar(&killSuffix, "suffix", "", "multi-job instance suffix")
}

func runKill(cmd *cobra.Command, args []string) error {
	c, proj, err := newController()
	if err != nil {
		return err
	}
	defer proj.Close()

	if err := c.Kill(cmd.Context(), args[0], killSuffix); err != nil {
		return err
	}
	fmt.Println("killed")
	return nil
}
