package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var killAllCmd = &cobra.Command{
	Use:   "kill-all",
	Short: "Kill every running instance of every declared job, in completion order",
	Args:  cobra.NoArgs,
	RunE:  runKillAll,
}

func runKillAll(cmd *cobra.Command, _ []string) error {
	c, proj, err := newController()
	if err != nil {
		return err
	}
	defer proj.Close()

	killed, err := c.KillAll(cmd.Context())
	for _, k := range killed {
		suffix := ""
		if k.Suffix != "" {
			suffix = " " + k.Suffix
		}
		fmt.Printf("killed %s%s (%s)\n", k.JobID, suffix, k.RemoteID)
	}
	return err
}
