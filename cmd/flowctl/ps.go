package cmd

import (
	"fmt"
	"time"

	"github.com/flowctl/flowctl/internal/util"
	"github.com/spf13/cobra"
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List every declared job's live instances, in declaration order",
	Args:  cobra.NoArgs,
	RunE:  runPs,
}

func runPs(cmd *cobra.Command, _ []string) error {
	c, proj, err := newController()
	if err != nil {
		return err
	}
	defer proj.Close()

	rows, err := c.Ps(cmd.Context())
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row.Instances) == 0 {
			fmt.Printf("%s\tno live instances\n", row.JobID)
			continue
		}
		for _, inst := range row.Instances {
			age := "unknown age"
			if !inst.Timestamp.IsZero() {
				age = util.FormatDuration(time.Since(inst.Timestamp)) + " ago"
			}
			fmt.Printf("%s\t%s\t%s\t%s\n", row.JobID, inst.Status, inst.RemoteID, age)
		}
	}
	return nil
}
