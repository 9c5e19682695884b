package cmd

import (
	"github.com/spf13/cobra"
)

var mkvolumesCmd = &cobra.Command{
	Use:   "mkvolumes",
	Short: "Create every declared volume's remote mount and share it with the project role",
	Args:  cobra.NoArgs,
	RunE:  runMkvolumes,
}

func runMkvolumes(cmd *cobra.Command, _ []string) error {
	inputs, err := loadFlow()
	if err != nil {
		return err
	}
	volumes, err := resolveVolumes(inputs)
	if err != nil {
		return err
	}
	return newVolumeDriver().Mkvolumes(cmd.Context(), volumes)
}
