package cmd

import (
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [volume-id]",
	Short: "Recursively remove a declared volume's remote contents (every volume with a local path if omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVolumeClean,
}

func runVolumeClean(cmd *cobra.Command, args []string) error {
	inputs, err := loadFlow()
	if err != nil {
		return err
	}
	d := newVolumeDriver()
	ctx := cmd.Context()

	if len(args) == 1 {
		resolved, err := resolveOneVolume(inputs, args[0])
		if err != nil {
			return err
		}
		return d.Clean(ctx, resolved)
	}

	volumes, err := resolveVolumes(inputs)
	if err != nil {
		return err
	}
	return d.CleanAll(ctx, volumes)
}
