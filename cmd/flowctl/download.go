package cmd

import (
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download [volume-id]",
	Short: "Download a declared volume's remote mount to its local path (every volume with a local path if omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
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
		return d.Download(ctx, resolved)
	}

	volumes, err := resolveVolumes(inputs)
	if err != nil {
		return err
	}
	return d.DownloadAll(ctx, volumes)
}
