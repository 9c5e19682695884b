package cmd

import (
	"github.com/flowctl/flowctl/internal/ferrors"
	"github.com/flowctl/flowctl/internal/volume"
	"github.com/spf13/cobra"
)

var buildForce bool

var buildCmd = &cobra.Command{
	Use:   "build [image-id]",
	Short: "Build a declared buildable image (every buildable image if omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "force overwrite of an existing built ref")
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputs, err := loadFlow()
	if err != nil {
		return err
	}
	d := newVolumeDriver()
	ctx := cmd.Context()

	if len(args) == 1 {
		img, ok := inputs.Flow.Images[args[0]]
		if !ok {
			return &ferrors.UnknownEntity{Kind: "image", ID: args[0]}
		}
		resolved, err := volume.ResolveImage(img, inputs.Scope)
		if err != nil {
			return err
		}
		return d.Build(ctx, resolved, buildForce)
	}

	images, err := resolveImages(inputs)
	if err != nil {
		return err
	}
	return d.BuildAll(ctx, images, buildForce)
}
