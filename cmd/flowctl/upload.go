package cmd

import (
	"fmt"

	"github.com/flowctl/flowctl/internal/ferrors"
	"github.com/flowctl/flowctl/internal/jobctl"
	"github.com/flowctl/flowctl/internal/volume"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [volume-id]",
	Short: "Upload a declared volume's local path to its remote mount (every volume with a local path if omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
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
		return d.Upload(ctx, resolved)
	}

	volumes, err := resolveVolumes(inputs)
	if err != nil {
		return err
	}
	return d.UploadAll(ctx, volumes)
}

// resolveOneVolume looks up and resolves a single declared volume by id.
func resolveOneVolume(inputs *jobctl.ControllerInputs, id string) (volume.Resolved, error) {
	v, ok := inputs.Flow.Volumes[id]
	if !ok {
		return volume.Resolved{}, &ferrors.UnknownEntity{Kind: "volume", ID: id}
	}
	return volume.ResolveVolume(v, inputs.Scope)
}

// resolveVolumes resolves every volume declared on the flow, in
// deterministic (sorted-id) order.
func resolveVolumes(inputs *jobctl.ControllerInputs) ([]volume.Resolved, error) {
	ids := sortedIDs(inputs.Flow.Volumes)
	out := make([]volume.Resolved, 0, len(ids))
	for _, id := range ids {
		v, err := volume.ResolveVolume(inputs.Flow.Volumes[id], inputs.Scope)
		if err != nil {
			return nil, fmt.Errorf("resolving volume %q: %w", id, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// resolveImages resolves every image declared on the flow, in
// deterministic (sorted-id) order.
func resolveImages(inputs *jobctl.ControllerInputs) ([]volume.ResolvedImage, error) {
	ids := sortedIDs(inputs.Flow.Images)
	out := make([]volume.ResolvedImage, 0, len(ids))
	for _, id := range ids {
		img, err := volume.ResolveImage(inputs.Flow.Images[id], inputs.Scope)
		if err != nil {
			return nil, fmt.Errorf("resolving image %q: %w", id, err)
		}
		out = append(out, img)
	}
	return out, nil
}

func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
