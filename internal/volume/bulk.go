package volume

import "context"

// UploadAll uploads every volume that declares a local side. The first
// failure propagates to the caller; operations are not batched or
// retried as a group.
func (d *Driver) UploadAll(ctx context.Context, volumes []Resolved) error {
	for _, v := range volumes {
		if !v.HasLocal {
			continue
		}
		if err := d.Upload(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// DownloadAll is UploadAll's mirror image.
func (d *Driver) DownloadAll(ctx context.Context, volumes []Resolved) error {
	for _, v := range volumes {
		if !v.HasLocal {
			continue
		}
		if err := d.Download(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// CleanAll cleans every volume that declares a local side.
func (d *Driver) CleanAll(ctx context.Context, volumes []Resolved) error {
	for _, v := range volumes {
		if !v.HasLocal {
			continue
		}
		if err := d.Clean(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// BuildAll builds every image that declares both a context and a
// dockerfile.
func (d *Driver) BuildAll(ctx context.Context, images []ResolvedImage, force bool) error {
	for _, img := range images {
		if !img.CanBuild {
			continue
		}
		if err := d.Build(ctx, img, force); err != nil {
			return err
		}
	}
	return nil
}
