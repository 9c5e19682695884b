// Package volume implements the volume/image driver (spec.md §4.H):
// resolving declared local<->remote correspondences into copy/build/mkdir
// CLI invocations, and sharing the resulting URIs with a project role.
package volume

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowctl/flowctl/internal/ast"
	"github.com/flowctl/flowctl/internal/execrun"
	"github.com/flowctl/flowctl/internal/remote"
	"github.com/flowctl/flowctl/internal/scope"
)

// Resolved is a Volume with every expression evaluated.
type Resolved struct {
	ID        string
	URI       string
	Mount     string
	ReadOnly  bool
	LocalPath string
	HasLocal  bool
}

// ResolveVolume evaluates v's expressions against sc.
func ResolveVolume(v ast.Volume, sc *scope.Scope) (Resolved, error) {
	var out Resolved
	out.ID = v.ID

	uriVal, err := v.URI.Eval(sc)
	if err != nil {
		return out, err
	}
	out.URI = uriVal.Str
	if !strings.HasPrefix(out.URI, "storage:") {
		return out, fmt.Errorf("volume %q: uri %q must use the storage scheme", v.ID, out.URI)
	}

	mountVal, err := v.Mount.Eval(sc)
	if err != nil {
		return out, err
	}
	out.Mount = mountVal.Str

	roVal, err := v.ReadOnly.Eval(sc)
	if err != nil {
		return out, err
	}
	out.ReadOnly = roVal.Bool

	if !v.LocalPath.IsAbsent() {
		lp, err := v.LocalPath.Eval(sc)
		if err != nil {
			return out, err
		}
		out.HasLocal = true
		out.LocalPath = lp.Str
	}
	return out, nil
}

// ResolvedImage is an Image with every expression evaluated.
type ResolvedImage struct {
	ID          string
	Ref         string
	Context     string
	Dockerfile  string
	CanBuild    bool
	BuildArgs   map[string]string
	Env         map[string]string
	BuildPreset string
	ForceRebuild bool
}

// ResolveImage evaluates img's expressions against sc.
func ResolveImage(img ast.Image, sc *scope.Scope) (ResolvedImage, error) {
	var out ResolvedImage
	out.ID = img.ID
	out.CanBuild = img.CanBuild()

	refVal, err := img.Ref.Eval(sc)
	if err != nil {
		return out, err
	}
	out.Ref = refVal.Str

	if !img.Context.IsAbsent() {
		v, err := img.Context.Eval(sc)
		if err != nil {
			return out, err
		}
		out.Context = v.Str
	}
	if !img.Dockerfile.IsAbsent() {
		v, err := img.Dockerfile.Eval(sc)
		if err != nil {
			return out, err
		}
		out.Dockerfile = v.Str
	}
	if !img.BuildPreset.IsAbsent() {
		v, err := img.BuildPreset.Eval(sc)
		if err != nil {
			return out, err
		}
		out.BuildPreset = v.Str
	}

	forceVal, err := img.ForceRebuild.Eval(sc)
	if err != nil {
		return out, err
	}
	out.ForceRebuild = forceVal.Bool

	out.BuildArgs = map[string]string{}
	for k, e := range img.BuildArgs {
		v, err := e.Eval(sc)
		if err != nil {
			return out, err
		}
		out.BuildArgs[k] = v.Str
	}
	out.Env = map[string]string{}
	for k, e := range img.Env {
		v, err := e.Eval(sc)
		if err != nil {
			return out, err
		}
		out.Env[k] = v.Str
	}

	return out, nil
}

// Driver drives volume/image operations via the external CLI and shares
// resulting URIs with the configured project role.
type Driver struct {
	Runner      execrun.Runner
	Service     remote.JobService
	Binary      string
	ProjectRole string
}

func (d *Driver) share(ctx context.Context, uri string) error {
	if d.ProjectRole == "" {
		return nil
	}
	return d.Service.Share(ctx, uri, d.ProjectRole)
}

// Upload mkdir-parents the remote parent, then recursive-update-only
// copies from the volume's local path to its remote mount, then shares
// the normalized storage URI.
func (d *Driver) Upload(ctx context.Context, v Resolved) error {
	if !v.HasLocal {
		return fmt.Errorf("volume %q has no local path to upload", v.ID)
	}
	if _, err := d.Runner.Exec(ctx, d.Binary, []string{"mkdir", "--parents", remoteParent(v.Mount)}); err != nil {
		return err
	}
	args := []string{"cp", "--recursive", "--update", "--no-target-directory", v.LocalPath, v.Mount}
	if _, err := d.Runner.Exec(ctx, d.Binary, args); err != nil {
		return err
	}
	return d.share(ctx, normalizeStorageURI(v.URI))
}

// Download reverses Upload's copy direction; otherwise identical flags.
func (d *Driver) Download(ctx context.Context, v Resolved) error {
	if !v.HasLocal {
		return fmt.Errorf("volume %q has no local path to download into", v.ID)
	}
	args := []string{"cp", "--recursive", "--update", "--no-target-directory", v.Mount, v.LocalPath}
	_, err := d.Runner.Exec(ctx, d.Binary, args)
	return err
}

// Clean recursively removes the volume's remote contents.
func (d *Driver) Clean(ctx context.Context, v Resolved) error {
	_, err := d.Runner.Exec(ctx, d.Binary, []string{"rm", "--recursive", v.Mount})
	return err
}

// Mkvolumes mkdir-parents the remote mount itself (not its parent) for
// every volume with a local side, then shares it.
func (d *Driver) Mkvolumes(ctx context.Context, volumes []Resolved) error {
	for _, v := range volumes {
		if !v.HasLocal {
			continue
		}
		if _, err := d.Runner.Exec(ctx, d.Binary, []string{"mkdir", "--parents", v.Mount}); err != nil {
			return err
		}
		if err := d.share(ctx, normalizeStorageURI(v.URI)); err != nil {
			return err
		}
	}
	return nil
}

// Build assembles a build-CLI argument list from the image's resolved
// meta and runs it, then shares the built ref (scheme stripped, as a tag)
// with the project role.
func (d *Driver) Build(ctx context.Context, img ResolvedImage, force bool) error {
	if !img.CanBuild {
		return fmt.Errorf("image %q cannot be built: context or dockerfile missing", img.ID)
	}

	args := BuildBuildArgs(img, force)
	if _, err := d.Runner.Exec(ctx, d.Binary, args); err != nil {
		return err
	}
	return d.share(ctx, stripScheme(img.Ref))
}

// BuildBuildArgs assembles the build-CLI argument list (spec.md §4.H):
// --file, --build-arg, --env, --preset, optional --force-overwrite, then
// context path and ref. No --volume flag is emitted: ResolvedImage carries
// no volumes.
func BuildBuildArgs(img ResolvedImage, force bool) []string {
	args := []string{"image", "build"}
	if img.Dockerfile != "" {
		args = append(args, "--file="+img.Dockerfile)
	}
	for _, k := range sortedKeys(img.BuildArgs) {
		args = append(args, fmt.Sprintf("--build-arg=%s=%s", k, img.BuildArgs[k]))
	}
	for _, k := range sortedKeys(img.Env) {
		args = append(args, fmt.Sprintf("--env=%s=%s", k, img.Env[k]))
	}
	if img.BuildPreset != "" {
		args = append(args, "--preset="+img.BuildPreset)
	}
	if force || img.ForceRebuild {
		args = append(args, "--force-overwrite")
	}
	args = append(args, img.Context, img.Ref)
	return args
}

func remoteParent(mount string) string {
	idx := strings.LastIndex(strings.TrimRight(mount, "/"), "/")
	if idx <= 0 {
		return "/"
	}
	return mount[:idx]
}

// normalizeStorageURI strips any trailing slash so shares are consistent
// regardless of how the YAML author wrote the uri.
func normalizeStorageURI(uri string) string {
	return strings.TrimRight(uri, "/")
}

// stripScheme drops "<scheme>://" from a ref so it can be shared as a bare
// tag.
func stripScheme(ref string) string {
	if idx := strings.Index(ref, "://"); idx >= 0 {
		return ref[idx+3:]
	}
	return ref
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
