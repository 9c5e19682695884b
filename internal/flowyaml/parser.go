// Package flowyaml parses the constrained interactive-flow YAML dialect
// (spec.md §6) into an ast.Flow: it validates the document against the
// schema, fills declared defaults, and lowers every scalar to an
// expr.Expression, preserving declaration order where the graph and
// status-reporting layers depend on it.
package flowyaml

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/flowctl/flowctl/internal/ast"
	"github.com/flowctl/flowctl/internal/expr"
	"github.com/flowctl/flowctl/internal/ferrors"
	"github.com/flowctl/flowctl/internal/ident"
)

// maxFlowSizeBytes caps the YAML document size accepted by Parse, the same
// defense-in-depth size limit the teacher applies to workflow files.
const maxFlowSizeBytes = 1 * 1024 * 1024

// Parse validates and lowers a YAML document at the given source path
// (used only for default id derivation) into an ast.Flow.
func Parse(data []byte, sourcePath string) (*ast.Flow, error) {
	if err := validateContent(data); err != nil {
		return nil, err
	}

	var raw rawFlow
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.Strict()); err != nil {
		return nil, &ferrors.SchemaError{Path: "$", Reason: err.Error()}
	}

	if raw.Kind == "" {
		return nil, &ferrors.SchemaError{Path: "kind", Reason: "kind is required"}
	}
	if strings.ToLower(raw.Kind) != "job" {
		return nil, &ferrors.SchemaError{Path: "kind", Reason: fmt.Sprintf("unsupported kind %q: supported kinds are [job]", raw.Kind)}
	}
	if raw.Jobs == nil {
		return nil, &ferrors.SchemaError{Path: "jobs", Reason: "jobs is required"}
	}

	id := raw.ID
	if id == "" {
		id = defaultFlowID(sourcePath)
	}

	flow := &ast.Flow{
		ID:    id,
		Kind:  ast.KindJob,
		Title: raw.Title,
	}

	images, err := lowerImages(raw.Images)
	if err != nil {
		return nil, err
	}
	flow.Images = images

	volumes, err := lowerVolumes(raw.Volumes)
	if err != nil {
		return nil, err
	}
	flow.Volumes = volumes

	flow.Defaults = lowerDefaults(raw.Defaults)

	jobs, order, err := lowerJobs(raw.Jobs)
	if err != nil {
		return nil, err
	}
	// lowerJobs walks a Go map, so its order is arbitrary; recover the
	// document's own key order from an order-preserving decode.
	var keyed struct {
		Jobs yaml.MapSlice `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(data, &keyed); err != nil {
		return nil, &ferrors.SchemaError{Path: "jobs", Reason: err.Error()}
	}
	order = order[:0]
	for _, item := range keyed.Jobs {
		key := fmt.Sprint(item.Key)
		if _, ok := jobs[key]; ok {
			order = append(order, key)
		}
	}
	flow.Jobs = jobs
	flow.JobOrder = order

	return flow, nil
}

// validateContent rejects oversized or binary-disguised-as-YAML input
// before it reaches the decoder.
func validateContent(data []byte) error {
	if len(data) > maxFlowSizeBytes {
		return &ferrors.SchemaError{Path: "$", Reason: fmt.Sprintf("document exceeds maximum size of %d bytes", maxFlowSizeBytes)}
	}
	if bytes.Contains(data, []byte{0x00}) {
		return &ferrors.SchemaError{Path: "$", Reason: "document contains null bytes"}
	}
	return nil
}

// defaultFlowID derives the flow id when the YAML document omits an
// explicit id: the parent directory of ".neuro" when the path ends
// ".neuro/jobs.yml", otherwise the file's stem.
func defaultFlowID(sourcePath string) string {
	if sourcePath == "" {
		return ""
	}
	clean := filepath.ToSlash(sourcePath)
	if strings.HasSuffix(clean, ".neuro/jobs.yml") {
		parent := filepath.Dir(filepath.Dir(clean))
		return filepath.Base(parent)
	}
	base := filepath.Base(clean)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func lowerImages(raw map[string]rawImage) (map[string]ast.Image, error) {
	out := make(map[string]ast.Image, len(raw))
	for id, ri := range raw {
		if !ident.Valid(id) {
			return nil, &ferrors.SchemaError{Path: "images." + id, Reason: "invalid identifier"}
		}
		uriSrc, ok := asString(ri.URI)
		if !ok {
			return nil, &ferrors.SchemaError{Path: "images." + id + ".uri", Reason: "uri is required"}
		}

		buildArgs := map[string]expr.Expression{}
		for k, v := range ri.BuildArgs {
			s, _ := asString(v)
			buildArgs[k] = expr.New(s, expr.TString, false)
		}
		env := map[string]expr.Expression{}
		for k, v := range ri.Env {
			s, _ := asString(v)
			env[k] = expr.New(s, expr.TString, false)
		}

		out[id] = ast.Image{
			ID:           id,
			Ref:          expr.New(uriSrc, expr.TURI, false),
			Context:      optionalLocalPath(ri.Context),
			Dockerfile:   optionalLocalPath(ri.Dockerfile),
			BuildArgs:    buildArgs,
			Env:          env,
			BuildPreset:  optionalString(ri.Preset),
			ForceRebuild: boolWithDefault(ri.ForceBuild, false),
		}
	}
	return out, nil
}

func lowerVolumes(raw map[string]rawVolume) (map[string]ast.Volume, error) {
	out := make(map[string]ast.Volume, len(raw))
	for id, rv := range raw {
		if !ident.Valid(id) {
			return nil, &ferrors.SchemaError{Path: "volumes." + id, Reason: "invalid identifier"}
		}
		uriSrc, ok := asString(rv.URI)
		if !ok {
			return nil, &ferrors.SchemaError{Path: "volumes." + id + ".uri", Reason: "uri is required"}
		}
		mountSrc, ok := asString(rv.Mount)
		if !ok {
			return nil, &ferrors.SchemaError{Path: "volumes." + id + ".mount", Reason: "mount is required"}
		}

		ro := expr.New("false", expr.TBool, false)
		if rv.RO != nil {
			s, _ := asString(*rv.RO)
			ro = expr.New(s, expr.TBool, false)
		}

		out[id] = ast.Volume{
			ID:        id,
			URI:       expr.New(uriSrc, expr.TURI, false),
			Mount:     expr.New(mountSrc, expr.TRemotePath, false),
			ReadOnly:  ro,
			LocalPath: optionalLocalPath(rv.Local),
		}
	}
	return out, nil
}

func lowerDefaults(raw *rawDefaults) ast.FlowDefaults {
	if raw == nil {
		return ast.FlowDefaults{
			Tags:    nil,
			Env:     map[string]expr.Expression{},
			Workdir: expr.Absent(expr.TRemotePath),
			LifeSpan: expr.Absent(expr.TString),
		}
	}

	env := map[string]expr.Expression{}
	for k, v := range raw.Env {
		s, _ := asString(v)
		env[k] = expr.New(s, expr.TString, false)
	}

	return ast.FlowDefaults{
		Tags:     dedupTags(raw.Tags),
		Env:      env,
		Workdir:  optionalRemotePath(raw.Workdir),
		LifeSpan: optionalString(raw.LifeSpan),
	}
}

func lowerJobs(raw map[string]rawJob) (map[string]ast.Job, []string, error) {
	jobs := make(map[string]ast.Job, len(raw))
	order := make([]string, 0, len(raw))
	for id, rj := range raw {
		if !ident.Valid(id) {
			return nil, nil, &ferrors.SchemaError{Path: "jobs." + id, Reason: "invalid identifier"}
		}
		job, err := lowerJob(id, rj)
		if err != nil {
			return nil, nil, err
		}
		jobs[id] = job
		order = append(order, id)
	}
	return jobs, order, nil
}

func lowerJob(id string, rj rawJob) (ast.Job, error) {
	imageSrc, ok := asString(rj.Image)
	if !ok {
		return ast.Job{}, &ferrors.SchemaError{Path: "jobs." + id + ".image", Reason: "image is required"}
	}
	cmdSrc, ok := asString(rj.Cmd)
	if !ok {
		return ast.Job{}, &ferrors.SchemaError{Path: "jobs." + id + ".cmd", Reason: "cmd is required"}
	}

	env := map[string]expr.Expression{}
	for k, v := range rj.Env {
		s, _ := asString(v)
		env[k] = expr.New(s, expr.TString, false)
	}

	volumes := make([]expr.Expression, 0, len(rj.Volumes))
	for _, v := range rj.Volumes {
		volumes = append(volumes, expr.New(v, expr.TString, false))
	}

	portForwards, err := lowerPortForward(id, rj.PortForward)
	if err != nil {
		return ast.Job{}, err
	}

	unit := ast.ExecUnit{
		ID:              id,
		Title:           optionalString(rj.Title),
		Name:            optionalString(rj.Name),
		Image:           expr.New(imageSrc, expr.TURI, false),
		Preset:          optionalString(rj.Preset),
		Entrypoint:      optionalString(rj.Entrypoint),
		Cmd:             expr.New(cmdSrc, expr.TString, false),
		Workdir:         optionalRemotePath(rj.Workdir),
		Env:             env,
		Volumes:         volumes,
		Tags:            dedupTags(rj.Tags),
		LifeSpan:        optionalString(rj.LifeSpan),
		HTTPPort:        optionalInt(rj.HTTPPort),
		HTTPAuth:        boolPtrWithDefault(rj.HTTPAuth, true),
		ScheduleTimeout: optionalString(rj.ScheduleTimeout),
		PortForward:     portForwards,
		PassConfig:      boolPtrWithDefault(rj.PassConfig, false),
	}

	return ast.Job{
		ExecUnit: unit,
		Detach:   boolPtrWithDefault(rj.Detach, false),
		Browse:   boolPtrWithDefault(rj.Browse, false),
		Multi:    rj.Multi != nil && truthy(*rj.Multi),
	}, nil
}

func lowerPortForward(jobID string, raw []string) ([]ast.PortForward, error) {
	out := make([]ast.PortForward, 0, len(raw))
	for _, pf := range raw {
		parts := strings.SplitN(pf, ":", 2)
		if len(parts) != 2 {
			return nil, &ferrors.SchemaError{Path: "jobs." + jobID + ".port-forward", Reason: fmt.Sprintf("%q must be LOCAL:REMOTE", pf)}
		}
		out = append(out, ast.PortForward{
			LocalPort:  expr.New(parts[0], expr.TInt, false),
			RemotePort: expr.New(parts[1], expr.TInt, false),
		})
	}
	return out, nil
}

// dedupTags preserves first-seen declaration order while collapsing
// duplicates permitted in the YAML source into the in-memory semantic
// set spec.md §4.C calls for.
func dedupTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprint(t), true
	}
}

func truthy(v any) bool {
	s, _ := asString(v)
	return s == "true"
}

func optionalString(v any) expr.Expression {
	s, ok := asString(v)
	if !ok {
		return expr.Absent(expr.TString)
	}
	return expr.New(s, expr.TString, true)
}

func optionalLocalPath(v any) expr.Expression {
	s, ok := asString(v)
	if !ok {
		return expr.Absent(expr.TLocalPath)
	}
	return expr.New(s, expr.TLocalPath, true)
}

func optionalRemotePath(v any) expr.Expression {
	s, ok := asString(v)
	if !ok {
		return expr.Absent(expr.TRemotePath)
	}
	return expr.New(s, expr.TRemotePath, true)
}

func optionalInt(v any) expr.Expression {
	s, ok := asString(v)
	if !ok {
		return expr.Absent(expr.TInt)
	}
	return expr.New(s, expr.TInt, true)
}

func boolWithDefault(v any, def bool) expr.Expression {
	s, ok := asString(v)
	if !ok {
		s = strconv.FormatBool(def)
	}
	return expr.New(s, expr.TBool, false)
}

func boolPtrWithDefault(v *any, def bool) expr.Expression {
	if v == nil {
		return expr.New(strconv.FormatBool(def), expr.TBool, false)
	}
	return boolWithDefault(*v, def)
}
