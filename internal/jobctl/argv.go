package jobctl

import (
	"fmt"
	"strings"

	"github.com/flowctl/flowctl/internal/ast"
	"github.com/flowctl/flowctl/internal/expr"
	"github.com/flowctl/flowctl/internal/lifespan"
	"github.com/flowctl/flowctl/internal/scope"
)

// ResolvedPortForward is one local<->remote port pairing with both sides
// evaluated.
type ResolvedPortForward struct {
	Local  int64
	Remote int64
}

// ResolvedJob is a Job with every expression evaluated against sc, the
// values a run-argument vector or a volume/image driver call needs.
type ResolvedJob struct {
	Title           string
	Name            string
	Image           string
	Preset          string
	Entrypoint      string
	Cmd             string
	Workdir         string
	Env             map[string]string
	Volumes         []string
	Tags            []string
	LifeSpanSeconds int64
	HasLifeSpan     bool
	HTTPPort        int64
	HasHTTPPort     bool
	HTTPAuth        bool
	HasHTTPAuth     bool
	ScheduleTimeout int64
	HasSchedule     bool
	PortForward     []ResolvedPortForward
	PassConfig      bool
	Browse          bool
	Detach          bool
}

// Resolve evaluates every expression field of job against sc. identityTags
// is the full tag set this instance must be launched with — project/job
// identity, the multi suffix tag (if any), and the flow's/job's user
// tags, as computed by the caller via tags.Identity — and is copied
// verbatim into the result rather than job's own raw declared tags, which
// carry neither the project/job identity tags nor defaults.tags.
func Resolve(job ast.Job, sc *scope.Scope, identityTags []string) (ResolvedJob, error) {
	var out ResolvedJob
	var err error

	if out.Title, err = evalOptString(job.Title, sc); err != nil {
		return out, err
	}
	if out.Name, err = evalOptString(job.Name, sc); err != nil {
		return out, err
	}
	if out.Image, err = evalString(job.Image, sc); err != nil {
		return out, err
	}
	if out.Preset, err = evalOptString(job.Preset, sc); err != nil {
		return out, err
	}
	if out.Entrypoint, err = evalOptString(job.Entrypoint, sc); err != nil {
		return out, err
	}
	if out.Cmd, err = evalString(job.Cmd, sc); err != nil {
		return out, err
	}
	if out.Workdir, err = evalOptString(job.Workdir, sc); err != nil {
		return out, err
	}

	out.Env = map[string]string{}
	for k, e := range job.Env {
		v, err := evalString(e, sc)
		if err != nil {
			return out, err
		}
		out.Env[k] = v
	}

	for _, v := range job.Volumes {
		s, err := evalString(v, sc)
		if err != nil {
			return out, err
		}
		out.Volumes = append(out.Volumes, s)
	}

	out.Tags = identityTags

	if !job.LifeSpan.IsAbsent() {
		v, err := job.LifeSpan.Eval(sc)
		if err != nil {
			return out, err
		}
		d, err := lifespan.Parse(v.Str)
		if err != nil {
			return out, err
		}
		out.HasLifeSpan = true
		out.LifeSpanSeconds = lifespan.Seconds(d)
	}
	if !job.HTTPPort.IsAbsent() {
		v, err := job.HTTPPort.Eval(sc)
		if err != nil {
			return out, err
		}
		out.HasHTTPPort = true
		out.HTTPPort = v.Int
	}
	if !job.HTTPAuth.IsAbsent() {
		v, err := job.HTTPAuth.Eval(sc)
		if err != nil {
			return out, err
		}
		out.HasHTTPAuth = true
		out.HTTPAuth = v.Bool
	}
	if !job.ScheduleTimeout.IsAbsent() {
		v, err := job.ScheduleTimeout.Eval(sc)
		if err != nil {
			return out, err
		}
		d, err := lifespan.Parse(v.Str)
		if err != nil {
			return out, err
		}
		out.HasSchedule = true
		out.ScheduleTimeout = lifespan.Seconds(d)
	}

	for _, pf := range job.PortForward {
		localV, err := pf.LocalPort.Eval(sc)
		if err != nil {
			return out, err
		}
		remoteV, err := pf.RemotePort.Eval(sc)
		if err != nil {
			return out, err
		}
		out.PortForward = append(out.PortForward, ResolvedPortForward{Local: localV.Int, Remote: remoteV.Int})
	}

	passConfig, err := job.PassConfig.Eval(sc)
	if err != nil {
		return out, err
	}
	out.PassConfig = passConfig.Bool

	browse, err := job.Browse.Eval(sc)
	if err != nil {
		return out, err
	}
	out.Browse = browse.Bool

	detach, err := job.Detach.Eval(sc)
	if err != nil {
		return out, err
	}
	out.Detach = detach.Bool

	return out, nil
}

func evalString(e expr.Expression, sc *scope.Scope) (string, error) {
	v, err := e.Eval(sc)
	if err != nil {
		return "", err
	}
	return v.Str, nil
}

func evalOptString(e expr.Expression, sc *scope.Scope) (string, error) {
	if e.IsAbsent() {
		return "", nil
	}
	return evalString(e, sc)
}

// BuildRunArgs assembles the run-argument vector per spec.md §6. name and
// shareRole are supplied by the caller (name derivation and optional
// project-role flags live outside the pure expression-evaluation step).
func BuildRunArgs(job ResolvedJob, name, shareRole string, extraArgs []string) []string {
	var args []string
	args = append(args, "run")

	if job.Title != "" {
		args = append(args, "--description="+job.Title)
	}
	args = append(args, "--name="+name)
	if job.Preset != "" {
		args = append(args, "--preset="+job.Preset)
	}
	if job.HasSchedule {
		args = append(args, fmt.Sprintf("--schedule-timeout=%ds", job.ScheduleTimeout))
	}
	if job.HasHTTPPort {
		args = append(args, fmt.Sprintf("--http=%d", job.HTTPPort))
	}
	if job.HasHTTPAuth {
		if job.HTTPAuth {
			args = append(args, "--http-auth")
		} else {
			args = append(args, "--no-http-auth")
		}
	}
	if job.Entrypoint != "" {
		args = append(args, "--entrypoint="+job.Entrypoint)
	}
	if job.Workdir != "" {
		args = append(args, "--workdir="+job.Workdir)
	}
	for _, k := range sortedKeys(job.Env) {
		args = append(args, fmt.Sprintf("--env=%s=%s", k, job.Env[k]))
	}
	for _, v := range job.Volumes {
		args = append(args, "--volume="+v)
	}
	for _, t := range job.Tags {
		args = append(args, "--tag="+t)
	}
	if job.HasLifeSpan {
		args = append(args, fmt.Sprintf("--life-span=%ds", job.LifeSpanSeconds))
	}
	if job.Browse {
		args = append(args, "--browse")
	}
	if job.Detach {
		args = append(args, "--detach")
	}
	for _, pf := range job.PortForward {
		args = append(args, fmt.Sprintf("--port-forward=%d:%d", pf.Local, pf.Remote))
	}
	if job.PassConfig {
		args = append(args, "--pass-config")
	}
	if shareRole != "" {
		args = append(args, "--share="+shareRole)
	}

	args = append(args, job.Image, "--")
	args = append(args, strings.Fields(job.Cmd)...)
	args = append(args, extraArgs...)

	return args
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
