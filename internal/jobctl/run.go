package jobctl

import (
	"context"
	"fmt"
	"time"

	"github.com/flowctl/flowctl/internal/ast"
	"github.com/flowctl/flowctl/internal/execrun"
	"github.com/flowctl/flowctl/internal/ferrors"
	"github.com/flowctl/flowctl/internal/namegen"
	"github.com/flowctl/flowctl/internal/remote"
	"github.com/flowctl/flowctl/internal/scope"
	"github.com/flowctl/flowctl/internal/tags"
	"github.com/flowctl/flowctl/internal/util"
)

// PendingExit is returned by Run when the job an attach was attempted
// against is still PENDING: the caller should inform the user and exit
// with status 2 (spec.md §4.E.4, §6).
type PendingExit struct {
	JobID string
}

func (e *PendingExit) Error() string {
	return fmt.Sprintf("job %q is pending", e.JobID)
}

// Deps bundles the Controller's external collaborators.
type Deps struct {
	Service   remote.JobService
	Runner    execrun.Runner
	Storage   Storage
	Binary    string // external CLI binary path, e.g. "neuro"
	ProjectRole string // configured project role, or "" if none
}

// Controller implements the job controller's operations against one flow.
type Controller struct {
	Deps  Deps
	Flow  *ast.Flow
	Scope *scope.Scope
}

// New returns a Controller bound to flow, evaluating expressions against
// sc, and talking to the remote/subprocess collaborators in deps.
func New(deps Deps, flow *ast.Flow, sc *scope.Scope) *Controller {
	return &Controller{Deps: deps, Flow: flow, Scope: sc}
}

// Run implements spec.md §4.E.4: attach to a live instance if one exists,
// restart a terminated one, or launch fresh.
func (c *Controller) Run(ctx context.Context, jobID, suffix string, args []string) error {
	meta, ok := MetaFromFlow(c.Flow, jobID)
	if !ok {
		return &ferrors.UnknownEntity{Kind: "job", ID: jobID}
	}
	if !meta.Multi && len(args) > 0 {
		return &ferrors.ArgumentMisuse{Reason: fmt.Sprintf("job %q is not multi; it does not accept args", jobID)}
	}

	attemptAttach := !meta.Multi || suffix != ""
	if attemptAttach {
		handled, err := c.tryAttach(ctx, meta, suffix, args)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	freshSuffix := suffix
	if meta.Multi && suffix == "" {
		s, err := tags.NewSuffix()
		if err != nil {
			return err
		}
		freshSuffix = s
	}

	return c.launch(ctx, meta, freshSuffix, args)
}

// tryAttach attempts the attach-to-running branch. It returns handled=true
// when the request was fully serviced (attached, or rejected as illegal)
// and the caller must not fall through to launch.
func (c *Controller) tryAttach(ctx context.Context, meta Meta, suffix string, args []string) (bool, error) {
	instances, err := ResolveJobs(ctx, c.Deps.Service, meta, suffix)
	if err != nil {
		return false, err
	}
	if len(instances) != 1 {
		return false, nil
	}
	inst := instances[0]

	switch {
	case inst.Status == remote.Running:
		if meta.Multi && suffix != "" && len(args) > 0 {
			return true, &ferrors.ArgumentMisuse{Reason: "args may not be passed to an already-running multi-job suffix"}
		}
		return true, c.attach(ctx, meta, inst)
	case inst.Status == remote.Pending:
		return true, &PendingExit{JobID: meta.JobID}
	case inst.Status.Terminated():
		return false, nil
	default:
		return false, nil
	}
}

func (c *Controller) attach(ctx context.Context, meta Meta, inst remote.JobInfo) error {
	job, _ := c.Flow.JobByID(meta.JobID)
	suffix, _ := tags.ExtractMulti(inst.Tags)
	identityTags := tags.Identity(meta.ProjectID, meta.JobID, suffix, meta.UserTags)
	resolved, err := Resolve(job, c.Scope, identityTags)
	if err != nil {
		return err
	}
	if resolved.Browse {
		if _, err := c.Deps.Runner.Exec(ctx, c.Deps.Binary, []string{"browse", inst.RemoteID}); err != nil {
			return err
		}
	}
	if resolved.Detach {
		return nil
	}
	_, err = c.Deps.Runner.Exec(ctx, c.Deps.Binary, []string{"attach", inst.RemoteID})
	return err
}

func (c *Controller) launch(ctx context.Context, meta Meta, suffix string, args []string) error {
	job, _ := c.Flow.JobByID(meta.JobID)
	identityTags := tags.Identity(meta.ProjectID, meta.JobID, suffix, meta.UserTags)
	resolved, err := Resolve(job, c.Scope, identityTags)
	if err != nil {
		return err
	}

	if err := c.persistLiveJobs(ctx); err != nil {
		return err
	}

	if c.Deps.ProjectRole != "" {
		// AddRole is idempotent (remote.JobService doc comment), so a transient failure
		// is safe to retry rather than aborting the whole launch over it.
		role := c.Deps.ProjectRole
		err := util.Retry(ctx, func(ctx context.Context) error {
			return c.Deps.Service.AddRole(ctx, role)
		}, util.WithMaxAttempts(3), util.WithInitialDelay(200*time.Millisecond))
		if err != nil {
			return err
		}
	}

	name := resolved.Name
	if name == "" {
		name = namegen.Derive(meta.ProjectID, meta.JobID, suffix)
	}

	argv := BuildRunArgs(resolved, name, c.Deps.ProjectRole, args)
	if _, err := c.Deps.Runner.Exec(ctx, c.Deps.Binary, argv); err != nil {
		return err
	}

	if c.Deps.ProjectRole != "" {
		for _, v := range resolved.Volumes {
			if err := c.Deps.Service.Share(ctx, v, c.Deps.ProjectRole); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Controller) persistLiveJobs(ctx context.Context) error {
	for _, id := range c.Flow.JobOrder {
		m, ok := MetaFromFlow(c.Flow, id)
		if !ok {
			continue
		}
		rec := LiveJobRecord{JobID: m.JobID, Multi: m.Multi, UserTags: m.UserTags}
		if err := c.Deps.Storage.PutLiveJob(ctx, rec); err != nil {
			return fmt.Errorf("persisting live-job record for %q: %w", id, err)
		}
	}
	return nil
}
