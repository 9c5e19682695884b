package jobctl

import (
	"context"
	"fmt"

	"github.com/flowctl/flowctl/internal/ferrors"
)

// Logs resolves jobID/suffix to exactly one discovered instance and fetches
// its log output (spec.md §6 EXPANSION, §7's "logs" call site for NotFound ->
// "not running"). Zero matching instances is a NotFound; more than one is an
// ArgumentMisuse: logs needs a single unambiguous target.
func (c *Controller) Logs(ctx context.Context, jobID, suffix string) (string, error) {
	meta, err := c.EnsureMeta(jobID, suffix, false)
	if err != nil {
		return "", err
	}

	instances, err := ResolveJobs(ctx, c.Deps.Service, meta, suffix)
	if err != nil {
		return "", err
	}
	if len(instances) == 0 {
		return "", &ferrors.NotFound{Job: jobID, Suffix: suffix}
	}
	if len(instances) > 1 {
		return "", &ferrors.ArgumentMisuse{Reason: fmt.Sprintf("job %q has %d live instances; logs needs exactly one", jobID, len(instances))}
	}

	return c.Deps.Service.Logs(ctx, instances[0].RemoteID)
}
