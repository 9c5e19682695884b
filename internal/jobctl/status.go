package jobctl

import "context"

// Status resolves jobID/suffix to its discovered instances and execs the
// external CLI's own "status" subcommand against each one in turn, letting
// it render whatever detail it normally prints for a remote id.
func (c *Controller) Status(ctx context.Context, jobID, suffix string) error {
	meta, err := c.EnsureMeta(jobID, suffix, false)
	if err != nil {
		return err
	}

	instances, err := ResolveJobs(ctx, c.Deps.Service, meta, suffix)
	if err != nil {
		return err
	}
	for _, inst := range instances {
		if _, err := c.Deps.Runner.Exec(ctx, c.Deps.Binary, []string{"status", inst.RemoteID}); err != nil {
			return err
		}
	}
	return nil
}
