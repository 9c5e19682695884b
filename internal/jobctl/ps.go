package jobctl

import (
	"context"

	"github.com/flowctl/flowctl/internal/remote"
	"golang.org/x/sync/errgroup"
)

// PsRow is one declared job's current state, for the `ps` listing.
type PsRow struct {
	JobID     string
	Instances []remote.JobInfo
}

// Ps fans out one concurrent discovery task per declared job and joins
// with ordered accumulation: rows appear in declaration order of job ids,
// independent of which task finishes first (spec.md §5).
func (c *Controller) Ps(ctx context.Context) ([]PsRow, error) {
	ids := c.Flow.JobOrder
	rows := make([]PsRow, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			meta, ok := MetaFromFlow(c.Flow, id)
			if !ok {
				rows[i] = PsRow{JobID: id}
				return nil
			}
			instances, err := ResolveJobs(gctx, c.Deps.Service, meta, "")
			if err != nil {
				return err
			}
			rows[i] = PsRow{JobID: id, Instances: instances}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
