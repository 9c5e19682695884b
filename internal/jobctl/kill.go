package jobctl

import (
	"context"
	"errors"
	"time"

	"github.com/flowctl/flowctl/internal/ferrors"
	"github.com/flowctl/flowctl/internal/remote"
	"github.com/flowctl/flowctl/internal/tags"
	"golang.org/x/sync/errgroup"
)

const killPollInterval = 200 * time.Millisecond

// Kill discovers running instances of jobID (± suffix) and kills each,
// polling status every 200ms until its status is in the terminated set. This is
// deliberately a fixed-interval poll, not the teacher's exponential
// backoff (internal/util/retry) — the remote state transition is expected
// within a small constant, so backoff only adds latency.
func (c *Controller) Kill(ctx context.Context, jobID, suffix string) error {
	meta, ok := MetaFromFlow(c.Flow, jobID)
	if !ok {
		return &ferrors.UnknownEntity{Kind: "job", ID: jobID}
	}

	instances, err := ResolveJobs(ctx, c.Deps.Service, meta, suffix)
	if err != nil {
		return err
	}

	for _, inst := range instances {
		if !inst.Status.Live() {
			continue
		}
		if err := c.killAndAwait(ctx, inst.RemoteID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) killAndAwait(ctx context.Context, remoteID string) error {
	if err := c.Deps.Service.Kill(ctx, remoteID); err != nil {
		var notFound *ferrors.NotFound
		if !errors.As(err, &notFound) {
			return err
		}
		return nil
	}

	ticker := time.NewTicker(killPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			info, err := c.Deps.Service.Status(ctx, remoteID)
			if err != nil {
				var notFound *ferrors.NotFound
				if errors.As(err, &notFound) {
					return nil
				}
				return err
			}
			if info.Status.Terminated() {
				return nil
			}
		}
	}
}

// KilledJob identifies one instance kill_all killed, recovered from its
// own tags (never from its cosmetic remote name).
type KilledJob struct {
	JobID    string
	Suffix   string
	RemoteID string
}

// KillAll lists every running instance carrying the flow's shared project
// tag and kills them concurrently, one task per instance (spec.md §4.E.5).
// The returned order is completion order, not discovery order.
func (c *Controller) KillAll(ctx context.Context) ([]KilledJob, error) {
	filterTags := []string{tags.Project(c.Flow.ID)}
	instances, err := c.Deps.Service.List(ctx, filterTags, []remote.Status{remote.Running}, time.Time{})
	if err != nil {
		return nil, err
	}

	completed := make(chan KilledJob, len(instances))
	g, gctx := errgroup.WithContext(ctx)
	for _, inst := range instances {
		inst := inst
		g.Go(func() error {
			if err := c.killAndAwait(gctx, inst.RemoteID); err != nil {
				return err
			}
			jobID, _ := tags.ExtractJob(inst.Tags)
			suffix, _ := tags.ExtractMulti(inst.Tags)
			completed <- KilledJob{JobID: jobID, Suffix: suffix, RemoteID: inst.RemoteID}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(completed)

	results := make([]KilledJob, 0, len(instances))
	for k := range completed {
		results = append(results, k)
	}
	return results, nil
}
