package jobctl

import (
	"context"
	"fmt"
	"time"

	"github.com/flowctl/flowctl/internal/remote"
	"github.com/flowctl/flowctl/internal/tags"
)

const sinceWindow = 7 * 24 * time.Hour

var liveStatuses = []remote.Status{remote.Pending, remote.Running}
var terminatedStatuses = []remote.Status{remote.Suspended, remote.Succeeded, remote.Failed, remote.Cancelled}

// ResolveJobs implements the two-query discovery protocol (spec.md §4.E.2).
// Branch A (multi without suffix) consumes both queries in full. Branch B
// (non-multi, or multi with suffix) stops after the first query that
// yields a result — short-circuiting preserves "prefer live over
// terminated".
func ResolveJobs(ctx context.Context, svc remote.JobService, meta Meta, suffix string) ([]remote.JobInfo, error) {
	filterTags := meta.IdentityTags()
	if suffix != "" {
		filterTags = append(filterTags, tags.Multi(suffix))
	}

	branchA := meta.Multi && suffix == ""

	live, err := svc.List(ctx, filterTags, liveStatuses, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("listing live instances of %q: %w", meta.JobID, err)
	}
	live = classify(meta, live)

	if branchA {
		terminated, err := svc.List(ctx, filterTags, terminatedStatuses, time.Now().Add(-sinceWindow))
		if err != nil {
			return nil, fmt.Errorf("listing terminated instances of %q: %w", meta.JobID, err)
		}
		terminated = classify(meta, terminated)
		return dedupBySuffix(append(live, terminated...)), nil
	}

	if len(live) > 0 {
		return live[:1], nil
	}

	terminated, err := svc.List(ctx, filterTags, terminatedStatuses, time.Now().Add(-sinceWindow))
	if err != nil {
		return nil, fmt.Errorf("listing terminated instances of %q: %w", meta.JobID, err)
	}
	terminated = classify(meta, terminated)
	if len(terminated) > 0 {
		return terminated[:1], nil
	}
	return nil, nil
}

// classify rewrites each JobInfo's ID to "<J> <suffix>" for multi jobs, per
// spec.md §4.E.3.
func classify(meta Meta, infos []remote.JobInfo) []remote.JobInfo {
	out := make([]remote.JobInfo, 0, len(infos))
	for _, info := range infos {
		if suffix, ok := tags.ExtractMulti(info.Tags); ok {
			info.ID = meta.JobID + " " + suffix
		} else {
			info.ID = meta.JobID
		}
		out = append(out, info)
	}
	return out
}

// dedupBySuffix drops later entries whose multi suffix was already seen —
// de-duplication across the two queries (spec.md §4.E.3).
func dedupBySuffix(infos []remote.JobInfo) []remote.JobInfo {
	seen := make(map[string]bool, len(infos))
	out := make([]remote.JobInfo, 0, len(infos))
	for _, info := range infos {
		suffix, _ := tags.ExtractMulti(info.Tags)
		if seen[suffix] {
			continue
		}
		seen[suffix] = true
		out = append(out, info)
	}
	return out
}
