// Package jobctl implements the live job controller (spec.md §4.E): the
// only component that speaks to the remote job service. It discovers
// pre-existing remote instances of a logical job by tag, classifies their
// status, and decides whether to attach, restart, or launch fresh.
package jobctl

import (
	"github.com/flowctl/flowctl/internal/ast"
	"github.com/flowctl/flowctl/internal/tags"
)

// Meta is a resolved job's identity for discovery and run purposes:
// everything the controller needs that doesn't require re-evaluating the
// flow's expressions.
type Meta struct {
	ProjectID string
	JobID     string
	Multi     bool
	UserTags  []string
}

// IdentityTags returns the full identity tag set for this job (no suffix:
// the base set shared by every instance of it).
func (m Meta) IdentityTags() []string {
	return tags.Identity(m.ProjectID, m.JobID, "", m.UserTags)
}

// MetaFromFlow builds a Meta for job id within flow, merging flow-level,
// defaults, and per-job tags as spec.md §4.D describes (union, not
// override).
func MetaFromFlow(flow *ast.Flow, jobID string) (Meta, bool) {
	job, ok := flow.JobByID(jobID)
	if !ok {
		return Meta{}, false
	}
	all := make([]string, 0, len(flow.Defaults.Tags)+len(job.Tags))
	all = append(all, flow.Defaults.Tags...)
	all = append(all, job.Tags...)
	return Meta{
		ProjectID: flow.ID,
		JobID:     jobID,
		Multi:     job.Multi,
		UserTags:  tags.Dedup(all),
	}, true
}
