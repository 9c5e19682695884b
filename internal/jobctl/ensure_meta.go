package jobctl

import (
	"github.com/flowctl/flowctl/internal/ferrors"
)

// EnsureMeta implements spec.md §4.E.6: validate that jobID is declared,
// and that suffix usage is consistent with the job's multi flag. The
// caller (cmd/flowctl) is responsible for printing AvailableJobIDs on an
// UnknownEntity error, per spec.md's "print available ids, exit 1".
func (c *Controller) EnsureMeta(jobID, suffix string, skipCheck bool) (Meta, error) {
	meta, ok := MetaFromFlow(c.Flow, jobID)
	if !ok {
		return Meta{}, &ferrors.UnknownEntity{Kind: "job", ID: jobID}
	}

	if meta.Multi && suffix == "" && !skipCheck {
		return Meta{}, &ferrors.ArgumentMisuse{Reason: "job \"" + jobID + "\" is multi; a suffix is required"}
	}
	if !meta.Multi && suffix != "" {
		return Meta{}, &ferrors.ArgumentMisuse{Reason: "job \"" + jobID + "\" is not multi; it does not accept a suffix"}
	}
	return meta, nil
}

// AvailableJobIDs returns the flow's declared job ids in declaration order.
func (c *Controller) AvailableJobIDs() []string {
	return c.Flow.JobOrder
}
