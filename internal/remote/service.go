// Package remote declares the external job-scheduling service collaborator
// (spec.md §1: "out of scope, interfaces only") and provides one reference
// HTTP implementation of it. internal/jobctl depends only on the JobService
// interface, never on this package's concrete client.
package remote

import (
	"context"
	"time"
)

// Status is a remote job instance's lifecycle state.
type Status int

const (
	Unknown Status = iota
	Pending
	Running
	Suspended
	Succeeded
	Failed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminated reports whether s is one of the statuses in the "terminated"
// set that kill-polling and attach-vs-restart treat as no-longer-live.
func (s Status) Terminated() bool {
	switch s {
	case Succeeded, Failed, Cancelled:
		return true
	default:
		return false
	}
}

// Live reports whether s is pending or running.
func (s Status) Live() bool {
	return s == Pending || s == Running
}

// JobInfo is one remote job instance as reported by the job service.
type JobInfo struct {
	ID        string // logical id, "<J> <suffix>" for multi instances
	Status    Status
	RemoteID  string
	Tags      []string
	Timestamp time.Time
}

// JobService is the remote job-scheduling API: list/status/kill/share/
// add-role. All methods are idempotent where the spec calls for it
// (Kill, Share, AddRole) so retrying after a cancelled or failed call is
// always safe.
type JobService interface {
	// List returns job instances matching tags (intersection) and one of
	// statuses, reverse chronological. since, if non-zero, bounds results
	// to instances whose timestamp is no older than it.
	List(ctx context.Context, tags []string, statuses []Status, since time.Time) ([]JobInfo, error)

	// Status fetches the current JobInfo for one remote job id.
	Status(ctx context.Context, remoteID string) (JobInfo, error)

	// Kill requests termination of remoteID. Returns NotFound if the
	// instance no longer exists.
	Kill(ctx context.Context, remoteID string) error

	// Run launches a new job instance from the given CLI-style argument
	// vector (spec.md §6) and returns its remote id.
	Run(ctx context.Context, args []string) (remoteID string, err error)

	// Share grants a project role read access to a storage or image URI.
	Share(ctx context.Context, uri, role string) error

	// AddRole creates role, idempotently: the implementation reports an
	// already-existing role or an authorization refusal as success.
	AddRole(ctx context.Context, role string) error

	// Logs fetches the accumulated log output for remoteID. NotFound maps
	// to "not running" at the caller.
	Logs(ctx context.Context, remoteID string) (string, error)
}
