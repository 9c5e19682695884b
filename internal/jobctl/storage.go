package jobctl

import (
	"context"

	"github.com/flowctl/flowctl/internal/ast"
	"github.com/flowctl/flowctl/internal/scope"
)

// ControllerInputs bundles a parsed flow with the base scope its
// expressions evaluate against, for callers (cmd/flowctl) that need to
// build more than one collaborator (Controller, volume.Driver) from the
// same parsed flow.
type ControllerInputs struct {
	Flow  *ast.Flow
	Scope *scope.Scope
}

// LiveJobRecord is what Storage persists before a job launch, so that a
// later `ps`/crash-recovery pass can enumerate what was last attempted
// even if the remote instance never reported back.
type LiveJobRecord struct {
	JobID    string
	Multi    bool
	UserTags []string
}

// Storage is the project-persistence collaborator (spec.md §1: external,
// interface only). internal/storage provides the sqlite-backed
// implementation; jobctl depends only on this interface.
type Storage interface {
	PutLiveJob(ctx context.Context, rec LiveJobRecord) error
}
