package jobctl

import (
	"context"
	"testing"
	"time"

	"github.com/flowctl/flowctl/internal/ast"
	"github.com/flowctl/flowctl/internal/flowyaml"
	"github.com/flowctl/flowctl/internal/remote"
	"github.com/flowctl/flowctl/internal/scope"
)

const testFlow = `
kind: job
id: myproj
jobs:
  train:
    image: image:web:latest
    cmd: python train.py
  batch:
    image: image:web:latest
    cmd: python batch.py
    multi: true
`

func mustParse(t *testing.T) *ast.Flow {
	t.Helper()
	flow, err := flowyaml.Parse([]byte(testFlow), "flow.yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return flow
}

// TestResolveJobsDiscoveryPreference covers scenario 7: one RUNNING and
// one SUCCEEDED instance with identical tags; non-multi discovery returns
// the RUNNING one and never issues the second (terminated) query.
func TestResolveJobsDiscoveryPreference(t *testing.T) {
	flow := mustParse(t)
	meta, ok := MetaFromFlow(flow, "train")
	if !ok {
		t.Fatal("job train missing")
	}
	identity := meta.IdentityTags()

	svc := &fakeService{jobs: []remote.JobInfo{
		{RemoteID: "r1", Status: remote.Running, Tags: identity, Timestamp: time.Now()},
		{RemoteID: "r2", Status: remote.Succeeded, Tags: identity, Timestamp: time.Now().Add(-time.Hour)},
	}}

	instances, err := ResolveJobs(context.Background(), svc, meta, "")
	if err != nil {
		t.Fatalf("ResolveJobs: %v", err)
	}
	if len(instances) != 1 || instances[0].RemoteID != "r1" {
		t.Fatalf("instances = %+v", instances)
	}
	if svc.listCalls != 1 {
		t.Errorf("listCalls = %d, want 1 (second query must not be issued)", svc.listCalls)
	}
}

// TestRunAttachesToRunningInstance covers scenario 8's first half: an
// attach-eligible RUNNING instance means Run attaches and never launches
// fresh.
func TestRunAttachesToRunningInstance(t *testing.T) {
	flow := mustParse(t)
	meta, _ := MetaFromFlow(flow, "train")
	identity := meta.IdentityTags()

	svc := &fakeService{jobs: []remote.JobInfo{
		{RemoteID: "r1", Status: remote.Running, Tags: identity, Timestamp: time.Now()},
	}}
	runner := &fakeRunner{}
	storage := &fakeStorage{}

	ctrl := New(Deps{Service: svc, Runner: runner, Storage: storage, Binary: "neuro"}, flow, scope.New())
	if err := ctrl.Run(context.Background(), "train", "", nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(svc.runArgs) != 0 {
		t.Errorf("expected no fresh run, got runArgs=%v", svc.runArgs)
	}
	found := false
	for _, call := range runner.calls {
		if len(call) >= 2 && call[1] == "attach" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an attach call, got %v", runner.calls)
	}
}

// TestRunLaunchesFreshWhenTerminatedOnly covers scenario 8's second half.
func TestRunLaunchesFreshWhenTerminatedOnly(t *testing.T) {
	flow := mustParse(t)
	meta, _ := MetaFromFlow(flow, "train")
	identity := meta.IdentityTags()

	svc := &fakeService{jobs: []remote.JobInfo{
		{RemoteID: "r1", Status: remote.Failed, Tags: identity, Timestamp: time.Now()},
	}}
	runner := &fakeRunner{}
	storage := &fakeStorage{}

	ctrl := New(Deps{Service: svc, Runner: runner, Storage: storage, Binary: "neuro"}, flow, scope.New())
	if err := ctrl.Run(context.Background(), "train", "", nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(runner.calls) != 1 || runner.calls[0][1] != "run" {
		t.Fatalf("expected one fresh run call, got %v", runner.calls)
	}
	if len(storage.records) != len(flow.JobOrder) {
		t.Errorf("expected a live-job record per flow job, got %d", len(storage.records))
	}

	argv := runner.calls[0]
	wantTags := []string{"--tag=project:myproj", "--tag=job:train"}
	for _, want := range wantTags {
		found := false
		for _, a := range argv {
			if a == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("run argv %v missing %q", argv, want)
		}
	}
}

func TestRunRejectsArgsOnNonMulti(t *testing.T) {
	flow := mustParse(t)
	svc := &fakeService{}
	ctrl := New(Deps{Service: svc, Runner: &fakeRunner{}, Storage: &fakeStorage{}, Binary: "neuro"}, flow, scope.New())
	err := ctrl.Run(context.Background(), "train", "", []string{"extra"})
	if err == nil {
		t.Fatal("expected ArgumentMisuse error")
	}
}

func TestKillPollsUntilTerminated(t *testing.T) {
	flow := mustParse(t)
	meta, _ := MetaFromFlow(flow, "train")
	identity := meta.IdentityTags()

	svc := &fakeService{jobs: []remote.JobInfo{
		{RemoteID: "r1", Status: remote.Running, Tags: identity, Timestamp: time.Now()},
	}}
	ctrl := New(Deps{Service: svc, Runner: &fakeRunner{}, Storage: &fakeStorage{}, Binary: "neuro"}, flow, scope.New())

	if err := ctrl.Kill(context.Background(), "train", ""); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if len(svc.killed) != 1 || svc.killed[0] != "r1" {
		t.Errorf("killed = %v", svc.killed)
	}
}
