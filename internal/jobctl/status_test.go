package jobctl

import (
	"context"
	"testing"

	"github.com/flowctl/flowctl/internal/remote"
)

func TestStatusExecsOncePerLiveInstance(t *testing.T) {
	flow := mustParse(t)
	svc := &fakeService{jobs: []remote.JobInfo{
		{ID: "train", RemoteID: "r1", Status: remote.Running, Tags: []string{"job:train", "project:myproj"}},
	}}
	runner := &fakeRunner{}
	storage := &fakeStorage{}
	c := New(Deps{Service: svc, Runner: runner, Storage: storage, Binary: "neuro"}, flow, nil)

	if err := c.Status(context.Background(), "train", ""); err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0][1] != "status" || runner.calls[0][2] != "r1" {
		t.Errorf("calls = %v", runner.calls)
	}
}
