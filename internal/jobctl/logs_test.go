package jobctl

import (
	"context"
	"testing"

	"github.com/flowctl/flowctl/internal/remote"
)

func TestLogsFetchesSingleRunningInstance(t *testing.T) {
	flow := mustParse(t)
	svc := &fakeService{jobs: []remote.JobInfo{
		{ID: "train", RemoteID: "r1", Status: remote.Running, Tags: []string{"job:train", "project:myproj"}},
	}}
	runner := &fakeRunner{}
	storage := &fakeStorage{}
	c := New(Deps{Service: svc, Runner: runner, Storage: storage, Binary: "neuro"}, flow, nil)

	out, err := c.Logs(context.Background(), "train", "")
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if out == "" {
		t.Error("expected non-empty log output")
	}
}

func TestLogsNotFoundWhenNoInstance(t *testing.T) {
	flow := mustParse(t)
	svc := &fakeService{}
	runner := &fakeRunner{}
	storage := &fakeStorage{}
	c := New(Deps{Service: svc, Runner: runner, Storage: storage, Binary: "neuro"}, flow, nil)

	if _, err := c.Logs(context.Background(), "train", ""); err == nil {
		t.Fatal("expected NotFound error")
	}
}
