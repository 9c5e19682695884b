package volume

import (
	"context"
	"testing"
	"time"

	"github.com/flowctl/flowctl/internal/flowyaml"
	"github.com/flowctl/flowctl/internal/remote"
	"github.com/flowctl/flowctl/internal/scope"
)

const testFlow = `
kind: job
id: myproj
images:
  web:
    uri: image:web:latest
    context: ./web
    dockerfile: ./web/Dockerfile
    build-args:
      VERSION: "1.0"
volumes:
  data:
    uri: storage://proj/data/
    mount: /data
    local: ./local-data
jobs:
  train:
    image: image:web:latest
    cmd: python train.py
`

type fakeRunner struct {
	calls [][]string
}

func (r *fakeRunner) Exec(_ context.Context, binary string, argv []string) (int, error) {
	r.calls = append(r.calls, append([]string{binary}, argv...))
	return 0, nil
}

type stubJobService struct {
	shared []string
}

func (s *stubJobService) List(context.Context, []string, []remote.Status, time.Time) ([]remote.JobInfo, error) {
	return nil, nil
}
func (s *stubJobService) Status(context.Context, string) (remote.JobInfo, error) {
	return remote.JobInfo{}, nil
}
func (s *stubJobService) Kill(context.Context, string) error { return nil }
func (s *stubJobService) Run(context.Context, []string) (string, error) {
	return "", nil
}
func (s *stubJobService) Share(_ context.Context, uri, role string) error {
	s.shared = append(s.shared, uri+"@"+role)
	return nil
}
func (s *stubJobService) AddRole(context.Context, string) error { return nil }
func (s *stubJobService) Logs(context.Context, string) (string, error) {
	return "", nil
}

func TestUploadSharesNormalizedURI(t *testing.T) {
	flow, err := flowyaml.Parse([]byte(testFlow), "flow.yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sc := scope.New()
	resolved, err := ResolveVolume(flow.Volumes["data"], sc)
	if err != nil {
		t.Fatalf("ResolveVolume: %v", err)
	}
	if !resolved.HasLocal || resolved.LocalPath != "./local-data" {
		t.Fatalf("resolved = %+v", resolved)
	}

	runner := &fakeRunner{}
	svc := &stubJobService{}
	d := &Driver{Runner: runner, Service: svc, Binary: "neuro", ProjectRole: "ci-role"}

	if err := d.Upload(context.Background(), resolved); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected mkdir + cp calls, got %v", runner.calls)
	}
	if runner.calls[0][1] != "mkdir" || runner.calls[1][1] != "cp" {
		t.Errorf("unexpected call order: %v", runner.calls)
	}
	if len(svc.shared) != 1 || svc.shared[0] != "storage://proj/data@ci-role" {
		t.Errorf("shared = %v", svc.shared)
	}
}

func TestBuildArgsOrder(t *testing.T) {
	flow, err := flowyaml.Parse([]byte(testFlow), "flow.yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sc := scope.New()
	img, err := ResolveImage(flow.Images["web"], sc)
	if err != nil {
		t.Fatalf("ResolveImage: %v", err)
	}
	if !img.CanBuild {
		t.Fatal("expected CanBuild true")
	}

	args := BuildBuildArgs(img, false)
	want := []string{"image", "build", "--file=./web/Dockerfile", "--build-arg=VERSION=1.0", "./web", "image:web:latest"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestMkvolumesSkipsRemoteOnly(t *testing.T) {
	runner := &fakeRunner{}
	svc := &stubJobService{}
	d := &Driver{Runner: runner, Service: svc, Binary: "neuro", ProjectRole: "ci-role"}

	volumes := []Resolved{
		{ID: "a", URI: "storage://p/a", Mount: "/a", HasLocal: true},
		{ID: "b", URI: "storage://p/b", Mount: "/b", HasLocal: false},
	}
	if err := d.Mkvolumes(context.Background(), volumes); err != nil {
		t.Fatalf("Mkvolumes: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected one mkdir call (volume b has no local side), got %v", runner.calls)
	}
}
