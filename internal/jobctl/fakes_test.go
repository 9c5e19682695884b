package jobctl

import (
	"context"
	"time"

	"github.com/flowctl/flowctl/internal/ferrors"
	"github.com/flowctl/flowctl/internal/remote"
)

// fakeService is an in-memory remote.JobService for controller tests.
type fakeService struct {
	jobs      []remote.JobInfo
	killed    []string
	listCalls int
	statuses  map[string]remote.Status // remoteID -> status, mutated by Kill for poll tests
	runArgs   [][]string
	shared    []string
	roles     []string
}

func (f *fakeService) matches(info remote.JobInfo, filterTags []string) bool {
	set := make(map[string]bool, len(info.Tags))
	for _, t := range info.Tags {
		set[t] = true
	}
	for _, t := range filterTags {
		if !set[t] {
			return false
		}
	}
	return true
}

func (f *fakeService) List(_ context.Context, filterTags []string, statuses []remote.Status, _ time.Time) ([]remote.JobInfo, error) {
	f.listCalls++
	want := make(map[remote.Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []remote.JobInfo
	for _, j := range f.jobs {
		st := j.Status
		if f.statuses != nil {
			if s, ok := f.statuses[j.RemoteID]; ok {
				st = s
			}
		}
		j.Status = st
		if want[j.Status] && f.matches(j, filterTags) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeService) Status(_ context.Context, remoteID string) (remote.JobInfo, error) {
	for _, j := range f.jobs {
		if j.RemoteID == remoteID {
			if f.statuses != nil {
				if s, ok := f.statuses[remoteID]; ok {
					j.Status = s
				}
			}
			return j, nil
		}
	}
	return remote.JobInfo{}, &ferrors.NotFound{Job: remoteID}
}

func (f *fakeService) Kill(_ context.Context, remoteID string) error {
	f.killed = append(f.killed, remoteID)
	if f.statuses == nil {
		f.statuses = map[string]remote.Status{}
	}
	f.statuses[remoteID] = remote.Cancelled
	return nil
}

func (f *fakeService) Run(_ context.Context, args []string) (string, error) {
	f.runArgs = append(f.runArgs, args)
	return "remote-new", nil
}

func (f *fakeService) Share(_ context.Context, uri, role string) error {
	f.shared = append(f.shared, uri+"@"+role)
	return nil
}

func (f *fakeService) AddRole(_ context.Context, role string) error {
	f.roles = append(f.roles, role)
	return nil
}

func (f *fakeService) Logs(_ context.Context, remoteID string) (string, error) {
	for _, j := range f.jobs {
		if j.RemoteID == remoteID {
			return "log output for " + remoteID, nil
		}
	}
	return "", &ferrors.NotFound{Job: remoteID}
}
