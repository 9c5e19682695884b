package jobctl

import "context"

type fakeRunner struct {
	calls [][]string
}

func (r *fakeRunner) Exec(_ context.Context, binary string, argv []string) (int, error) {
	call := append([]string{binary}, argv...)
	r.calls = append(r.calls, call)
	return 0, nil
}

type fakeStorage struct {
	records []LiveJobRecord
}

func (s *fakeStorage) PutLiveJob(_ context.Context, rec LiveJobRecord) error {
	s.records = append(s.records, rec)
	return nil
}
