package jobctl

import "testing"

func TestBaseScopeIncludesProcessEnv(t *testing.T) {
	t.Setenv("FLOWCTL_TEST_VAR", "from-process")
	flow := mustParse(t)

	sc, err := BaseScope(flow)
	if err != nil {
		t.Fatalf("BaseScope: %v", err)
	}
	v, ok := sc.Lookup([]string{"env", "FLOWCTL_TEST_VAR"})
	if !ok || v.Str != "from-process" {
		t.Fatalf("got %+v ok=%v", v, ok)
	}
}
