package scope

import (
	"testing"

	"github.com/flowctl/flowctl/internal/expr"
)

func TestLookupShadowing(t *testing.T) {
	project := Frame{"workdir": expr.Value{Type: expr.TRemotePath, Str: "/project"}}
	job := Frame{"workdir": expr.Value{Type: expr.TRemotePath, Str: "/job"}}

	s := New(project, job)
	v, ok := s.Lookup([]string{"workdir"})
	if !ok || v.Str != "/job" {
		t.Fatalf("expected job frame to shadow project frame, got %+v ok=%v", v, ok)
	}
}

func TestLookupNestedNamespace(t *testing.T) {
	s := New(Frame{
		"env": Frame{"HOME": expr.Value{Type: expr.TString, Str: "/root"}},
	})

	v, ok := s.Lookup([]string{"env", "HOME"})
	if !ok || v.Str != "/root" {
		t.Fatalf("got %+v ok=%v", v, ok)
	}

	if _, ok := s.Lookup([]string{"env", "MISSING"}); ok {
		t.Error("expected missing nested name to fail lookup")
	}
}

func TestChildDoesNotMutateParent(t *testing.T) {
	base := New(Frame{"id": expr.Value{Type: expr.TString, Str: "base"}})
	child := base.Child(Frame{"id": expr.Value{Type: expr.TString, Str: "child"}})

	if v, _ := base.Lookup([]string{"id"}); v.Str != "base" {
		t.Errorf("parent mutated: got %q", v.Str)
	}
	if v, _ := child.Lookup([]string{"id"}); v.Str != "child" {
		t.Errorf("child lookup wrong: got %q", v.Str)
	}
}

func TestLookupUnknownName(t *testing.T) {
	s := New(Frame{})
	if _, ok := s.Lookup([]string{"nope"}); ok {
		t.Error("expected lookup to fail for unknown name")
	}
}
