package expr

import (
	"errors"
	"testing"
)

type fakeScope map[string]Value

func (s fakeScope) Lookup(chain []string) (Value, bool) {
	v, ok := s[chain[0]]
	return v, ok
}

func TestLiteralCoercion(t *testing.T) {
	cases := []struct {
		src     string
		typ     Type
		wantErr bool
	}{
		{"hello", TString, false},
		{"42", TInt, false},
		{"4.2e1", TFloat, false},
		{"NaN", TFloat, true},
		{"true", TBool, false},
		{"maybe", TBool, true},
		{"/tmp/x", TLocalPath, false},
		{"", TRemotePath, true},
		{"/data", TRemotePath, false},
		{"storage://proj/vol", TURI, false},
		{"not a uri", TURI, true},
	}

	for _, c := range cases {
		e := New(c.src, c.typ, false)
		_, err := e.Eval(nil)
		if c.wantErr && err == nil {
			t.Errorf("Eval(%q as %v): expected error", c.src, c.typ)
		}
		if !c.wantErr && err != nil {
			t.Errorf("Eval(%q as %v): unexpected error %v", c.src, c.typ, err)
		}
	}
}

func TestTemplateEval(t *testing.T) {
	sc := fakeScope{"flow": {Type: TString, Str: "myflow"}}

	e := New("${{ flow }}", TString, false)
	if !e.IsTemplate() {
		t.Fatal("expected template")
	}
	v, err := e.Eval(sc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.Str != "myflow" {
		t.Errorf("got %q, want myflow", v.Str)
	}
}

func TestTemplateUnresolvedName(t *testing.T) {
	e := New("${{ nope }}", TString, false)
	_, err := e.Eval(fakeScope{})
	var unresolved *UnresolvedName
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected *UnresolvedName, got %T: %v", err, err)
	}
	if unresolved.Name != "nope" {
		t.Errorf("got name %q", unresolved.Name)
	}
}

func TestAbsentOptExpression(t *testing.T) {
	e := Absent(TString)
	v, err := e.Eval(nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !v.Absent {
		t.Error("expected Absent value")
	}
}

func TestTemplateLiteralStringBoolInt(t *testing.T) {
	sc := fakeScope{}

	if v, err := New("${{ 'hi' }}", TString, false).Eval(sc); err != nil || v.Str != "hi" {
		t.Errorf("string literal: got %+v, %v", v, err)
	}
	if v, err := New("${{ true }}", TBool, false).Eval(sc); err != nil || !v.Bool {
		t.Errorf("bool literal: got %+v, %v", v, err)
	}
	if v, err := New("${{ 7 }}", TInt, false).Eval(sc); err != nil || v.Int != 7 {
		t.Errorf("int literal: got %+v, %v", v, err)
	}
}
