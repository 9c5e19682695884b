package tags

import (
	"reflect"
	"testing"
)

func TestIdentitySuperset(t *testing.T) {
	userTags := []string{"owner:alice", "owner:alice"}
	got := Identity("myproj", "train", "", userTags)
	want := []string{"project:myproj", "job:train", "owner:alice", "owner:alice"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIdentityMulti(t *testing.T) {
	got := Identity("myproj", "train", "abc123", nil)
	want := []string{"project:myproj", "job:train", "multi:abc123"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractRoundTrip(t *testing.T) {
	set := Identity("myproj", "train", "abc123", []string{"owner:alice"})
	if job, ok := ExtractJob(set); !ok || job != "train" {
		t.Errorf("ExtractJob = %q, %v", job, ok)
	}
	if suf, ok := ExtractMulti(set); !ok || suf != "abc123" {
		t.Errorf("ExtractMulti = %q, %v", suf, ok)
	}
	if proj, ok := ExtractProject(set); !ok || proj != "myproj" {
		t.Errorf("ExtractProject = %q, %v", proj, ok)
	}
}

func TestNewSuffixShape(t *testing.T) {
	s, err := NewSuffix()
	if err != nil {
		t.Fatalf("NewSuffix: %v", err)
	}
	if len(s) != 10 {
		t.Errorf("suffix length = %d, want 10", len(s))
	}
}

func TestDedupPreservesOrder(t *testing.T) {
	got := Dedup([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
