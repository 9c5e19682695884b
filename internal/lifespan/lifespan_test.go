package lifespan

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1d2h3m4s", time.Duration(93784) * time.Second, false},
		{"10m", 600 * time.Second, false},
		{"2.5", time.Duration(2.5 * float64(time.Second)), false},
		{"abc", 0, true},
		{"", 0, true},
		{"1d86400s", time.Duration(2*86400) * time.Second, false},
	}

	for _, c := range cases {
		got, err := Parse(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 59, 60, 61, 3600, 3661, 86400, 90061, 172800} {
		d := time.Duration(n) * time.Second
		formatted := Format(d)
		parsed, err := Parse(formatted)
		if err != nil {
			t.Fatalf("Parse(Format(%ds)) = %q: %v", n, formatted, err)
		}
		if parsed != d {
			t.Errorf("round-trip for %ds: got %v via %q", n, parsed, formatted)
		}
	}
}

func TestFormatZero(t *testing.T) {
	if got := Format(0); got != "0s" {
		t.Errorf("Format(0) = %q, want 0s", got)
	}
}
