// Package lifespan parses and formats the flow YAML's life-span literal:
// either a bare floating-point second count, or the "XdYhZmWs" component
// form, each component optional and non-negative.
package lifespan

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var componentPattern = regexp.MustCompile(`^(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

// Parse parses a life-span literal into a duration. It accepts either a
// plain decimal number of seconds ("2.5") or the component form
// ("1d2h3m4s"); any subset of components may be omitted, but the empty
// string is rejected — at least one form must match.
func Parse(src string) (time.Duration, error) {
	if src == "" {
		return 0, fmt.Errorf("life-span: empty literal")
	}

	if seconds, err := strconv.ParseFloat(src, 64); err == nil {
		if seconds < 0 {
			return 0, fmt.Errorf("life-span: negative duration %q", src)
		}
		return time.Duration(seconds * float64(time.Second)), nil
	}

	m := componentPattern.FindStringSubmatch(src)
	if m == nil {
		return 0, fmt.Errorf("life-span: %q does not match XdYhZmWs or a decimal second count", src)
	}
	// A wholly empty match (all four groups absent) matches "" against the
	// regex but that case is already rejected above; guard the degenerate
	// all-literal-chars-consumed-as-nothing case explicitly.
	if m[1] == "" && m[2] == "" && m[3] == "" && m[4] == "" {
		return 0, fmt.Errorf("life-span: %q matches no component", src)
	}

	var total time.Duration
	units := [4]time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	for i, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.ParseInt(g, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("life-span: invalid component %q: %w", g, err)
		}
		total += time.Duration(n) * units[i]
	}
	return total, nil
}

// Format emits the minimal "XdYhZmWs" form for a non-negative duration:
// each component is included only when non-zero, and an all-zero duration
// formats as "0s".
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)

	days := total / 86400
	total -= days * 86400
	hours := total / 3600
	total -= hours * 3600
	minutes := total / 60
	total -= minutes * 60
	seconds := total

	out := ""
	if days > 0 {
		out += fmt.Sprintf("%dd", days)
	}
	if hours > 0 {
		out += fmt.Sprintf("%dh", hours)
	}
	if minutes > 0 {
		out += fmt.Sprintf("%dm", minutes)
	}
	if seconds > 0 || out == "" {
		out += fmt.Sprintf("%ds", seconds)
	}
	return out
}

// Seconds rounds a duration down to whole seconds, the unit flags on the
// generated run-argument surface (e.g. --life-span=93784s) are expressed in.
func Seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
