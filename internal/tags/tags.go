// Package tags derives the tag set that is a remote job's sole persistent
// identity (spec.md §4.F): the remote name is cosmetic and length-bounded,
// so every discovery, kill, and attach decision in internal/jobctl goes
// through tag intersection, never names.
package tags

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	projectPrefix = "project:"
	jobPrefix     = "job:"
	multiPrefix   = "multi:"
)

// Project returns the "project:<id>" identity tag.
func Project(projectID string) string { return projectPrefix + projectID }

// Job returns the "job:<id>" identity tag.
func Job(jobID string) string { return jobPrefix + jobID }

// Multi returns the "multi:<suffix>" tag for a multi-job instance.
func Multi(suffix string) string { return multiPrefix + suffix }

// Identity builds the full tag set for a job instance: the project and job
// identity tags, the caller-declared user tags, and, when suffix is
// non-empty, the multi tag. Order is deterministic: identity tags first,
// then multi (if any), then user tags in the order given; user tags are
// appended as given and not de-duplicated.
func Identity(projectID, jobID, suffix string, userTags []string) []string {
	out := make([]string, 0, len(userTags)+3)
	out = append(out, Project(projectID), Job(jobID))
	if suffix != "" {
		out = append(out, Multi(suffix))
	}
	out = append(out, userTags...)
	return out
}

// NewSuffix generates a fresh 10-hex-character suffix from a cryptographic
// RNG, as spec.md §9 requires for multi-job instance identity.
func NewSuffix() (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generating multi suffix: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// ExtractJob returns the value of the "job:" tag, if present.
func ExtractJob(set []string) (string, bool) {
	return extract(set, jobPrefix)
}

// ExtractMulti returns the value of the "multi:" tag, if present.
func ExtractMulti(set []string) (string, bool) {
	return extract(set, multiPrefix)
}

// ExtractProject returns the value of the "project:" tag, if present.
func ExtractProject(set []string) (string, bool) {
	return extract(set, projectPrefix)
}

func extract(set []string, prefix string) (string, bool) {
	for _, t := range set {
		if strings.HasPrefix(t, prefix) {
			return strings.TrimPrefix(t, prefix), true
		}
	}
	return "", false
}

// Dedup returns tags with duplicates removed, preserving first-seen order.
// The parser de-duplicates YAML-sourced tags with its own helper; Dedup is
// applied when flow and job tags are combined (jobctl.MetaFromFlow).
func Dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
