package scheduler

import (
	"strconv"
	"strings"
)

// NormalizeID trims an identifier and strips leading zeros from numeric ones,
// so "02" and "2" compare equal everywhere.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return id
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return id
		}
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return id
	}
	return strconv.Itoa(n)
}

// SameID reports whether two identifiers denote the same person
func SameID(a, b string) bool {
	return NormalizeID(a) == NormalizeID(b)
}

// idSet is a set of normalized identifiers
type idSet map[string]struct{}

func newIDSet(ids []string) idSet {
	set := make(idSet, len(ids))
	for _, id := range ids {
		if n := NormalizeID(id); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func (s idSet) has(id string) bool {
	_, ok := s[NormalizeID(id)]
	return ok
}

// lessID orders identifiers numerically when both are numbers, lexically otherwise
func lessID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

// uniqueIDs normalizes ids and drops blanks and duplicates, keeping first-seen order
func uniqueIDs(ids []string) []string {
	seen := make(idSet, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		n := NormalizeID(id)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
