package scheduler

import (
	"strconv"
	"strings"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

const (
	// UnknownClass is returned for identifiers outside the numeric range
	UnknownClass = "?"
	// Unclassified marks students that failed classification during validation
	Unclassified = "N/A"
	// Ungrouped is returned in manual mode for students in no group
	Ungrouped = "Ungrouped"
)

// Grouping resolves a student identifier to a rotation group label
type Grouping interface {
	GroupOf(id string) string
	// Labels returns the groups in their base rotation order
	Labels() []string
}

// ClassGrouping splits the range 1..StudentCount into ClassCount classes
// labelled A, B, C... Larger classes take the remainder and come first.
type ClassGrouping struct {
	StudentCount int
	ClassCount   int
}

func (g ClassGrouping) classes() int {
	if g.ClassCount <= 0 || g.StudentCount <= 0 {
		return 0
	}
	n := g.ClassCount
	if g.StudentCount < n {
		n = g.StudentCount
	}
	if n > 26 {
		n = 26
	}
	return n
}

// GroupOf returns the class letter for id, or UnknownClass
func (g ClassGrouping) GroupOf(id string) string {
	num, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || num <= 0 || num > g.StudentCount {
		return UnknownClass
	}
	numClasses := g.classes()
	if numClasses == 0 {
		return UnknownClass
	}

	baseSize := g.StudentCount / numClasses
	remainder := g.StudentCount % numClasses
	largeSize := baseSize + 1
	largeTotal := largeSize * remainder

	var idx int
	if num <= largeTotal {
		idx = (num - 1) / largeSize
	} else {
		idx = (num-largeTotal-1)/baseSize + remainder
	}
	if idx < 0 || idx >= numClasses {
		return UnknownClass
	}
	return string(rune('A' + idx))
}

// Labels returns A.. up to the effective class count
func (g ClassGrouping) Labels() []string {
	n := g.classes()
	labels := make([]string, n)
	for i := range labels {
		labels[i] = string(rune('A' + i))
	}
	return labels
}

// ManualGrouping assigns students to explicitly listed groups
type ManualGrouping struct {
	Groups []models.ManualGroup
	index  map[string]string
}

// NewManualGrouping builds the member index once; the first group listing
// a student wins.
func NewManualGrouping(groups []models.ManualGroup) *ManualGrouping {
	g := &ManualGrouping{Groups: groups, index: make(map[string]string)}
	for _, grp := range groups {
		for _, m := range grp.Members {
			id := NormalizeID(m)
			if id == "" {
				continue
			}
			if _, taken := g.index[id]; !taken {
				g.index[id] = grp.Name
			}
		}
	}
	return g
}

// GroupOf returns the name of the first group containing id
func (g *ManualGrouping) GroupOf(id string) string {
	if name, ok := g.index[NormalizeID(id)]; ok {
		return name
	}
	return Ungrouped
}

// Labels returns group names in configured order
func (g *ManualGrouping) Labels() []string {
	labels := make([]string, len(g.Groups))
	for i, grp := range g.Groups {
		labels[i] = grp.Name
	}
	return labels
}

// Members returns the normalized members that belong to group i
func (g *ManualGrouping) Members(i int) []string {
	var out []string
	for _, id := range uniqueIDs(g.Groups[i].Members) {
		if g.index[id] == g.Groups[i].Name {
			out = append(out, id)
		}
	}
	return out
}

// GroupingFor returns the grouping scheme active for cfg
func GroupingFor(cfg *models.GenerationConfig) Grouping {
	if cfg.IsGroupMode {
		return NewManualGrouping(cfg.ManualGroups)
	}
	count := cfg.StudentCount
	if count <= 0 {
		count = classRange(cfg.Students)
	}
	classes := cfg.ClassCount
	if classes <= 0 {
		classes = 3
	}
	return ClassGrouping{StudentCount: count, ClassCount: classes}
}

// classRange is the highest numeric identifier in students, so gaps left by
// excluded students keep the remaining IDs in range. Falls back to the list
// length when no identifier is numeric.
func classRange(students []string) int {
	highest := 0
	for _, id := range students {
		if n, err := strconv.Atoi(NormalizeID(id)); err == nil && n > highest {
			highest = n
		}
	}
	if highest == 0 {
		return len(students)
	}
	return highest
}
