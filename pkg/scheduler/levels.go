package scheduler

import "math"

// CeilingKind selects which shift ceiling a relaxation level enforces
type CeilingKind int

const (
	CeilingFloor CeilingKind = iota
	CeilingCeil
	CeilingCap
	CeilingNone
)

func (c CeilingKind) String() string {
	switch c {
	case CeilingFloor:
		return "floor"
	case CeilingCeil:
		return "ceil"
	case CeilingCap:
		return "cap"
	default:
		return "none"
	}
}

// RelaxationLevel is one step of the staged constraint search
type RelaxationLevel struct {
	RestReduction int
	IgnoreRest    bool
	Ceiling       CeilingKind
	Compensation  bool
	AllowRepeat   bool
}

// relaxesRest reports whether the level loosens the rest requirement at all
func (l RelaxationLevel) relaxesRest() bool {
	return l.IgnoreRest || l.RestReduction > 0
}

// StandardLevels is the search order of the class-rotation generator
var StandardLevels = []RelaxationLevel{
	{RestReduction: 0, Ceiling: CeilingFloor, Compensation: true},
	{RestReduction: 0, Ceiling: CeilingCeil, Compensation: true},
	{RestReduction: 1, Ceiling: CeilingCeil},
	{RestReduction: 1, Ceiling: CeilingCap},
	{IgnoreRest: true, Ceiling: CeilingCeil},
	{IgnoreRest: true, Ceiling: CeilingCap},
}

// restrictedLevelLimit caps the restricted-population search to the stricter levels
const restrictedLevelLimit = 4

// GroupLevels is the search order inside the on-duty manual group
var GroupLevels = []RelaxationLevel{
	{Ceiling: CeilingNone},
	{Ceiling: CeilingNone, AllowRepeat: true},
}

const (
	minimumRest = 3
	// finalDays is the window at month end in which repeating a post is tolerated
	finalDays = 3
	capSlack  = 1
)

// targets are the per-run limits derived before the daily loop
type targets struct {
	Floor   int
	Ceil    int
	Cap     int
	MinRest int
}

func (t targets) ceiling(kind CeilingKind) int {
	switch kind {
	case CeilingFloor:
		return t.Floor
	case CeilingCeil:
		return t.Ceil
	case CeilingCap:
		return t.Cap
	default:
		return math.MaxInt
	}
}

// standardTargets derives ceilings from total available slots and the
// minimum rest from the average daily row count.
func standardTargets(population, totalSlots, activeDays int) targets {
	if population <= 0 {
		return targets{MinRest: minimumRest}
	}
	ratio := float64(totalSlots) / float64(population)
	t := targets{
		Floor: int(math.Floor(ratio)),
		Ceil:  int(math.Ceil(ratio)),
	}
	t.Cap = t.Ceil + capSlack

	// population / avgDaily is the natural rotation period; a rest counter of
	// period-1 full days off is exactly one turn per period.
	t.MinRest = minimumRest
	if activeDays > 0 && totalSlots > 0 {
		avgDaily := float64(totalSlots) / float64(activeDays)
		if r := int(math.Floor(float64(population)/avgDaily)) - 1; r > t.MinRest {
			t.MinRest = r
		}
	}
	return t
}

// groupTargets uses the natural gap between two turns of the same group
func groupTargets(groups int) targets {
	rest := groups - 1
	if rest < 0 {
		rest = 0
	}
	return targets{Floor: math.MaxInt, Ceil: math.MaxInt, Cap: math.MaxInt, MinRest: rest}
}
