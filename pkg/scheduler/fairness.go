package scheduler

import (
	"sort"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// maxRestBalance bounds the rest balance accumulator in both directions
const maxRestBalance = 1

// person is the running fairness state of one student during a run
type person struct {
	ID         string
	Group      string
	Restricted bool

	RunShifts     int
	RunPostCounts map[string]int

	// Accumulated and PostCounts include carried-over history
	Accumulated int
	PostCounts  map[string]int

	Rest        int
	RestBalance int
	LastPost    string
}

// fairnessState owns every person for the duration of one run
type fairnessState struct {
	people  []*person
	byID    map[string]*person
	minRest int
}

func newFairnessState(ids []string, grouping Grouping, restricted idSet, history map[string]models.HistoricalStats, minRest int) *fairnessState {
	f := &fairnessState{byID: make(map[string]*person, len(ids)), minRest: minRest}
	for _, id := range ids {
		p := &person{
			ID:            id,
			Group:         grouping.GroupOf(id),
			Restricted:    restricted.has(id),
			RunPostCounts: make(map[string]int),
			PostCounts:    make(map[string]int),
			Rest:          minRest,
		}
		if h, ok := history[id]; ok {
			p.Accumulated = h.AccumulatedServices
			for post, n := range h.AccumulatedPostCounts {
				p.PostCounts[normalizePost(post)] += n
			}
			if h.TrailingRestDays != nil {
				p.Rest = *h.TrailingRestDays
			}
		}
		f.people = append(f.people, p)
		f.byID[id] = p
	}
	return f
}

// assign records p filling row today. The rest counter is reset by endOfDay.
func (f *fairnessState) assign(p *person, row models.DutyRow) {
	p.RunShifts++
	p.Accumulated++
	p.RunPostCounts[row.BasePost]++
	p.PostCounts[row.BasePost]++
	p.LastPost = row.BasePost

	p.RestBalance += p.Rest - f.minRest
	if p.RestBalance > maxRestBalance {
		p.RestBalance = maxRestBalance
	}
	if p.RestBalance < -maxRestBalance {
		p.RestBalance = -maxRestBalance
	}
}

// endOfDay resets the rest counter of everyone assigned and advances the rest
func (f *fairnessState) endOfDay(assigned map[string]bool) {
	for _, p := range f.people {
		if assigned[p.ID] {
			p.Rest = 0
		} else {
			p.Rest++
		}
	}
}

// ordered returns people sorted by group priority, then identifier
func (f *fairnessState) ordered(priority map[string]int) []*person {
	out := make([]*person, len(f.people))
	copy(out, f.people)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := groupPriority(priority, out[i].Group), groupPriority(priority, out[j].Group)
		if pi != pj {
			return pi < pj
		}
		return lessID(out[i].ID, out[j].ID)
	})
	return out
}

func groupPriority(priority map[string]int, group string) int {
	if p, ok := priority[group]; ok {
		return p
	}
	return len(priority)
}

// queues returns each group's members with the member owed a shift first:
// fewest shifts this run, then longest current rest.
func (f *fairnessState) queues(labels []string) map[string][]string {
	byGroup := make(map[string][]*person, len(labels))
	for _, p := range f.people {
		byGroup[p.Group] = append(byGroup[p.Group], p)
	}
	out := make(map[string][]string, len(labels))
	for _, label := range labels {
		members := byGroup[label]
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].RunShifts != members[j].RunShifts {
				return members[i].RunShifts < members[j].RunShifts
			}
			if members[i].Rest != members[j].Rest {
				return members[i].Rest > members[j].Rest
			}
			return lessID(members[i].ID, members[j].ID)
		})
		ids := make([]string, len(members))
		for i, p := range members {
			ids[i] = p.ID
		}
		out[label] = ids
	}
	return out
}
