package scheduler

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/rs/zerolog"
)

// Shuffler randomizes row fill order. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NoShuffle keeps rows in configured order
type NoShuffle struct{}

// Shuffle does nothing
func (NoShuffle) Shuffle(int, func(i, j int)) {}

var weekdayInitials = [7]string{"S", "M", "T", "W", "T", "F", "S"}

// Scheduler generates one month of duty assignments
type Scheduler struct {
	Config  *models.GenerationConfig
	History []models.HistoricalStats
	Rand    Shuffler
	Logger  zerolog.Logger
}

// NewScheduler creates a new scheduler instance with a time-seeded shuffle
func NewScheduler(cfg *models.GenerationConfig, history []models.HistoricalStats) *Scheduler {
	return &Scheduler{
		Config:  cfg,
		History: history,
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:  zerolog.Nop(),
	}
}

// plan is the resolved, validated input of one run
type plan struct {
	students    []string
	rows        []models.DutyRow
	grouping    Grouping
	restricted  idSet
	history     map[string]models.HistoricalStats
	cyclePost   string
	year        int
	month       time.Month
	daysInMonth int
	ignored     map[int]bool
}

func (p *plan) weekend(day int) bool {
	wd := time.Date(p.year, p.month, day, 0, 0, 0, 0, time.UTC).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysIn returns the number of days in month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// HistoryIndex keys historical stats by normalized student identifier
func HistoryIndex(history []models.HistoricalStats) map[string]models.HistoricalStats {
	idx := make(map[string]models.HistoricalStats, len(history))
	for _, h := range history {
		idx[NormalizeID(h.StudentID)] = h
	}
	return idx
}

func (s *Scheduler) prepare() (*plan, error) {
	cfg := s.Config
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	rows, err := ExpandPosts(cfg.ServicePosts, cfg.Slots, cfg.RestrictedPosts)
	if err != nil {
		return nil, err
	}

	p := &plan{
		students:    Population(cfg),
		rows:        rows,
		grouping:    GroupingFor(cfg),
		restricted:  newIDSet(cfg.RestrictedStudents),
		history:     HistoryIndex(s.History),
		year:        cfg.Year,
		month:       cfg.Month,
		daysInMonth: DaysIn(cfg.Year, cfg.Month),
		ignored:     make(map[int]bool),
	}
	if cfg.IsCycleEnabled {
		p.cyclePost = normalizePost(cfg.CyclePostToRemove)
	}
	for _, d := range cfg.IgnoredDays {
		if d >= 1 && d <= p.daysInMonth {
			p.ignored[d] = true
		}
	}
	return p, nil
}

func (s *Scheduler) newResult(p *plan) *models.GenerationResult {
	res := &models.GenerationResult{
		ScheduleData:  make(map[string]map[int]models.ScheduleCell, len(p.rows)),
		ScheduleTitle: fmt.Sprintf("%s / %d", strings.ToUpper(p.month.String()), p.year),
		DaysInMonth:   p.daysInMonth,
		PostRows:      p.rows,
		IgnoredDays:   p.ignored,
		Warnings:      []string{},
	}
	for _, r := range p.rows {
		res.ScheduleData[r.Name] = make(map[int]models.ScheduleCell, p.daysInMonth)
	}
	for day := 1; day <= p.daysInMonth; day++ {
		wd := time.Date(p.year, p.month, day, 0, 0, 0, 0, time.UTC).Weekday()
		res.AllDays = append(res.AllDays, models.ScheduleDay{Day: day, Weekday: wd, WeekdayInitial: weekdayInitials[wd]})
		for _, r := range p.rows {
			res.ScheduleData[r.Name][day] = models.ScheduleCell{IsWeekend: p.weekend(day), IsIgnoredDay: p.ignored[day]}
		}
	}
	return res
}

// Generate validates the configuration and builds the month
func (s *Scheduler) Generate() (*models.GenerationResult, error) {
	p, err := s.prepare()
	if err != nil {
		return nil, err
	}
	if s.Rand == nil {
		s.Rand = NoShuffle{}
	}

	res := s.newResult(p)
	if s.Config.IsGroupMode {
		s.runGroupRotation(p, res)
	} else {
		s.runStandard(p, res)
	}

	s.Logger.Debug().
		Int("rows", len(p.rows)).
		Int("students", len(p.students)).
		Int("relaxed", res.RelaxedAssignments).
		Int("warnings", len(res.Warnings)).
		Msg("schedule generated")
	return res, nil
}

// place writes an assignment into the grid and the fairness state
func place(res *models.GenerationResult, state *fairnessState, ctx *dayContext, row models.DutyRow, p *person) {
	state.assign(p, row)
	ctx.mark(p)
	cell := res.ScheduleData[row.Name][ctx.Day]
	cell.Student = p.ID
	res.ScheduleData[row.Name][ctx.Day] = cell
}

func rotate(labels []string, start int) []string {
	n := len(labels)
	out := make([]string, n)
	for i := range labels {
		out[i] = labels[(start+i)%n]
	}
	return out
}
