package scheduler

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exampleConfig is 74 students in three classes filling 16 rows a day in April 2025
func exampleConfig() *models.GenerationConfig {
	return &models.GenerationConfig{
		Students:     studentRange(74),
		ClassCount:   3,
		ServicePosts: []string{"Student on duty", "Guard commander", "Sentinels", "Male watch", "Media room watch", "Mess"},
		Slots:        []int{1, 1, 3, 3, 3, 5},
		Month:        4,
		Year:         2025,
	}
}

func generate(t *testing.T, cfg *models.GenerationConfig, history []models.HistoricalStats, shuffler Shuffler) *models.GenerationResult {
	t.Helper()
	s := NewScheduler(cfg, history)
	s.Rand = shuffler
	res, err := s.Generate()
	require.NoError(t, err)
	return res
}

// assertOncePerDay checks no student holds two rows on the same day
func assertOncePerDay(t *testing.T, res *models.GenerationResult) {
	t.Helper()
	for day := 1; day <= res.DaysInMonth; day++ {
		seen := map[string]string{}
		for _, row := range res.PostRows {
			student := res.ScheduleData[row.Name][day].Student
			if student == "" {
				continue
			}
			if other, dup := seen[student]; dup {
				t.Errorf("Day %d: student %s assigned to both %s and %s", day, student, other, row.Name)
			}
			seen[student] = row.Name
		}
	}
}

func assertAllFilled(t *testing.T, res *models.GenerationResult, day int) {
	t.Helper()
	for _, row := range res.PostRows {
		if res.ScheduleData[row.Name][day].Student == "" {
			t.Errorf("Expected %s to be filled on day %d", row.Name, day)
		}
	}
}

func totalsOf(a *models.AnalyticsResult) map[string]int {
	out := map[string]int{}
	for _, st := range a.StudentStats {
		out[st.Student] = st.TotalShifts
	}
	return out
}

func TestGenerate_ExampleScenario(t *testing.T) {
	for _, seed := range []int64{1, 42, 2025} {
		t.Run("seed "+strconv.FormatInt(seed, 10), func(t *testing.T) {
			cfg := exampleConfig()
			res := generate(t, cfg, nil, rand.New(rand.NewSource(seed)))

			require.Len(t, res.PostRows, 16)
			assert.Equal(t, 30, res.DaysInMonth)
			assert.Equal(t, "APRIL / 2025", res.ScheduleTitle)
			assert.Empty(t, res.Warnings)
			assert.Empty(t, res.Conflicts)
			for day := 1; day <= res.DaysInMonth; day++ {
				assertAllFilled(t, res, day)
			}
			assertOncePerDay(t, res)

			a := ComputeAnalytics(res, cfg, nil)
			assert.Equal(t, 480, a.TotalShiftsAssigned)
			assert.Equal(t, 6.5, a.AverageShiftsPerStudent)

			low, high := 1<<30, 0
			for _, st := range a.StudentStats {
				sum := 0
				for _, n := range st.PostBreakdown {
					sum += n
				}
				assert.Equal(t, st.TotalShifts, sum, "post breakdown of %s", st.Student)
				if st.TotalShifts < low {
					low = st.TotalShifts
				}
				if st.TotalShifts > high {
					high = st.TotalShifts
				}
			}
			assert.LessOrEqual(t, high-low, 1, "shift spread")
			assert.Equal(t, 6, low)
			assert.Equal(t, 7, high)
		})
	}
}

func TestGenerate_ZeroVarianceWithoutRelaxation(t *testing.T) {
	cfg := &models.GenerationConfig{
		Students:     studentRange(30),
		ClassCount:   3,
		ServicePosts: []string{"Guard"},
		Slots:        []int{2},
		Month:        4,
		Year:         2025,
	}
	res := generate(t, cfg, nil, NoShuffle{})

	assert.Equal(t, 0, res.RelaxedAssignments)
	for student, total := range totalsOf(ComputeAnalytics(res, cfg, nil)) {
		if total != 2 {
			t.Errorf("Expected student %s to have 2 shifts, got %d", student, total)
		}
	}
}

func TestGenerate_IgnoredDays(t *testing.T) {
	cfg := exampleConfig()
	cfg.IgnoredDays = []int{5, 6, 7, 40}
	res := generate(t, cfg, nil, NoShuffle{})

	assert.Equal(t, map[int]bool{5: true, 6: true, 7: true}, res.IgnoredDays)
	for _, row := range res.PostRows {
		for _, day := range []int{5, 6, 7} {
			cell := res.ScheduleData[row.Name][day]
			assert.True(t, cell.IsIgnoredDay)
			assert.Empty(t, cell.Student)
		}
	}
	assertAllFilled(t, res, 4)
	assertAllFilled(t, res, 8)
	assertOncePerDay(t, res)

	a := ComputeAnalytics(res, cfg, nil)
	for _, st := range a.StudentStats {
		assert.Equal(t, 27-st.TotalShifts, st.TotalDaysOff)
	}
	assert.NotContains(t, a.DailyClassDistribution, 5)
}

func TestGenerate_WeekendFlags(t *testing.T) {
	res := generate(t, exampleConfig(), nil, NoShuffle{})
	// April 5th and 6th 2025 are a Saturday and a Sunday
	row := res.PostRows[0].Name
	assert.False(t, res.ScheduleData[row][4].IsWeekend)
	assert.True(t, res.ScheduleData[row][5].IsWeekend)
	assert.True(t, res.ScheduleData[row][6].IsWeekend)
	assert.Equal(t, "S", res.AllDays[4].WeekdayInitial)
}

func TestGenerate_ReductionCycle(t *testing.T) {
	cfg := &models.GenerationConfig{
		Students:          studentRange(74),
		ClassCount:        3,
		ServicePosts:      []string{"Desk", "Sentinels", "Mess"},
		Slots:             []int{1, 3, 5},
		Month:             4,
		Year:              2025,
		IsCycleEnabled:    true,
		CyclePostToRemove: "mess",
	}
	res := generate(t, cfg, nil, rand.New(rand.NewSource(7)))

	for day := 1; day <= res.DaysInMonth; day++ {
		for _, row := range res.PostRows {
			filled := res.ScheduleData[row.Name][day].Student != ""
			if row.BasePost == "MESS" && IsReducedDay(day) {
				assert.False(t, filled, "%s must be empty on reduced day %d", row.Name, day)
			} else {
				assert.True(t, filled, "%s must be filled on day %d", row.Name, day)
			}
		}
	}
	assert.Empty(t, res.Warnings)
}

func TestGenerate_RestrictedStudentsMatchNormalizedIDs(t *testing.T) {
	tests := []struct {
		name       string
		students   []string
		restricted []string
	}{
		{"restricted list padded", studentRange(10), []string{"02"}},
		{"population padded", append([]string{"01", "02"}, studentRange(10)[2:]...), []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &models.GenerationConfig{
				Students:           tt.students,
				ClassCount:         2,
				ServicePosts:       []string{"Guard", "Kitchen", "Gate"},
				Slots:              []int{1, 1, 1},
				Month:              4,
				Year:               2025,
				RestrictedStudents: tt.restricted,
				RestrictedPosts:    []string{"guard"},
			}
			res := generate(t, cfg, nil, rand.New(rand.NewSource(3)))

			for day, cell := range res.ScheduleData["GUARD"] {
				if SameID(cell.Student, "2") {
					t.Errorf("Restricted student assigned to GUARD on day %d", day)
				}
			}
			a := ComputeAnalytics(res, cfg, nil)
			for _, st := range a.StudentStats {
				if st.Student == "2" {
					assert.Greater(t, st.TotalShifts, 0)
					assert.Equal(t, 0, st.PostBreakdown["GUARD"])
				}
			}
		})
	}
}

func TestGenerate_ValidationError(t *testing.T) {
	cfg := exampleConfig()
	cfg.Slots = []int{1, 1}
	res, err := NewScheduler(cfg, nil).Generate()
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrSlotMismatch)
}

func TestGenerate_PopulationWithGap(t *testing.T) {
	cfg := exampleConfig()
	cfg.Students = append(studentRange(4), studentRange(74)[5:]...)
	require.Len(t, cfg.Students, 73)

	res := generate(t, cfg, nil, rand.New(rand.NewSource(9)))
	assertOncePerDay(t, res)

	a := ComputeAnalytics(res, cfg, nil)
	assert.Equal(t, "A", statsFor(t, a, "4").Class)
	assert.Equal(t, "C", statsFor(t, a, "74").Class)
	for _, st := range a.StudentStats {
		assert.NotEqual(t, "5", st.Student)
	}
}

func TestGenerate_DeterministicWithoutShuffle(t *testing.T) {
	first := generate(t, exampleConfig(), nil, NoShuffle{})
	second := generate(t, exampleConfig(), nil, NoShuffle{})
	if diff := cmp.Diff(first.ScheduleData, second.ScheduleData); diff != "" {
		t.Errorf("Expected identical schedules (-first +second):\n%s", diff)
	}
}

func TestGenerate_RotationState(t *testing.T) {
	res := generate(t, exampleConfig(), nil, NoShuffle{})
	assert.Equal(t, 0, res.Rotation.NextClassStart, "30 active days rotate three classes back to A")
	require.Len(t, res.Rotation.Queues, 3)
	assert.Len(t, res.Rotation.Queues["A"], 25)
	assert.Len(t, res.Rotation.Queues["C"], 24)
}

func TestGenerate_HistoryRoundTrip(t *testing.T) {
	april := exampleConfig()
	res := generate(t, april, nil, rand.New(rand.NewSource(11)))
	history := NextHistory(ComputeAnalytics(res, april, nil))
	require.Len(t, history, 74)

	may := exampleConfig()
	may.Month = 5
	next := generate(t, may, history, rand.New(rand.NewSource(12)))

	trailing := map[string]int{}
	for _, h := range history {
		trailing[h.StudentID] = *h.TrailingRestDays
	}
	minRest := standardTargets(74, 16*31, 31).MinRest
	for _, row := range next.PostRows {
		student := next.ScheduleData[row.Name][1].Student
		require.NotEmpty(t, student)
		assert.GreaterOrEqual(t, trailing[student], minRest, "student %s worked on day 1 without enough rest", student)
	}

	a := ComputeAnalytics(next, may, history)
	for _, st := range a.StudentStats {
		prior := 0
		for _, h := range history {
			if h.StudentID == st.Student {
				prior = h.AccumulatedServices
			}
		}
		assert.Equal(t, prior+st.TotalShifts, st.AccumulatedServices)
	}
}

func groupModeConfig() *models.GenerationConfig {
	ids := studentRange(48)
	return &models.GenerationConfig{
		IsGroupMode: true,
		ManualGroups: []models.ManualGroup{
			{Name: "Alpha", Members: ids[0:18]},
			{Name: "Bravo", Members: ids[18:36]},
			{Name: "Charlie", Members: ids[36:48]},
		},
		ServicePosts:      []string{"Student on duty", "Guard commander", "Sentinels", "Male watch", "Media room watch", "Mess"},
		Slots:             []int{1, 1, 3, 3, 3, 5},
		Month:             4,
		Year:              2025,
		IsCycleEnabled:    true,
		CyclePostToRemove: "Mess",
	}
}

// onDutyGroup returns the group of whoever holds the first filled row on day
func onDutyGroup(res *models.GenerationResult, g Grouping, day int) string {
	for _, row := range res.PostRows {
		if s := res.ScheduleData[row.Name][day].Student; s != "" {
			return g.GroupOf(s)
		}
	}
	return ""
}

func TestGenerate_GroupModeShortStaffed(t *testing.T) {
	cfg := groupModeConfig()
	res := generate(t, cfg, nil, NoShuffle{})
	grouping := GroupingFor(cfg)
	assertOncePerDay(t, res)

	var charlieDays []int
	for day := 1; day <= res.DaysInMonth; day++ {
		group := onDutyGroup(res, grouping, day)
		assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}[(day-1)%3], group, "day %d", day)

		for _, row := range res.PostRows {
			student := res.ScheduleData[row.Name][day].Student
			if student != "" {
				assert.Equal(t, group, grouping.GroupOf(student))
			}
		}

		if group != "Charlie" {
			assertAllFilled(t, res, day)
			continue
		}
		charlieDays = append(charlieDays, day)
		var empty []string
		for _, row := range res.PostRows {
			if res.ScheduleData[row.Name][day].Student == "" {
				empty = append(empty, row.Name)
			}
		}
		require.Len(t, empty, 4, "day %d", day)
		for _, name := range empty {
			assert.True(t, strings.HasPrefix(name, "MESS"), "day %d left %s empty", day, name)
		}
	}

	require.Len(t, res.Warnings, len(charlieDays))
	for i, day := range charlieDays {
		assert.True(t, strings.HasPrefix(res.Warnings[i], "Day "+strconv.Itoa(day)+": group Charlie"), res.Warnings[i])
	}
	assert.Equal(t, 0, res.Rotation.NextGroupIndex)
}

func TestGenerate_GroupModeInfersStartFromHistory(t *testing.T) {
	cfg := groupModeConfig()
	var history []models.HistoricalStats
	for i := 1; i <= 48; i++ {
		rest := 2
		switch {
		case i <= 18:
			rest = 0 // Alpha worked the last day
		case i > 36:
			rest = 1
		}
		history = append(history, models.HistoricalStats{StudentID: strconv.Itoa(i), AccumulatedServices: 5, TrailingRestDays: intPtr(rest)})
	}

	res := generate(t, cfg, history, NoShuffle{})
	grouping := GroupingFor(cfg)
	assert.Equal(t, "Bravo", onDutyGroup(res, grouping, 1))
	assert.Equal(t, "Charlie", onDutyGroup(res, grouping, 2))
	assert.Equal(t, "Alpha", onDutyGroup(res, grouping, 3))
}

func TestGenerate_GroupModeSkipsUnrestedGroupOnDayOne(t *testing.T) {
	cfg := groupModeConfig()
	var history []models.HistoricalStats
	for i := 1; i <= 48; i++ {
		rest := 1
		if i > 18 && i <= 36 {
			rest = 0 // Bravo worked the last day, Charlie the day before
		}
		history = append(history, models.HistoricalStats{StudentID: strconv.Itoa(i), TrailingRestDays: intPtr(rest)})
	}

	res := generate(t, cfg, history, NoShuffle{})
	assert.Equal(t, "Alpha", onDutyGroup(res, GroupingFor(cfg), 1), "Charlie has nobody rested so Alpha starts")
}

func TestInferStartGroup(t *testing.T) {
	groups := NewManualGrouping([]models.ManualGroup{
		{Name: "G1", Members: []string{"1", "2"}},
		{Name: "G2", Members: []string{"3"}},
		{Name: "G3", Members: []string{"04"}},
	})

	assert.Equal(t, 0, InferStartGroup(groups, nil))

	history := HistoryIndex([]models.HistoricalStats{{StudentID: "2", TrailingRestDays: intPtr(0)}})
	assert.Equal(t, 1, InferStartGroup(groups, history))

	history = HistoryIndex([]models.HistoricalStats{
		{StudentID: "1", TrailingRestDays: intPtr(0)},
		{StudentID: "4", TrailingRestDays: intPtr(0)},
	})
	assert.Equal(t, 0, InferStartGroup(groups, history), "last group with zero rest wins and wraps around")

	history = HistoryIndex([]models.HistoricalStats{{StudentID: "3"}})
	assert.Equal(t, 0, InferStartGroup(groups, history), "unknown trailing rest infers nothing")
}
