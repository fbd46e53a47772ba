package scheduler

import (
	"strconv"
	"testing"

	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassGrouping_SeventyFourStudents(t *testing.T) {
	g := ClassGrouping{StudentCount: 74, ClassCount: 3}

	counts := map[string]int{}
	for i := 1; i <= 74; i++ {
		counts[g.GroupOf(strconv.Itoa(i))]++
	}
	assert.Equal(t, map[string]int{"A": 25, "B": 25, "C": 24}, counts)

	assert.Equal(t, "A", g.GroupOf("25"))
	assert.Equal(t, "B", g.GroupOf("26"))
	assert.Equal(t, "B", g.GroupOf("50"))
	assert.Equal(t, "C", g.GroupOf("51"))
	assert.Equal(t, "A", g.GroupOf("01"))
	assert.Equal(t, []string{"A", "B", "C"}, g.Labels())
}

func TestClassGrouping_OutOfRange(t *testing.T) {
	g := ClassGrouping{StudentCount: 10, ClassCount: 3}
	for _, id := range []string{"0", "-1", "11", "abc", ""} {
		assert.Equal(t, UnknownClass, g.GroupOf(id), "id %q", id)
	}
}

func TestClassGrouping_MoreClassesThanStudents(t *testing.T) {
	g := ClassGrouping{StudentCount: 2, ClassCount: 5}
	assert.Equal(t, []string{"A", "B"}, g.Labels())
	assert.Equal(t, "A", g.GroupOf("1"))
	assert.Equal(t, "B", g.GroupOf("2"))
}

func TestManualGrouping(t *testing.T) {
	g := NewManualGrouping([]models.ManualGroup{
		{Name: "North", Members: []string{"1", "2", "10"}},
		{Name: "South", Members: []string{"3", "02", "11"}},
	})

	assert.Equal(t, "North", g.GroupOf("1"))
	assert.Equal(t, "North", g.GroupOf("010"))
	assert.Equal(t, "South", g.GroupOf("11"))
	// first group listing a student wins
	assert.Equal(t, "North", g.GroupOf("2"))
	assert.Equal(t, Ungrouped, g.GroupOf("12"))
	assert.Equal(t, []string{"North", "South"}, g.Labels())
	assert.Equal(t, []string{"3", "11"}, g.Members(1))
}

func TestGroupingFor(t *testing.T) {
	cfg := &models.GenerationConfig{Students: []string{"1", "2", "3", "4"}}
	g, ok := GroupingFor(cfg).(ClassGrouping)
	require.True(t, ok)
	assert.Equal(t, 4, g.StudentCount)
	assert.Equal(t, 3, g.ClassCount)

	cfg.IsGroupMode = true
	_, ok = GroupingFor(cfg).(*ManualGrouping)
	assert.True(t, ok)
}

func TestGroupingFor_GapInPopulation(t *testing.T) {
	tests := []struct {
		name     string
		students []string
		want     int
	}{
		{"contiguous", []string{"1", "2", "3"}, 3},
		{"excluded middle", []string{"1", "2", "4", "05"}, 5},
		{"unordered", []string{"9", "3", "1"}, 9},
		{"no numeric ids", []string{"ana", "bia"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GroupingFor(&models.GenerationConfig{Students: tt.students}).(ClassGrouping)
			assert.Equal(t, tt.want, g.StudentCount)
		})
	}
}
