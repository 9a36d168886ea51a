package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwork/taskboard-api/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpand_Weekly(t *testing.T) {
	rule := domain.RecurrenceRule{
		Type:      domain.RecurrenceWeekly,
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 22),
	}

	got := Expand(rule, time.Time{})

	require.Len(t, got, 4)
	assert.Equal(t, date(2024, time.January, 1), got[0])
	assert.Equal(t, date(2024, time.January, 8), got[1])
	assert.Equal(t, date(2024, time.January, 15), got[2])
	assert.Equal(t, date(2024, time.January, 22), got[3])
}

func TestExpand_Daily(t *testing.T) {
	rule := domain.RecurrenceRule{
		Type:      domain.RecurrenceDaily,
		StartDate: date(2024, time.March, 1),
		EndDate:   date(2024, time.March, 5),
	}

	got := Expand(rule, time.Time{})

	require.Len(t, got, 5)
	assert.Equal(t, date(2024, time.March, 1), got[0])
	assert.Equal(t, date(2024, time.March, 5), got[4])
}

func TestExpand_Monthly_CalendarStep(t *testing.T) {
	rule := domain.RecurrenceRule{
		Type:      domain.RecurrenceMonthly,
		StartDate: date(2024, time.January, 15),
		EndDate:   date(2024, time.April, 15),
	}

	got := Expand(rule, time.Time{})

	require.Len(t, got, 4)
	assert.Equal(t, date(2024, time.February, 15), got[1])
	assert.Equal(t, date(2024, time.April, 15), got[3])
}

func TestExpand_Custom_IntervalDays(t *testing.T) {
	rule := domain.RecurrenceRule{
		Type:      domain.RecurrenceCustom,
		Interval:  10,
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 30),
	}

	got := Expand(rule, time.Time{})

	require.Len(t, got, 3)
	assert.Equal(t, date(2024, time.June, 1), got[0])
	assert.Equal(t, date(2024, time.June, 11), got[1])
	assert.Equal(t, date(2024, time.June, 21), got[2])
}

func TestExpand_EndBeforeStart_Empty(t *testing.T) {
	rule := domain.RecurrenceRule{
		Type:      domain.RecurrenceDaily,
		StartDate: date(2024, time.May, 10),
		EndDate:   date(2024, time.May, 1),
	}

	assert.Empty(t, Expand(rule, time.Time{}))
}

func TestExpand_ZeroStart_UsesBaseDue(t *testing.T) {
	rule := domain.RecurrenceRule{
		Type:    domain.RecurrenceWeekly,
		EndDate: date(2024, time.February, 1),
	}
	baseDue := date(2024, time.January, 25)

	got := Expand(rule, baseDue)

	require.Len(t, got, 2)
	assert.Equal(t, baseDue, got[0])
	assert.Equal(t, date(2024, time.February, 1), got[1])
}

func TestExpand_EndDateInclusive(t *testing.T) {
	rule := domain.RecurrenceRule{
		Type:      domain.RecurrenceDaily,
		StartDate: date(2024, time.July, 1),
		EndDate:   date(2024, time.July, 1),
	}

	got := Expand(rule, time.Time{})

	require.Len(t, got, 1)
	assert.Equal(t, date(2024, time.July, 1), got[0])
}

func TestDueDates_NoOffset_ReturnsOccurrences(t *testing.T) {
	rule := domain.RecurrenceRule{Type: domain.RecurrenceDaily}
	occurrences := []time.Time{date(2024, time.January, 1), date(2024, time.January, 2)}

	assert.Equal(t, occurrences, DueDates(rule, occurrences))
}

func TestDueDates_DayOffset(t *testing.T) {
	rule := domain.RecurrenceRule{
		Type:      domain.RecurrenceWeekly,
		DueOffset: &domain.DueOffset{Amount: 3, Unit: domain.OffsetDays},
	}
	occurrences := []time.Time{date(2024, time.January, 1)}

	got := DueDates(rule, occurrences)

	require.Len(t, got, 1)
	assert.Equal(t, date(2024, time.January, 4), got[0])
}

func TestDueDates_WeekOffset(t *testing.T) {
	rule := domain.RecurrenceRule{
		Type:      domain.RecurrenceMonthly,
		DueOffset: &domain.DueOffset{Amount: 2, Unit: domain.OffsetWeeks},
	}
	occurrences := []time.Time{date(2024, time.January, 1)}

	got := DueDates(rule, occurrences)

	require.Len(t, got, 1)
	assert.Equal(t, date(2024, time.January, 15), got[0])
}
