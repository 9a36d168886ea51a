// Package recur implements the recurrence-expansion algorithm: materializing
// the bounded, ordered set of occurrence dates a recurrence rule describes.
//
// Expansion is pure and deterministic. Callers (the recurrence service) decide
// what to do with the occurrences: the first one is represented by the task
// the user created, the rest become generated instances.
package recur

import (
	"time"

	"github.com/fernwork/taskboard-api/internal/domain"
)

// Expand materializes every occurrence date of the rule, from its start date
// (or baseDue when the rule has no start date) through its end date inclusive,
// stepping by the rule's cadence:
//
//   - daily: +1 day
//   - weekly: +7 days
//   - monthly: +1 calendar month
//   - custom: +Interval days
//
// Generation terminates strictly when the next candidate exceeds the end
// date. When the end date precedes the start date the result is empty.
func Expand(rule domain.RecurrenceRule, baseDue time.Time) []time.Time {
	start := rule.StartDate
	if start.IsZero() {
		start = baseDue
	}

	var occurrences []time.Time
	for current := start; !current.After(rule.EndDate); current = step(rule, current) {
		occurrences = append(occurrences, current)
	}
	return occurrences
}

// DueDates applies the rule's due offset to each occurrence, producing the
// due dates of the generated instances.
func DueDates(rule domain.RecurrenceRule, occurrences []time.Time) []time.Time {
	if rule.DueOffset == nil || rule.DueOffset.Amount == 0 {
		return occurrences
	}

	shift := rule.DueOffset.Duration()
	dues := make([]time.Time, len(occurrences))
	for i, occ := range occurrences {
		dues[i] = occ.Add(shift)
	}
	return dues
}

// step advances one cadence interval from the given date. Monthly stepping
// uses calendar months, so Jan 31 -> Mar 3 normalization follows time.AddDate
// semantics.
func step(rule domain.RecurrenceRule, from time.Time) time.Time {
	switch rule.Type {
	case domain.RecurrenceDaily:
		return from.AddDate(0, 0, 1)
	case domain.RecurrenceWeekly:
		return from.AddDate(0, 0, 7)
	case domain.RecurrenceMonthly:
		return from.AddDate(0, 1, 0)
	case domain.RecurrenceCustom:
		return from.AddDate(0, 0, rule.Interval)
	default:
		// Unknown cadences cannot occur for validated rules; step past the
		// end date so expansion terminates.
		return rule.EndDate.AddDate(0, 0, 1)
	}
}
