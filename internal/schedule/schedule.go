// Package schedule materializes virtual occurrences of recurring jobs for
// a display window. Occurrences are never persisted.
package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/windowrun/windowrun/internal/store"
)

// occurrenceNamespace seeds the deterministic ids of virtual instances.
var occurrenceNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("windowrun/occurrence"))

// Expand returns the occurrences of job that fall inside [start, end],
// both bounds inclusive. A job without a recurrence rule yields itself iff
// its scheduled date lies in the window; a rule with an unrecognized
// frequency is treated the same way, since stepping by it could never
// advance past the window. A recurring job is walked forward from its
// original scheduled date in fixed steps; the walk stops the first time a
// candidate passes the window end or the rule's end date.
//
// Each occurrence is a copy of the base job with the scheduled date
// replaced and a synthetic id derived from the base id and the instance
// date, so repeated expansions are idempotent and instances of different
// base jobs never collide.
func Expand(job store.Job, start, end time.Time) []store.Job {
	if end.Before(start) {
		return nil
	}

	if job.Recurrence == nil || !job.Recurrence.Frequency.Known() {
		if inWindow(job.ScheduledDate, start, end) {
			return []store.Job{job}
		}

		return nil
	}

	rule := job.Recurrence

	var out []store.Job

	for n := 0; ; n++ {
		candidate := step(job.ScheduledDate, rule.Frequency, n)

		if candidate.After(end) {
			break
		}

		if rule.EndDate != nil && candidate.After(*rule.EndDate) {
			break
		}

		if candidate.Before(start) {
			continue
		}

		instance := job.Clone()
		instance.ScheduledDate = candidate
		instance.ID = OccurrenceID(job.ID, candidate)
		out = append(out, instance)
	}

	return out
}

// ExpandAll expands every job in jobs over the same window.
func ExpandAll(jobs []store.Job, start, end time.Time) []store.Job {
	var out []store.Job

	for _, job := range jobs {
		out = append(out, Expand(job, start, end)...)
	}

	return out
}

// OccurrenceID derives the synthetic id of the occurrence of base job
// baseID on date. The derivation is deterministic.
func OccurrenceID(baseID string, date time.Time) string {
	name := baseID + "|" + date.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(occurrenceNamespace, []byte(name)).String()
}

// step returns the nth occurrence date for a known frequency. Weekly and
// fortnightly stepping is a fixed day offset; monthly stepping is
// calendar-month arithmetic from the origin, with the day-of-month clamped
// to the last day of shorter months so a month-end origin never drifts.
func step(origin time.Time, freq store.Frequency, n int) time.Time {
	switch freq {
	case store.Weekly:
		return origin.AddDate(0, 0, 7*n)
	case store.Fortnightly:
		return origin.AddDate(0, 0, 14*n)
	case store.Monthly:
		return addMonthsClamped(origin, n)
	}

	return origin
}

func addMonthsClamped(origin time.Time, n int) time.Time {
	year, month, day := origin.Date()

	first := time.Date(year, month+time.Month(n), 1,
		origin.Hour(), origin.Minute(), origin.Second(), origin.Nanosecond(), origin.Location())

	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day,
		origin.Hour(), origin.Minute(), origin.Second(), origin.Nanosecond(), origin.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
