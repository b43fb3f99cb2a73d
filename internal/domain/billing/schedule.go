package billing

import "time"

// DateOnly truncates a timestamp to midnight UTC. All billing dates are
// calendar dates; storing anything finer invites off-by-one drift across
// time zones.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// firstOfNextMonth returns midnight UTC on the first day of the month
// following t.
func firstOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// NextDueDate returns the due date that follows a given due date for the
// frequency. Weekly due dates step by seven days; monthly due dates are the
// first of each month.
func NextDueDate(freq RateFrequency, after time.Time) time.Time {
	after = DateOnly(after)
	if freq == FrequencyWeekly {
		return after.AddDate(0, 0, 7)
	}
	return firstOfNextMonth(after)
}

// DueDates returns every rent due date at or before asOf that has not yet
// been charged, in ascending order.
//
// Weekly residents owe on their start date and every seventh day after it.
// Monthly residents owe on the first of each month beginning with the month
// after they move in; the move-in month is never charged. lastCharged is the
// most recent auto charge date, or nil when the resident has never been
// charged. A start date in the future yields nothing.
func DueDates(freq RateFrequency, startDate time.Time, lastCharged *time.Time, asOf time.Time) []time.Time {
	startDate = DateOnly(startDate)
	asOf = DateOnly(asOf)

	var next time.Time
	if lastCharged != nil {
		next = NextDueDate(freq, *lastCharged)
	} else if freq == FrequencyWeekly {
		next = startDate
	} else {
		next = firstOfNextMonth(startDate)
	}

	var due []time.Time
	for !next.After(asOf) {
		due = append(due, next)
		next = NextDueDate(freq, next)
	}
	return due
}
