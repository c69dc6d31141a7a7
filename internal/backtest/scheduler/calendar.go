// Package scheduler computes the calendar side of the backtest: monthly
// option expirations and business-session lookups within an observed series.
package scheduler

import (
	"time"
)

// NthFriday returns the date of the n-th Friday of the given month. The
// second return is false when the month has fewer than n Fridays (e.g. n=5
// in a four-Friday month).
func NthFriday(year int, month time.Month, n int) (time.Time, bool) {
	count := 0
	for day := 1; day <= 31; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if d.Month() != month {
			break // day overflowed into the next month
		}
		if d.Weekday() == time.Friday {
			count++
			if count == n {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// IsBusinessDay reports whether d falls Monday through Friday.
func IsBusinessDay(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// PriorSession returns the latest date in ascending `dates` strictly before
// target, and false when no such date exists. Used to roll a holiday
// expiration back to the last traded session.
func PriorSession(dates []time.Time, target time.Time) (time.Time, bool) {
	for i := len(dates) - 1; i >= 0; i-- {
		if dates[i].Before(target) {
			return dates[i], true
		}
	}
	return time.Time{}, false
}

// OpenSession returns the session exactly daysBefore business sessions before
// expiration, counting backward among the weekday sessions of `dates` that
// precede it. Returns false when fewer than daysBefore such sessions exist.
func OpenSession(dates []time.Time, expiration time.Time, daysBefore int) (time.Time, bool) {
	if daysBefore <= 0 {
		return time.Time{}, false
	}
	seen := 0
	for i := len(dates) - 1; i >= 0; i-- {
		d := dates[i]
		if !d.Before(expiration) || !IsBusinessDay(d) {
			continue
		}
		seen++
		if seen == daysBefore {
			return d, true
		}
	}
	return time.Time{}, false
}

// BusinessDaysBetween counts the weekday dates in (open, close]. This is the
// business-day holding duration: zero when close does not follow open.
func BusinessDaysBetween(open, close time.Time) int {
	if !close.After(open) {
		return 0
	}
	n := 0
	for d := open.AddDate(0, 0, 1); !d.After(close); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			n++
		}
	}
	return n
}
