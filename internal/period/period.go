// Package period converts wall-clock time into quota reset periods. All
// boundaries are computed in a single fixed civil timezone so both partners
// see the same reset schedule no matter where they are.
package period

import (
	"fmt"
	"time"
)

// Zone is the civil timezone used for every period boundary.
var Zone = time.FixedZone("UTC+8", 8*60*60)

const (
	dateLayout  = "2006-01-02"
	bucketHours = 8
)

func local(now time.Time) time.Time {
	if now.IsZero() {
		now = time.Now()
	}
	return now.In(Zone)
}

// Daily returns the civil date for the given instant, e.g. "2024-03-01".
// Used for daily-question resets and streak continuity.
func Daily(now time.Time) string {
	return local(now).Format(dateLayout)
}

// Ticket returns the ticket period identifier: the civil date plus one of
// three 8-hour buckets (0: 00-08h, 1: 08-16h, 2: 16-24h).
func Ticket(now time.Time) string {
	t := local(now)
	return fmt.Sprintf("%s#%d", t.Format(dateLayout), t.Hour()/bucketHours)
}

// NextTicketBoundary returns the start of the next 8-hour bucket.
func NextTicketBoundary(now time.Time) time.Time {
	t := local(now)
	bucket := t.Hour() / bucketHours
	return time.Date(t.Year(), t.Month(), t.Day(), (bucket+1)*bucketHours, 0, 0, 0, Zone)
}

// NextDailyBoundary returns the next midnight in the fixed timezone.
func NextDailyBoundary(now time.Time) time.Time {
	t := local(now)
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, Zone)
}

// IsToday reports whether the stored civil date equals today's.
func IsToday(date string, now time.Time) bool {
	return date == Daily(now)
}

// IsYesterday reports whether the stored civil date is the day before today.
func IsYesterday(date string, now time.Time) bool {
	t := local(now)
	yesterday := time.Date(t.Year(), t.Month(), t.Day()-1, 0, 0, 0, 0, Zone)
	return date == yesterday.Format(dateLayout)
}
