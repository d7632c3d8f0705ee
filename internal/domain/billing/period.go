package billing

import (
	"fmt"
	"time"
)

// maxDueDay caps the day-of-month for normalized due dates. Pinning to 28
// avoids month-length overflow (there is no Feb 30); this is a documented
// billing policy, not a defect.
const maxDueDay = 28

// Period is the calendar-month interval a rent payment covers
type Period struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// MonthBounds returns the period spanning the first and last calendar day
// of the month containing t, in t's location. Pure function.
func MonthBounds(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, -1)
	return Period{Start: start, End: end}
}

// ClampDueDay normalizes a due date so its day-of-month never exceeds 28.
func ClampDueDay(t time.Time) time.Time {
	if t.Day() <= maxDueDay {
		return t
	}
	return time.Date(t.Year(), t.Month(), maxDueDay, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// MonthLabel formats t's month as "YYYY-MM"
func MonthLabel(t time.Time) string {
	return t.Format("2006-01")
}

// ParseMonthLabel parses a "YYYY-MM" label into the first day of that month
func ParseMonthLabel(label string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", label, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month label %q: %w", label, err)
	}
	return t, nil
}

// Contains returns true if d falls within the period (inclusive bounds)
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Equal returns true if both periods cover the same interval
func (p Period) Equal(other Period) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

// Label returns the "YYYY-MM" label of the period's month
func (p Period) Label() string {
	return MonthLabel(p.Start)
}
