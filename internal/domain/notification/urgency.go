package notification

import "time"

// millisPerDay is the divisor for calendar-day ceilings
const millisPerDay = 86_400_000

// Urgency classifies how soon a payment is due
type Urgency string

const (
	UrgencyNone    Urgency = "none"     // More than 7 days out; no notification
	UrgencyRemind  Urgency = "reminder" // 4-7 days out
	UrgencyDueSoon Urgency = "due_soon" // 1-3 days out
	UrgencyOverdue Urgency = "overdue"  // Due today or past due; urgent
)

// LeaseExpiryTier classifies how soon a lease ends
type LeaseExpiryTier string

const (
	LeaseTierNone         LeaseExpiryTier = "none"          // More than 30 days out
	LeaseTierRenewal      LeaseExpiryTier = "renewal"       // 8-30 days out
	LeaseTierExpiringSoon LeaseExpiryTier = "expiring_soon" // 7 days or less
)

// CeilDays returns the calendar-day ceiling of the delta between now and
// until: the millisecond difference divided by 86,400,000, rounded up.
// Negative deltas stay negative.
func CeilDays(now, until time.Time) int {
	ms := until.Sub(now).Milliseconds()
	if ms <= 0 {
		return int(ms / millisPerDay)
	}
	return int((ms + millisPerDay - 1) / millisPerDay)
}

// PaymentUrgency derives the urgency tier for a payment due date
func PaymentUrgency(now, dueDate time.Time) Urgency {
	days := CeilDays(now, dueDate)
	switch {
	case days > 7:
		return UrgencyNone
	case days >= 4:
		return UrgencyRemind
	case days >= 1:
		return UrgencyDueSoon
	default:
		return UrgencyOverdue
	}
}

// LeaseExpiry derives the notice tier for a lease end date
func LeaseExpiry(now, leaseEnd time.Time) LeaseExpiryTier {
	days := CeilDays(now, leaseEnd)
	switch {
	case days > 30:
		return LeaseTierNone
	case days > 7:
		return LeaseTierRenewal
	default:
		return LeaseTierExpiringSoon
	}
}
