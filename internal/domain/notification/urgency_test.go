package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCeilDays(t *testing.T) {
	now := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		until time.Time
		want  int
	}{
		{"same instant", now, 0},
		{"one millisecond ahead rounds up to a day", now.Add(time.Millisecond), 1},
		{"exactly one day", now.Add(24 * time.Hour), 1},
		{"one day and a second rounds up to two", now.Add(24*time.Hour + time.Second), 2},
		{"half a day ahead", now.Add(12 * time.Hour), 1},
		{"one day in the past", now.Add(-24 * time.Hour), -1},
		{"an hour in the past truncates to zero", now.Add(-time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CeilDays(now, tt.until))
		})
	}
}

func TestPaymentUrgency(t *testing.T) {
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		due  time.Time
		want Urgency
	}{
		{"8 days out yields none", now.AddDate(0, 0, 8), UrgencyNone},
		{"7 days out yields reminder", now.AddDate(0, 0, 7), UrgencyRemind},
		{"4 days out yields reminder", now.AddDate(0, 0, 4), UrgencyRemind},
		{"3 days out yields due soon", now.AddDate(0, 0, 3), UrgencyDueSoon},
		{"2 days out yields due soon", now.AddDate(0, 0, 2), UrgencyDueSoon},
		{"1 day out yields due soon", now.AddDate(0, 0, 1), UrgencyDueSoon},
		{"due now yields overdue", now, UrgencyOverdue},
		{"1 day past yields overdue", now.AddDate(0, 0, -1), UrgencyOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaymentUrgency(now, tt.due))
		})
	}
}

func TestLeaseExpiry(t *testing.T) {
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		end  time.Time
		want LeaseExpiryTier
	}{
		{"31 days out yields none", now.AddDate(0, 0, 31), LeaseTierNone},
		{"30 days out yields renewal", now.AddDate(0, 0, 30), LeaseTierRenewal},
		{"8 days out yields renewal", now.AddDate(0, 0, 8), LeaseTierRenewal},
		{"7 days out yields expiring soon", now.AddDate(0, 0, 7), LeaseTierExpiringSoon},
		{"ends today yields expiring soon", now, LeaseTierExpiringSoon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LeaseExpiry(now, tt.end))
		})
	}
}
