package notification

import (
	"fmt"
	"time"

	"github.com/boardinghouse/backend/internal/domain/billing"
	"github.com/boardinghouse/backend/internal/domain/housing"
)

// paymentExpiryWindow is how long after the due date a payment notification
// remains relevant
const paymentExpiryWindow = 30 * 24 * time.Hour

// dateLayout is the human-readable date format used in messages
const dateLayout = "Jan 2, 2006"

// ForPaymentDue builds a due-date notification for a payment, or returns
// false when the due date is more than 7 days out and no notification is
// warranted. The urgency tier decides the notification type and wording.
func ForPaymentDue(p *billing.Payment, recipient Recipient, now time.Time) (Notification, bool) {
	urgency := PaymentUrgency(now, p.DueDate)
	if urgency == UrgencyNone {
		return Notification{}, false
	}

	var (
		notifType Type
		message   string
	)
	label := paymentLabel(p.Type)
	amount := p.Amount.StringFixed(2)
	due := p.DueDate.Format(dateLayout)

	switch urgency {
	case UrgencyRemind:
		notifType = TypePaymentReminder
		message = fmt.Sprintf("Reminder: your %s of %s is due on %s.", label, amount, due)
	case UrgencyDueSoon:
		notifType = TypePaymentDueSoon
		message = fmt.Sprintf("Your %s of %s is due soon, on %s.", label, amount, due)
	default:
		notifType = TypePaymentOverdue
		message = fmt.Sprintf("URGENT: your %s of %s was due on %s and is now overdue.", label, amount, due)
	}

	expires := p.DueDate.Add(paymentExpiryWindow)
	return Notification{
		Recipient: recipient,
		Type:      notifType,
		Message:   message,
		Metadata:  paymentMetadata(p),
		ExpiresAt: &expires,
	}, true
}

// ForPaymentReceived builds a settlement confirmation for a paid payment
func ForPaymentReceived(p *billing.Payment, recipient Recipient) Notification {
	message := fmt.Sprintf("Payment of %s received for %s. Receipt %s.",
		p.Amount.StringFixed(2), paymentLabel(p.Type), p.ReceiptNumber)
	meta := paymentMetadata(p)
	meta["receipt_number"] = p.ReceiptNumber
	return Notification{
		Recipient: recipient,
		Type:      TypePaymentReceived,
		Message:   message,
		Metadata:  meta,
	}
}

// ForDepositRequired builds the notice that a pending security deposit
// gates rent billing
func ForDepositRequired(p *billing.Payment, recipient Recipient) Notification {
	expires := p.DueDate.Add(paymentExpiryWindow)
	return Notification{
		Recipient: recipient,
		Type:      TypeDepositRequired,
		Message: fmt.Sprintf("A security deposit of %s is due on %s. Rent billing begins once the deposit is settled.",
			p.Amount.StringFixed(2), p.DueDate.Format(dateLayout)),
		Metadata:  paymentMetadata(p),
		ExpiresAt: &expires,
	}
}

// ForLeaseExpiry builds a lease-end notice for a tenant, or returns false
// when the lease end is more than 30 days out
func ForLeaseExpiry(t *housing.Tenant, recipient Recipient, now time.Time) (Notification, bool) {
	if t.LeaseEndDate == nil {
		return Notification{}, false
	}
	tier := LeaseExpiry(now, *t.LeaseEndDate)
	if tier == LeaseTierNone {
		return Notification{}, false
	}

	end := t.LeaseEndDate.Format(dateLayout)
	meta := map[string]string{
		"tenant_id": t.ID.String(),
		"lease_end": t.LeaseEndDate.Format(time.RFC3339),
	}

	if tier == LeaseTierExpiringSoon {
		return Notification{
			Recipient: recipient,
			Type:      TypeLeaseExpiring,
			Message:   fmt.Sprintf("Lease for %s expires on %s.", t.Name, end),
			Metadata:  meta,
		}, true
	}
	return Notification{
		Recipient: recipient,
		Type:      TypeLeaseRenewal,
		Message:   fmt.Sprintf("Lease for %s ends on %s. Consider a renewal.", t.Name, end),
		Metadata:  meta,
	}, true
}

// ForTenantAssigned builds the move-in notice sent to staff
func ForTenantAssigned(t *housing.Tenant, roomNumber string, recipient Recipient) Notification {
	return Notification{
		Recipient: recipient,
		Type:      TypeTenantAssigned,
		Message:   fmt.Sprintf("%s has been assigned to room %s.", t.Name, roomNumber),
		Metadata:  map[string]string{"tenant_id": t.ID.String()},
	}
}

// ForTenantArchived builds the archive notice sent to staff
func ForTenantArchived(t *housing.Tenant, recipient Recipient) Notification {
	return Notification{
		Recipient: recipient,
		Type:      TypeTenantArchived,
		Message:   fmt.Sprintf("%s has been archived and released from their room.", t.Name),
		Metadata:  map[string]string{"tenant_id": t.ID.String()},
	}
}

func paymentLabel(t billing.PaymentType) string {
	switch t {
	case billing.PaymentTypeRent:
		return "rent payment"
	case billing.PaymentTypeDeposit:
		return "security deposit"
	case billing.PaymentTypeUtility:
		return "utility charge"
	case billing.PaymentTypeMaintenance:
		return "maintenance charge"
	case billing.PaymentTypePenalty:
		return "penalty charge"
	default:
		return "payment"
	}
}

func paymentMetadata(p *billing.Payment) map[string]string {
	meta := map[string]string{
		"payment_id":   p.ID.String(),
		"tenant_id":    p.TenantID.String(),
		"payment_type": p.Type.String(),
		"due_date":     p.DueDate.Format(time.RFC3339),
	}
	if period := p.Period(); period != nil {
		meta["period"] = period.Label()
	}
	return meta
}
