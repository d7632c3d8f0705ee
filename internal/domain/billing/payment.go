package billing

import (
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentType represents the kind of charge a payment covers
type PaymentType string

const (
	PaymentTypeRent        PaymentType = "rent"
	PaymentTypeDeposit     PaymentType = "deposit"
	PaymentTypeUtility     PaymentType = "utility"
	PaymentTypeMaintenance PaymentType = "maintenance"
	PaymentTypePenalty     PaymentType = "penalty"
	PaymentTypeOther       PaymentType = "other"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeRent, PaymentTypeDeposit, PaymentTypeUtility,
		PaymentTypeMaintenance, PaymentTypePenalty, PaymentTypeOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// PaymentStatus represents the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // Created, awaiting settlement
	PaymentStatusPaid    PaymentStatus = "paid"    // Settled; terminal
	PaymentStatusOverdue PaymentStatus = "overdue" // Past due date, still owed
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions leave this status
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusPaid
}

// CanMarkPaid returns true if the payment can still be settled
func (s PaymentStatus) CanMarkPaid() bool {
	return s == PaymentStatusPending || s == PaymentStatusOverdue
}

// PaymentMethod represents how a payment was (or will be) settled
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodGCash        PaymentMethod = "gcash"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodGCash,
		PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// LateFee carries the late-fee amount attached to a payment
type LateFee struct {
	Amount valueobject.Money `gorm:"column:amount;type:numeric(12,2)" json:"amount"`
	IsLate bool              `gorm:"column:is_late" json:"is_late_payment"`
}

// Billing-specific domain errors
var (
	ErrPaymentNotFound     = shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
	ErrPaymentAlreadyPaid  = shared.NewDomainError("PAYMENT_ALREADY_PAID", "Payment has already been marked as paid")
	ErrDuplicateRentPeriod = shared.NewDomainError("DUPLICATE_RENT_PERIOD", "A rent payment already exists for this tenant and period")
	ErrMissingRentPeriod   = shared.NewDomainError("MISSING_RENT_PERIOD", "Rent payments require a covered period")
	ErrNegativeAmount      = shared.NewDomainError("NEGATIVE_AMOUNT", "Payment amount cannot be negative")
	ErrAmountNotResolvable = shared.NewDomainError("AMOUNT_NOT_RESOLVABLE", "No payment amount could be resolved from tenant or room")
)

// Payment is a single charge against a tenant
type Payment struct {
	shared.BaseAggregateRoot

	TenantID uuid.UUID  `gorm:"type:uuid;not null;index"`
	RoomID   *uuid.UUID `gorm:"type:uuid;index"`

	Amount valueobject.Money `gorm:"type:numeric(12,2);not null"`
	Type   PaymentType       `gorm:"size:20;not null;index"`
	Status PaymentStatus     `gorm:"size:20;not null;index"`
	Method PaymentMethod     `gorm:"size:20;not null"`

	DueDate     time.Time  `gorm:"not null;index"`
	PaymentDate *time.Time ``

	// PeriodStart/PeriodEnd are the calendar-month bounds a rent payment
	// covers; nil for non-rent payments.
	PeriodStart *time.Time `gorm:"index"`
	PeriodEnd   *time.Time ``

	// ReceiptNumber is assigned on the transition into paid and is
	// immutable thereafter.
	ReceiptNumber string `gorm:"size:32"`

	LateFee LateFee `gorm:"embedded;embeddedPrefix:late_fee_"`

	RecordedBy           *uuid.UUID `gorm:"type:uuid"`
	TransactionReference string     `gorm:"size:128"`
	Notes                string     `gorm:"type:text"`
}

// TableName returns the database table name
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment of any type. Rent payments must carry a
// covered period; all amounts must be non-negative.
func NewPayment(tenantID uuid.UUID, roomID *uuid.UUID, amount valueobject.Money, paymentType PaymentType, dueDate time.Time, period *Period, recordedBy *uuid.UUID) (*Payment, error) {
	if !paymentType.IsValid() {
		return nil, shared.ErrInvalidInput
	}
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if paymentType == PaymentTypeRent && period == nil {
		return nil, ErrMissingRentPeriod
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenantID:          tenantID,
		RoomID:            roomID,
		Amount:            amount,
		Type:              paymentType,
		Status:            PaymentStatusPending,
		Method:            PaymentMethodCash,
		DueDate:           ClampDueDay(dueDate),
		LateFee:           LateFee{Amount: valueobject.ZeroPHP()},
		RecordedBy:        recordedBy,
	}
	if period != nil {
		start, end := period.Start, period.End
		p.PeriodStart = &start
		p.PeriodEnd = &end
	}

	p.AddDomainEvent(NewPaymentCreatedEvent(p))
	return p, nil
}

// NewRentPayment creates a pending rent payment for the given period, due
// on the first day of the period's month.
func NewRentPayment(tenantID uuid.UUID, roomID *uuid.UUID, amount valueobject.Money, period Period, recordedBy *uuid.UUID) (*Payment, error) {
	return NewPayment(tenantID, roomID, amount, PaymentTypeRent, period.Start, &period, recordedBy)
}

// NewDepositPayment creates a pending security deposit payment due immediately.
func NewDepositPayment(tenantID uuid.UUID, roomID *uuid.UUID, amount valueobject.Money, dueDate time.Time, recordedBy *uuid.UUID) (*Payment, error) {
	return NewPayment(tenantID, roomID, amount, PaymentTypeDeposit, dueDate, nil, recordedBy)
}

// Period returns the covered rent period, or nil for non-rent payments
func (p *Payment) Period() *Period {
	if p.PeriodStart == nil || p.PeriodEnd == nil {
		return nil
	}
	return &Period{Start: *p.PeriodStart, End: *p.PeriodEnd}
}

// IsRent returns true for rent payments
func (p *Payment) IsRent() bool {
	return p.Type == PaymentTypeRent
}

// IsDeposit returns true for security deposit payments
func (p *Payment) IsDeposit() bool {
	return p.Type == PaymentTypeDeposit
}

// RefreshOverdue lazily transitions a pending payment to overdue once its
// due date has passed. Returns true if the status changed. Invoked on
// load/save paths and by the scheduler's active sweep.
func (p *Payment) RefreshOverdue(now time.Time) bool {
	if p.Status != PaymentStatusPending {
		return false
	}
	if !p.DueDate.Before(now) {
		return false
	}
	p.Status = PaymentStatusOverdue
	p.UpdatedAt = now
	p.AddDomainEvent(NewPaymentOverdueEvent(p))
	return true
}

// MarkPaid settles the payment. Rejected with a conflict if the payment
// is already paid; receipt numbers, once assigned, are never regenerated.
func (p *Payment) MarkPaid(now time.Time, recordedBy *uuid.UUID, transactionRef string) error {
	if !p.Status.CanMarkPaid() {
		return ErrPaymentAlreadyPaid
	}

	wasOverdue := p.Status == PaymentStatusOverdue || p.DueDate.Before(now)

	p.Status = PaymentStatusPaid
	if p.PaymentDate == nil {
		paidAt := now
		p.PaymentDate = &paidAt
	}
	if recordedBy != nil {
		p.RecordedBy = recordedBy
	}
	if transactionRef != "" {
		p.TransactionReference = transactionRef
	}
	if p.ReceiptNumber == "" {
		p.ReceiptNumber = NewReceiptNumber(now)
	}
	if wasOverdue {
		p.LateFee.IsLate = true
	}
	p.UpdatedAt = now

	p.AddDomainEvent(NewPaymentPaidEvent(p))
	return nil
}
