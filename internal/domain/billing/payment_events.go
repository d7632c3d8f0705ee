package billing

import (
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names for the billing context
const (
	EventTypePaymentCreated = "PaymentCreated"
	EventTypePaymentPaid    = "PaymentPaid"
	EventTypePaymentOverdue = "PaymentOverdue"
	EventTypePaymentDueSoon = "PaymentDueSoon"
)

// PaymentCreatedEvent is raised when a new payment record is created
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	RoomID      *uuid.UUID      `json:"room_id,omitempty"`
	Type        PaymentType     `json:"payment_type"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	PeriodLabel string          `json:"period_label,omitempty"`
}

// EventType returns the event type name
func (e *PaymentCreatedEvent) EventType() string {
	return EventTypePaymentCreated
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(p *Payment) *PaymentCreatedEvent {
	e := &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCreated, "Payment", p.ID),
		PaymentID:       p.ID,
		TenantID:        p.TenantID,
		RoomID:          p.RoomID,
		Type:            p.Type,
		Amount:          p.Amount.Amount(),
		DueDate:         p.DueDate,
	}
	if period := p.Period(); period != nil {
		e.PeriodLabel = period.Label()
	}
	return e
}

// PaymentPaidEvent is raised when a payment is settled
type PaymentPaidEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Type          PaymentType     `json:"payment_type"`
	Amount        decimal.Decimal `json:"amount"`
	ReceiptNumber string          `json:"receipt_number"`
	PaidAt        time.Time       `json:"paid_at"`
	WasLate       bool            `json:"was_late"`
}

// EventType returns the event type name
func (e *PaymentPaidEvent) EventType() string {
	return EventTypePaymentPaid
}

// NewPaymentPaidEvent creates a new PaymentPaidEvent
func NewPaymentPaidEvent(p *Payment) *PaymentPaidEvent {
	paidAt := time.Now()
	if p.PaymentDate != nil {
		paidAt = *p.PaymentDate
	}
	return &PaymentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentPaid, "Payment", p.ID),
		PaymentID:       p.ID,
		TenantID:        p.TenantID,
		Type:            p.Type,
		Amount:          p.Amount.Amount(),
		ReceiptNumber:   p.ReceiptNumber,
		PaidAt:          paidAt,
		WasLate:         p.LateFee.IsLate,
	}
}

// PaymentOverdueEvent is raised when a pending payment transitions to overdue
type PaymentOverdueEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	TenantID  uuid.UUID       `json:"tenant_id"`
	Type      PaymentType     `json:"payment_type"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
}

// EventType returns the event type name
func (e *PaymentOverdueEvent) EventType() string {
	return EventTypePaymentOverdue
}

// NewPaymentOverdueEvent creates a new PaymentOverdueEvent
func NewPaymentOverdueEvent(p *Payment) *PaymentOverdueEvent {
	return &PaymentOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentOverdue, "Payment", p.ID),
		PaymentID:       p.ID,
		TenantID:        p.TenantID,
		Type:            p.Type,
		Amount:          p.Amount.Amount(),
		DueDate:         p.DueDate,
	}
}

// PaymentDueSoonEvent is raised by the reminder sweep for pending payments
// approaching their due date. It carries no state change on the payment.
type PaymentDueSoonEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	TenantID  uuid.UUID       `json:"tenant_id"`
	Type      PaymentType     `json:"payment_type"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
}

// EventType returns the event type name
func (e *PaymentDueSoonEvent) EventType() string {
	return EventTypePaymentDueSoon
}

// NewPaymentDueSoonEvent creates a new PaymentDueSoonEvent
func NewPaymentDueSoonEvent(p *Payment) *PaymentDueSoonEvent {
	return &PaymentDueSoonEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentDueSoon, "Payment", p.ID),
		PaymentID:       p.ID,
		TenantID:        p.TenantID,
		Type:            p.Type,
		Amount:          p.Amount.Amount(),
		DueDate:         p.DueDate,
	}
}
