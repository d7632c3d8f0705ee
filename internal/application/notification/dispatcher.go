package notification

import (
	"context"
	"time"

	"github.com/boardinghouse/backend/internal/domain/billing"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/notification"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher subscribes to billing and housing domain events and turns them
// into notifications handed to the configured sink. Delivery is
// fire-and-forget: a sink failure is logged and never surfaces to the
// operation that raised the event.
type Dispatcher struct {
	payments billing.PaymentRepository
	tenants  housing.TenantRepository
	rooms    housing.RoomRepository
	sink     notification.Sink
	staff    []uuid.UUID
	logger   *zap.Logger
	now      func() time.Time
}

// NewDispatcher creates a Dispatcher. staff lists the recipient IDs for
// notices addressed to the house staff; it may be empty.
func NewDispatcher(
	payments billing.PaymentRepository,
	tenants housing.TenantRepository,
	rooms housing.RoomRepository,
	sink notification.Sink,
	staff []uuid.UUID,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		payments: payments,
		tenants:  tenants,
		rooms:    rooms,
		sink:     sink,
		staff:    staff,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the dispatcher clock. Intended for tests.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// EventTypes returns the event types the dispatcher subscribes to
func (d *Dispatcher) EventTypes() []string {
	return []string{
		billing.EventTypePaymentCreated,
		billing.EventTypePaymentPaid,
		billing.EventTypePaymentOverdue,
		billing.EventTypePaymentDueSoon,
		housing.EventTypeTenantAssigned,
		housing.EventTypeTenantArchived,
		housing.EventTypeLeaseExpiring,
	}
}

// Register subscribes the dispatcher on the given bus
func (d *Dispatcher) Register(bus shared.EventSubscriber) {
	bus.Subscribe(d, d.EventTypes()...)
}

// Handle dispatches a single domain event. Errors from the sink or from
// entity lookups are logged and swallowed; the bus never sees them.
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.PaymentCreatedEvent:
		d.onPaymentCreated(ctx, e)
	case *billing.PaymentPaidEvent:
		d.onPaymentPaid(ctx, e)
	case *billing.PaymentOverdueEvent:
		d.onPaymentDue(ctx, e.PaymentID, true)
	case *billing.PaymentDueSoonEvent:
		d.onPaymentDue(ctx, e.PaymentID, false)
	case *housing.TenantAssignedEvent:
		d.onTenantAssigned(ctx, e)
	case *housing.TenantArchivedEvent:
		d.onTenantArchived(ctx, e)
	case *housing.LeaseExpiringEvent:
		d.onLeaseExpiring(ctx, e)
	default:
		d.logger.Debug("ignoring unhandled event type",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}

func (d *Dispatcher) onPaymentCreated(ctx context.Context, e *billing.PaymentCreatedEvent) {
	if e.Type != billing.PaymentTypeDeposit {
		return
	}
	payment := d.loadPayment(ctx, e.PaymentID)
	if payment == nil {
		return
	}
	d.deliver(ctx, notification.ForDepositRequired(payment, notification.TenantRecipient(payment.TenantID)))
}

func (d *Dispatcher) onPaymentPaid(ctx context.Context, e *billing.PaymentPaidEvent) {
	payment := d.loadPayment(ctx, e.PaymentID)
	if payment == nil {
		return
	}
	d.deliver(ctx, notification.ForPaymentReceived(payment, notification.TenantRecipient(payment.TenantID)))
}

// onPaymentDue handles both the reminder and the overdue paths; the
// builder picks reminder, due-soon, or overdue wording from the urgency
// tier, so the two event types converge here
func (d *Dispatcher) onPaymentDue(ctx context.Context, paymentID uuid.UUID, notifyStaff bool) {
	payment := d.loadPayment(ctx, paymentID)
	if payment == nil {
		return
	}
	now := d.now()

	if n, ok := notification.ForPaymentDue(payment, notification.TenantRecipient(payment.TenantID), now); ok {
		d.deliver(ctx, n)
	}
	if !notifyStaff {
		return
	}
	for _, id := range d.staff {
		if n, ok := notification.ForPaymentDue(payment, notification.StaffRecipient(id), now); ok {
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) onTenantAssigned(ctx context.Context, e *housing.TenantAssignedEvent) {
	tenant := d.loadTenant(ctx, e.TenantID)
	if tenant == nil {
		return
	}
	roomNumber := e.RoomID.String()
	if room, err := d.rooms.FindByID(ctx, e.RoomID); err == nil && room != nil {
		roomNumber = room.Number
	}
	for _, id := range d.staff {
		d.deliver(ctx, notification.ForTenantAssigned(tenant, roomNumber, notification.StaffRecipient(id)))
	}
}

func (d *Dispatcher) onTenantArchived(ctx context.Context, e *housing.TenantArchivedEvent) {
	tenant := d.loadTenant(ctx, e.TenantID)
	if tenant == nil {
		return
	}
	for _, id := range d.staff {
		d.deliver(ctx, notification.ForTenantArchived(tenant, notification.StaffRecipient(id)))
	}
}

func (d *Dispatcher) onLeaseExpiring(ctx context.Context, e *housing.LeaseExpiringEvent) {
	tenant := d.loadTenant(ctx, e.TenantID)
	if tenant == nil {
		return
	}
	now := d.now()

	if n, ok := notification.ForLeaseExpiry(tenant, notification.TenantRecipient(tenant.ID), now); ok {
		d.deliver(ctx, n)
	}
	for _, id := range d.staff {
		if n, ok := notification.ForLeaseExpiry(tenant, notification.StaffRecipient(id), now); ok {
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) loadPayment(ctx context.Context, id uuid.UUID) *billing.Payment {
	payment, err := d.payments.FindByID(ctx, id)
	if err != nil || payment == nil {
		d.logger.Warn("payment lookup failed for notification",
			zap.String("payment_id", id.String()),
			zap.Error(err),
		)
		return nil
	}
	return payment
}

func (d *Dispatcher) loadTenant(ctx context.Context, id uuid.UUID) *housing.Tenant {
	tenant, err := d.tenants.FindByID(ctx, id)
	if err != nil || tenant == nil {
		d.logger.Warn("tenant lookup failed for notification",
			zap.String("tenant_id", id.String()),
			zap.Error(err),
		)
		return nil
	}
	return tenant
}

func (d *Dispatcher) deliver(ctx context.Context, n notification.Notification) {
	if err := d.sink.Notify(ctx, n); err != nil {
		d.logger.Error("notification delivery failed",
			zap.String("type", string(n.Type)),
			zap.String("recipient", n.Recipient.ID.String()),
			zap.Error(err),
		)
	}
}
