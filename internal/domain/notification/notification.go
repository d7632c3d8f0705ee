// Package notification builds typed notification payloads from billing and
// housing state changes. Construction is pure; persistence and delivery
// belong to an external sink, and sink failures must never fail the billing
// operation that triggered them.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecipientKind discriminates the polymorphic notification target
type RecipientKind string

const (
	RecipientKindStaff  RecipientKind = "staff"
	RecipientKindTenant RecipientKind = "tenant"
)

// Recipient identifies who a notification is addressed to
type Recipient struct {
	Kind RecipientKind `json:"kind"`
	ID   uuid.UUID     `json:"id"`
}

// StaffRecipient builds a staff/admin recipient
func StaffRecipient(id uuid.UUID) Recipient {
	return Recipient{Kind: RecipientKindStaff, ID: id}
}

// TenantRecipient builds a tenant recipient
func TenantRecipient(id uuid.UUID) Recipient {
	return Recipient{Kind: RecipientKindTenant, ID: id}
}

// Type classifies a notification
type Type string

const (
	TypePaymentReminder Type = "payment_reminder"
	TypePaymentDueSoon  Type = "payment_due_soon"
	TypePaymentOverdue  Type = "payment_overdue"
	TypePaymentReceived Type = "payment_received"
	TypeDepositRequired Type = "deposit_required"
	TypeLeaseExpiring   Type = "lease_expiring"
	TypeLeaseRenewal    Type = "lease_renewal"
	TypeTenantAssigned  Type = "tenant_assigned"
	TypeTenantArchived  Type = "tenant_archived"
)

// Notification is a fully constructed payload ready for hand-off to a sink
type Notification struct {
	Recipient Recipient         `json:"recipient"`
	Type      Type              `json:"type"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
}

// Sink delivers notifications. Implementations live outside this core;
// delivery is fire-and-forget from the engine's perspective.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}
