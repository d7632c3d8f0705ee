// Package billing provides domain models for the boarding house payment lifecycle.
//
// This package implements the billing bounded context, which is responsible for:
//   - Payment records (rent, deposit, utility, maintenance, penalty, other)
//   - The payment status lifecycle (pending -> paid / overdue)
//   - Receipt number assignment on settlement
//   - Calendar-month rent periods and due-date normalization
//
// Key Aggregates:
//   - Payment: A single charge against a tenant, created by the rent
//     generator, the occupancy guard (security deposit), or manually
//
// Value Objects:
//   - Period: The calendar-month interval a rent payment covers
//   - LateFee: Late-fee amount attached to a payment
//
// Rent uniqueness per (tenant, calendar month) is enforced by a pre-insert
// existence query in the application layer, not by a database constraint.
//
// The billing domain integrates with:
//   - Housing domain: For tenant lease windows and room rent defaults
//   - Notification domain: Payment events fan out as due/overdue notices
package billing
