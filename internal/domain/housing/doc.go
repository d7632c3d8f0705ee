// Package housing provides domain models for rooms, tenants, and occupancy.
//
// The Room aggregate owns the ordered tenant set; occupancy and the derived
// room status are recomputed by a pure function after every mutation of that
// set, never set independently while tenants are present. Tenant and Room
// reference each other, and because writes to the two records are not
// atomic, transient drift between them is possible; the occupancy service's
// reconciliation sweep detects and repairs it.
package housing
