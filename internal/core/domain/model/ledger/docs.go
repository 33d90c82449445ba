// Package ledger models the escrow bookkeeping around order assignment
// and completion. A PENDING transaction opens when a driver is bound to
// an order; releasing it at completion credits the driver's balance with
// the amount minus the platform's service fee.
package ledger
