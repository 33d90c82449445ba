// Package account provides the marketplace principal model: identity,
// role capabilities and the driver escrow balance.
//
// Key business rules:
//   - A role of BOTH authorizes a user as either DRIVER or CUSTOMER;
//     authorization always goes through Role.CanActAs so the combined-role
//     rule lives in one place.
//   - Blocked accounts are rejected at connect/request time.
//   - Balances only change through Credit/Debit and never go negative.
package account
