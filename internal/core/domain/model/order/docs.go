// Package order contains the shipment order aggregate, the heart of the
// freight marketplace domain.
//
// An order moves through a defined lifecycle (see Status) driven by two
// kinds of driver claims: a reservation, which discloses the customer's
// contact details for a short time, and a candidacy, which backs the
// PENDING status while the customer decides on a driver. Both claims
// carry deadlines and lapse without a write; readers evaluate expiry
// lazily against the current time.
//
// Every transition and price change is appended to the order's History,
// an append-only log that serializes to the client wire format. The
// Snapshot projection is the single flat representation shared by
// persistence, queries and the realtime feed.
package order
