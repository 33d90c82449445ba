// Package feed contains the subscription filter of the realtime order
// feed: a transient, per-connection predicate deciding which order
// snapshots a subscriber receives.
package feed
