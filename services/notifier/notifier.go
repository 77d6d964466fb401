// Package notifier is the in-process subscription surface of the
// driver-matching feed. It is not mounted in cmd/dispatch: consumers
// (driver apps, passenger apps, other services) dial NATS themselves
// and open subscriptions through this package.
package notifier

import (
	"context"
)

// TripNotifier defines the interface for the driver-matching feed. Both
// streams are at-least-once: duplicates and reordering on the wire are
// absorbed client-side before events reach the subscription channel.
type TripNotifier interface {
	// SubscribeTripEvents opens a stream of every trip entering the
	// REQUESTED state, system-wide. Every subscribed driver sees every
	// request; there is no geographic filtering.
	SubscribeTripEvents(ctx context.Context, driverID string) (*TripSubscription, error)

	// SubscribeTripUpdates opens a stream of state changes to the
	// passenger's trip. Deliveries whose state is not strictly newer
	// than the last observed one are dropped.
	SubscribeTripUpdates(ctx context.Context, passengerID string) (*TripSubscription, error)
}
