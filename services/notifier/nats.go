package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openride/dispatch/internal/pkg/constants"
	"github.com/openride/dispatch/internal/pkg/logger"
	"github.com/openride/dispatch/internal/pkg/models"
	natspkg "github.com/openride/dispatch/internal/pkg/nats"
)

// Notifier implements TripNotifier on a shared NATS connection.
type Notifier struct {
	natsClient *natspkg.Client
}

// NewNotifier creates a new trip notifier
func NewNotifier(natsClient *natspkg.Client) *Notifier {
	return &Notifier{natsClient: natsClient}
}

// SubscribeTripEvents streams every new trip request to the driver.
func (n *Notifier) SubscribeTripEvents(ctx context.Context, driverID string) (*TripSubscription, error) {
	sub, err := n.subscribe(ctx, constants.SubjectTripRequested)
	if err != nil {
		return nil, fmt.Errorf("subscribe trip events for driver %s: %w", driverID, err)
	}

	logger.Info("Driver subscribed to trip requests",
		logger.String("driver_id", driverID))

	return sub, nil
}

// SubscribeTripUpdates streams state changes of the passenger's trip.
func (n *Notifier) SubscribeTripUpdates(ctx context.Context, passengerID string) (*TripSubscription, error) {
	subject := fmt.Sprintf(constants.SubjectTripUpdated, passengerID)
	sub, err := n.subscribe(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("subscribe trip updates for passenger %s: %w", passengerID, err)
	}

	logger.Info("Passenger subscribed to trip updates",
		logger.String("passenger_id", passengerID))

	return sub, nil
}

func (n *Notifier) subscribe(ctx context.Context, subject string) (*TripSubscription, error) {
	sub := newTripSubscription(subject)

	consumer, err := natspkg.NewConsumer(n.natsClient, subject, "", func(message []byte) error {
		var event models.TripEvent
		if err := json.Unmarshal(message, &event); err != nil {
			return fmt.Errorf("unmarshal trip event: %w", err)
		}
		sub.deliver(event)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sub.consumer = consumer

	// Tie the subscription to the caller's context so an abandoned
	// subscriber does not leak its NATS subscription.
	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			if err := sub.Close(); err != nil {
				logger.Debug("Failed to close trip subscription",
					logger.String("subject", subject),
					logger.Err(err))
			}
		}()
	}

	return sub, nil
}
