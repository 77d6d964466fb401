package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/openride/dispatch/internal/pkg/circuitbreaker"
	"github.com/openride/dispatch/internal/pkg/constants"
	"github.com/openride/dispatch/internal/pkg/models"
	natspkg "github.com/openride/dispatch/internal/pkg/nats"
)

// TripGW publishes trip events to NATS. Requested trips go to the
// shared fan-out subject; updates go to the owning passenger's subject.
// Publishes run behind a circuit breaker: events are best-effort and a
// wedged broker should not slow down the trip lifecycle.
type TripGW struct {
	producer *natspkg.Producer
	breaker  *circuitbreaker.CircuitBreaker
}

// NewTripGW creates a new trip gateway
func NewTripGW(client *natspkg.Client) *TripGW {
	return &TripGW{
		producer: natspkg.NewProducer(client),
		breaker:  circuitbreaker.New(circuitbreaker.DefaultConfig("nats-trip-events")),
	}
}

// PublishTripRequested fans the new trip out to every driver subscribed
// to the requested-trips subject.
func (g *TripGW) PublishTripRequested(ctx context.Context, trip *models.Trip) error {
	return g.publish(ctx, constants.SubjectTripRequested, trip)
}

// PublishTripUpdated delivers a state change to the passenger who owns
// the trip.
func (g *TripGW) PublishTripUpdated(ctx context.Context, trip *models.Trip) error {
	subject := fmt.Sprintf(constants.SubjectTripUpdated, trip.PassengerID)
	return g.publish(ctx, subject, trip)
}

func (g *TripGW) publish(ctx context.Context, subject string, trip *models.Trip) error {
	event := models.TripEvent{Trip: *trip, EmittedAt: time.Now()}
	return g.breaker.Execute(ctx, func(context.Context) error {
		return g.producer.Publish(subject, event)
	})
}
