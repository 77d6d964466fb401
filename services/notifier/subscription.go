package notifier

import (
	"sync"
	"time"

	"github.com/openride/dispatch/internal/pkg/logger"
	"github.com/openride/dispatch/internal/pkg/models"
	natspkg "github.com/openride/dispatch/internal/pkg/nats"
)

// subscriptionBuffer bounds how many undelivered events a slow
// subscriber can hold before newer events are dropped.
const subscriptionBuffer = 64

// TripSubscription is a cancellable stream of trip events. Events
// arrive on the channel returned by Events; Close unsubscribes and
// closes the channel. Subscriptions are independent: closing one does
// not affect others on the same connection.
type TripSubscription struct {
	subject string
	events  chan models.TripEvent

	consumer *natspkg.Consumer

	mu     sync.Mutex
	closed bool
	seen   map[string]tripMark
}

// tripMark is the newest delivery observed for a passenger's trip.
// RequestedAt distinguishes successive trips by the same passenger;
// the state ordinal orders deliveries within one trip.
type tripMark struct {
	requestedAt time.Time
	ordinal     int
}

func newTripSubscription(subject string) *TripSubscription {
	return &TripSubscription{
		subject: subject,
		events:  make(chan models.TripEvent, subscriptionBuffer),
		seen:    make(map[string]tripMark),
	}
}

// Events returns the receive channel. It is closed by Close.
func (s *TripSubscription) Events() <-chan models.TripEvent {
	return s.events
}

// Close unsubscribes and closes the event channel. Safe to call more
// than once.
func (s *TripSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.consumer != nil {
		err = s.consumer.Stop()
	}
	close(s.events)
	return err
}

// deliver applies the monotonicity filter and hands the event to the
// subscriber. Duplicates and out-of-order deliveries are dropped
// silently; events beyond the buffer are dropped with a warning.
func (s *TripSubscription) deliver(event models.TripEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if !s.advance(event.Trip) {
		return
	}

	select {
	case s.events <- event:
	default:
		logger.Warn("Dropping trip event, subscriber too slow",
			logger.String("subject", s.subject),
			logger.String("passenger_id", event.Trip.PassengerID))
	}
}

// advance records the delivery and reports whether it is strictly newer
// than anything seen for the passenger. A later RequestedAt means a new
// trip; within one trip only a strictly higher state ordinal passes.
func (s *TripSubscription) advance(trip models.Trip) bool {
	mark, ok := s.seen[trip.PassengerID]
	if ok {
		if trip.RequestedAt.Before(mark.requestedAt) {
			return false
		}
		if trip.RequestedAt.Equal(mark.requestedAt) && trip.State.Ordinal() <= mark.ordinal {
			return false
		}
	}

	s.seen[trip.PassengerID] = tripMark{
		requestedAt: trip.RequestedAt,
		ordinal:     trip.State.Ordinal(),
	}
	return true
}
