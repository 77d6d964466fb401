package nats

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/openride/dispatch/internal/pkg/logger"
)

// MessageHandler is a function that processes NATS messages
type MessageHandler func(message []byte) error

// Consumer handles consuming messages from a NATS subject
type Consumer struct {
	subscription *nats.Subscription
}

// NewConsumer subscribes to a subject on an existing client. When
// queueGroup is non-empty the subscription joins that queue group and
// messages are load-balanced across members; otherwise every consumer
// on the subject receives every message.
func NewConsumer(client *Client, subject, queueGroup string, handler MessageHandler) (*Consumer, error) {
	cb := func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			logger.Debug("Error processing message",
				logger.String("subject", subject),
				logger.Err(err))
		}
	}

	var (
		sub *nats.Subscription
		err error
	)
	if queueGroup != "" {
		sub, err = client.GetConn().QueueSubscribe(subject, queueGroup, cb)
	} else {
		sub, err = client.GetConn().Subscribe(subject, cb)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to subject: %w", err)
	}

	return &Consumer{subscription: sub}, nil
}

// Stop unsubscribes the consumer. Other subscriptions on the shared
// connection are unaffected.
func (c *Consumer) Stop() error {
	if c.subscription == nil {
		return nil
	}
	return c.subscription.Unsubscribe()
}
