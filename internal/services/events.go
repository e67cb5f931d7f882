package services

import (
	"context"

	"ghostpayroll/pkg/contracts/events"
)

// EventPublisher pushes pipeline events to live clients
type EventPublisher interface {
	Publish(ctx context.Context, t events.MessageType, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, events.MessageType, interface{}) {}
