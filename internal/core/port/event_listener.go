package port

import "context"

// EventListenerPort is a long-running inbound adapter (queue consumer).
type EventListenerPort interface {
	StartListening(ctx context.Context) error
	Close() error
}
