package rabbitmq_consumer

import "context"

// Consumer is the common surface of the concrete consumers in this package.
type Consumer interface {
	StartConsuming(ctx context.Context) error
	Close() error
}
