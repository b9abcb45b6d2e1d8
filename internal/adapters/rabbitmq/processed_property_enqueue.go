package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bchiyangwa9/london-property-analyzer/internal/constants"
	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/pkg/rabbitmq/rabbitmq_producer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ProcessedPropertyReporterAdapter publishes the outcome of an ingest
// run so downstream consumers (notifications, dashboards) can react.
type ProcessedPropertyReporterAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

func NewProcessedPropertyReporterAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*ProcessedPropertyReporterAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routingKey cannot be empty")
	}

	return &ProcessedPropertyReporterAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// ReportProcessed implements ResultReporterPort.
func (a *ProcessedPropertyReporterAdapter) ReportProcessed(ctx context.Context, records []domain.ProcessedProperty) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ProcessedPropertyReporterAdapter",
		"routing_key": a.routingKey,
	})

	eventDTO := ProcessedPropertyEventDTO{
		BatchID:     uuid.NewString(),
		PublishedAt: time.Now().UTC().Format(time.RFC3339),
		Records:     records,
	}

	eventJSON, err := json.Marshal(eventDTO)
	if err != nil {
		adapterLogger.Error("Failed to marshal processed property event to JSON", err, nil)
		return fmt.Errorf("failed to marshal processed property event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    constants.EventTypeProcessedProperty,
			"event-version": constants.EventVersionProcessedProperty,
		},
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish processed property event", err, nil)
		return err
	}

	adapterLogger.Info("Published processed property event", port.Fields{
		"record_count": len(records),
		"batch_id":     eventDTO.BatchID,
	})
	return nil
}
