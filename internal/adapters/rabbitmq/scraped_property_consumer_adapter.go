package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bchiyangwa9/london-property-analyzer/internal/constants"
	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/contracts"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port/usecases_port"
	"github.com/bchiyangwa9/london-property-analyzer/pkg/rabbitmq/rabbitmq_common"
	"github.com/bchiyangwa9/london-property-analyzer/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ScrapedPropertyConsumerAdapter listens for batches of scraped listings
// and pushes them through the ingest use case.
type ScrapedPropertyConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	useCase  usecases_port.IngestPropertiesUseCase
	logger   port.LoggerPort
}

func NewScrapedPropertyConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	connManager *rabbitmq_common.ConnectionManager,
	useCase usecases_port.IngestPropertiesUseCase,
	logger port.LoggerPort,
	batchSize int,
	batchTimeout time.Duration,
) (*ScrapedPropertyConsumerAdapter, error) {

	adapter := &ScrapedPropertyConsumerAdapter{
		useCase: useCase,
		logger:  logger.WithFields(port.Fields{"component": "ScrapedPropertyConsumerAdapter"}),
	}

	consumer, err := rabbitmq_consumer.NewBatchConsumer(consumerCfg, adapter.batchMessageHandler, batchSize, batchTimeout, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for scraped properties: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// batchMessageHandler validates every event in the batch, flattens their
// listings and runs a single ingest pass. A returned error requeues the
// whole batch.
func (a *ScrapedPropertyConsumerAdapter) batchMessageHandler(deliveries []amqp.Delivery) error {
	traceID, _ := deliveries[0].Headers["x-trace-id"].(string)
	if traceID == "" {
		traceID = uuid.NewString()
	}

	batchLogger := a.logger.WithFields(port.Fields{
		"trace_id": traceID,
		"batch_id": uuid.NewString(),
	})

	ctx := contextkeys.ContextWithTraceID(context.Background(), traceID)
	ctx = contextkeys.ContextWithLogger(ctx, batchLogger)

	batchLogger.Info("Received batch of scraped property events", port.Fields{
		"message_count": len(deliveries),
	})

	raws := make([]domain.RawProperty, 0, len(deliveries))
	for _, d := range deliveries {
		props, err := a.unmarshalEvent(d)
		if err != nil {
			batchLogger.Error("Failed to parse message in batch, requeueing whole batch", err, port.Fields{
				"delivery_tag": d.DeliveryTag,
			})
			return err
		}
		raws = append(raws, props...)
	}

	if len(raws) == 0 {
		batchLogger.Info("No listings in batch to ingest", nil)
		return nil
	}

	processed, stats, err := a.useCase.Execute(ctx, raws)
	if err != nil {
		return fmt.Errorf("ingest failed for batch: %w", err)
	}

	invalid := 0
	for _, p := range processed {
		if !p.Valid() {
			invalid++
		}
	}

	batchLogger.Info("Batch ingested", port.Fields{
		"listings":   len(raws),
		"invalid":    invalid,
		"created":    stats.Created,
		"updated":    stats.Updated,
		"duplicates": stats.Duplicates,
	})

	return nil
}

func (a *ScrapedPropertyConsumerAdapter) unmarshalEvent(d amqp.Delivery) ([]domain.RawProperty, error) {
	eventType, _ := d.Headers["event-type"].(string)
	eventVersion, _ := d.Headers["event-version"].(string)
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		return nil, err
	}

	var dto ScrapedPropertyEventDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scraped property event DTO: %w", err)
	}

	raws := make([]domain.RawProperty, 0, len(dto.Properties))
	for _, p := range dto.Properties {
		raws = append(raws, toDomainRawProperty(p))
	}
	return raws, nil
}

// StartListening implements EventListenerPort.
func (a *ScrapedPropertyConsumerAdapter) StartListening(ctx context.Context) error {
	a.logger.Info("Starting to listen for scraped property events", port.Fields{
		"queue": constants.QueueScrapedProperties,
	})
	return a.consumer.StartConsuming(ctx)
}

// Close implements EventListenerPort.
func (a *ScrapedPropertyConsumerAdapter) Close() error {
	return a.consumer.Close()
}
