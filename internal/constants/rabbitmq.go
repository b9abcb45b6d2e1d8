package constants

// Queue names
const (
	QueueScrapedProperties = "scraped_properties"
)

// Exchanges
const (
	ExchangeProperties = "properties_exchange"
)

// Routing keys
const (
	RoutingKeyScrapedProperties   = "properties.scraped"
	RoutingKeyProcessedProperties = "properties.processed"
)

// Retry / dead-letter satellites for the scraped-properties consumer
const (
	ScrapedRetryExchange      = "scraped_properties_retry_dlx"
	ScrapedRetryQueue         = "scraped_properties_retry_wait"
	ScrapedFinalDLXExchange   = "scraped_properties_final_dlx"
	ScrapedFinalDLQ           = "scraped_properties_final_dlq"
	ScrapedFinalDLQRoutingKey = "properties.dlq.key"
)

// Event contract identifiers
const (
	EventTypeScrapedProperty      = "ScrapedPropertyEvent"
	EventTypeProcessedProperty    = "ProcessedPropertyEvent"
	EventVersionScrapedProperty   = "1.0.0"
	EventVersionProcessedProperty = "1.0.0"
)
