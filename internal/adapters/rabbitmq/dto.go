package rabbitmq

import (
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

// ScrapedPropertyDTO mirrors one item of the ScrapedPropertyEvent body.
type ScrapedPropertyDTO struct {
	PropertyID   string   `json:"property_id"`
	Price        string   `json:"price"`
	Bedrooms     string   `json:"bedrooms"`
	Postcode     string   `json:"postcode"`
	PropertyType string   `json:"property_type"`
	OutdoorSpace string   `json:"outdoor_space"`
	Tenure       string   `json:"tenure"`
	AgentName    string   `json:"agent_name"`
	AgentPhone   string   `json:"agent_phone"`
	Description  string   `json:"description"`
	SourceURL    string   `json:"source_url"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// ScrapedPropertyEventDTO is the full event envelope.
type ScrapedPropertyEventDTO struct {
	BatchID    string               `json:"batch_id"`
	Source     string               `json:"source"`
	ScrapedAt  string               `json:"scraped_at"`
	Properties []ScrapedPropertyDTO `json:"properties"`
}

func toDomainRawProperty(dto ScrapedPropertyDTO) domain.RawProperty {
	return domain.RawProperty{
		PropertyID:   dto.PropertyID,
		Price:        dto.Price,
		Bedrooms:     dto.Bedrooms,
		Postcode:     dto.Postcode,
		PropertyType: dto.PropertyType,
		OutdoorSpace: dto.OutdoorSpace,
		Tenure:       dto.Tenure,
		AgentName:    dto.AgentName,
		AgentPhone:   dto.AgentPhone,
		Description:  dto.Description,
		SourceURL:    dto.SourceURL,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
	}
}

// ProcessedPropertyEventDTO is the outgoing event envelope.
type ProcessedPropertyEventDTO struct {
	BatchID     string                     `json:"batch_id"`
	PublishedAt string                     `json:"published_at"`
	Records     []domain.ProcessedProperty `json:"records"`
}
