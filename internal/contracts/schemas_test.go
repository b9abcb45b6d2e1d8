package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"events/scraped-property/v1.json", "ScrapedPropertyEvent/1.0.0"},
		{"events/processed-property/v1.json", "ProcessedPropertyEvent/1.0.0"},
		{"garbage.json", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, generateKeyFromPath(tt.path), "path %s", tt.path)
	}
}

func TestValidateScrapedPropertyEvent(t *testing.T) {
	t.Parallel()

	valid := []byte(`{
		"batch_id": "b-1",
		"source": "rightmove",
		"properties": [
			{
				"property_id": "prop-001",
				"price": "£350,000",
				"bedrooms": "3",
				"postcode": "SE9 4QX",
				"property_type": "Terraced House"
			}
		]
	}`)
	require.NoError(t, ValidateEvent("ScrapedPropertyEvent", "1.0.0", valid))

	missingRequired := []byte(`{
		"properties": [
			{"property_id": "prop-001", "price": "£350,000"}
		]
	}`)
	assert.Error(t, ValidateEvent("ScrapedPropertyEvent", "1.0.0", missingRequired))

	emptyBatch := []byte(`{"properties": []}`)
	assert.Error(t, ValidateEvent("ScrapedPropertyEvent", "1.0.0", emptyBatch))

	notJSON := []byte(`{"properties": [`)
	assert.Error(t, ValidateEvent("ScrapedPropertyEvent", "1.0.0", notJSON))
}

func TestValidateUnknownEvent(t *testing.T) {
	t.Parallel()

	err := ValidateEvent("NoSuchEvent", "1.0.0", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
