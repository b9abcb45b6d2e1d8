package rightmovefetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBedroomsFromText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "3 bedroom terraced house for sale", "3"},
		{"hyphenated", "Spacious 4-bed family home", "4"},
		{"short form", "2 bed flat", "2"},
		{"no count", "Studio apartment for sale", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bedroomsFromText(tt.text))
		})
	}
}

func TestPropertyTypeFromSubtitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subtitle string
		want     string
	}{
		{"full subtitle", "3 bedroom semi-detached house for sale", "semi-detached house"},
		{"no sale suffix", "2 bedroom flat", "flat"},
		{"no bedroom prefix", "Bungalow for sale", "Bungalow"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, propertyTypeFromSubtitle(tt.subtitle))
		})
	}
}

func TestListingIDFromURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RM-154208864", listingIDFromURL("https://www.rightmove.co.uk/properties/154208864"))
	assert.Equal(t, "RM-99", listingIDFromURL("https://www.rightmove.co.uk/properties/99#/?channel=RES_BUY"))

	// URLs without a listing id fall back to the URL itself so the
	// validator can still flag the record.
	odd := "https://www.rightmove.co.uk/property-for-sale/find.html"
	assert.Equal(t, odd, listingIDFromURL(odd))
}

func TestOutdoorSpaceFromDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "large garden", outdoorSpaceFromDescription("A family home with a LARGE GARDEN to the rear."))
	assert.Equal(t, "balcony", outdoorSpaceFromDescription("Bright flat with private balcony."))
	assert.Equal(t, "", outdoorSpaceFromDescription("Well presented throughout."))
}

func TestPostcodeInAddressRe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SE9 4QX", postcodeInAddressRe.FindString(strings.ToUpper("High Street, Eltham, London, se9 4qx")))
	assert.Equal(t, "", postcodeInAddressRe.FindString("HIGH STREET, LONDON"))
}
