package postgres

import (
	"testing"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func fingerprintRecord() domain.PropertyRecord {
	lat, lon := 51.4394, 0.0755
	return domain.PropertyRecord{
		PropertyID:   "prop-001",
		Price:        352_000,
		Bedrooms:     3,
		Postcode:     "SE9 3JD",
		PropertyType: "Terraced House",
		OutdoorSpace: "Garden",
		Latitude:     &lat,
		Longitude:    &lon,
	}
}

func TestFingerprintIgnoresPortalID(t *testing.T) {
	t.Parallel()

	a := fingerprintRecord()
	b := fingerprintRecord()
	b.PropertyID = "prop-relisted-999"

	assert.Equal(t, buildListingFingerprint(a), buildListingFingerprint(b))
}

func TestFingerprintBucketsSmallPriceChanges(t *testing.T) {
	t.Parallel()

	a := fingerprintRecord()
	b := fingerprintRecord()
	b.Price = a.Price + 2_000 // same 5k bucket

	c := fingerprintRecord()
	c.Price = a.Price + 50_000

	assert.Equal(t, buildListingFingerprint(a), buildListingFingerprint(b))
	assert.NotEqual(t, buildListingFingerprint(a), buildListingFingerprint(c))
}

func TestFingerprintFallsBackToPostcode(t *testing.T) {
	t.Parallel()

	a := fingerprintRecord()
	a.Latitude = nil
	a.Longitude = nil

	b := fingerprintRecord()
	b.Latitude = nil
	b.Longitude = nil
	b.Postcode = "se9 3jd" // postcode normalization is case-insensitive

	assert.Equal(t, buildListingFingerprint(a), buildListingFingerprint(b))
}

func TestFingerprintSeparatesDifferentHomes(t *testing.T) {
	t.Parallel()

	a := fingerprintRecord()
	b := fingerprintRecord()
	b.Bedrooms = 4

	assert.NotEqual(t, buildListingFingerprint(a), buildListingFingerprint(b))
}

func TestListingHashIsStableHex(t *testing.T) {
	t.Parallel()

	payload := buildListingFingerprint(fingerprintRecord())

	first := calculateListingHash(payload)
	assert.Len(t, first, 64)
	assert.Equal(t, first, calculateListingHash(payload))
}
