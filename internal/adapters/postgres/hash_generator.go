package postgres

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

const geohashPrecision = 5

// priceBucketGBP groups prices so a small renegotiation does not change
// the fingerprint.
const priceBucketGBP = 5_000

// buildListingFingerprint creates a stable string from the fields that
// identify a physical property, so the same home relisted under a new
// portal id is caught as a duplicate.
func buildListingFingerprint(rec domain.PropertyRecord) string {
	parts := make([]string, 0, 6)

	// location: a 5-character geohash (~4.9 km cell) when coordinates are
	// known, the normalized postcode otherwise
	if rec.Latitude != nil && rec.Longitude != nil {
		geohsh := geohash.Encode(*rec.Latitude, *rec.Longitude)
		parts = append(parts, geohsh[:geohashPrecision])
	} else {
		parts = append(parts, strings.ToLower(strings.ReplaceAll(rec.Postcode, " ", "")))
	}

	parts = append(parts,
		strings.ToLower(strings.TrimSpace(rec.PropertyType)),
		fmt.Sprintf("%d", rec.Bedrooms),
		fmt.Sprintf("%d", rec.Price/priceBucketGBP),
		strings.ToLower(strings.TrimSpace(rec.OutdoorSpace)),
	)

	return strings.Join(parts, "|")
}

// calculateListingHash computes the SHA256 hash of a fingerprint.
func calculateListingHash(payload string) string {
	h := sha256.New()
	h.Write([]byte(payload))
	return fmt.Sprintf("%x", h.Sum(nil))
}
