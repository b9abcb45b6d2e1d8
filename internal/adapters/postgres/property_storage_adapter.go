package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorageAdapter implements PropertyStoragePort for PostgreSQL.
// Key fields live in columns for querying; the full processed record is
// kept as JSONB so a domain change does not require a column migration.
type PostgresStorageAdapter struct {
	pool *pgxpool.Pool
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS properties (
	property_id   TEXT PRIMARY KEY,
	listing_hash  TEXT NOT NULL,
	price         BIGINT NOT NULL,
	bedrooms      INT NOT NULL,
	postcode      TEXT NOT NULL,
	property_type TEXT NOT NULL,
	total_score   DOUBLE PRECISION,
	payload       JSONB NOT NULL,
	processed_at  TIMESTAMPTZ NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_properties_listing_hash ON properties (listing_hash);
CREATE INDEX IF NOT EXISTS idx_properties_total_score ON properties (total_score DESC NULLS LAST);
`

// NewPostgresStorageAdapter creates the adapter and makes sure the
// schema exists.
func NewPostgresStorageAdapter(ctx context.Context, pool *pgxpool.Pool) (*PostgresStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to ensure properties schema: %w", err)
	}

	return &PostgresStorageAdapter{pool: pool}, nil
}

const upsertSQL = `
INSERT INTO properties (
	property_id, listing_hash, price, bedrooms, postcode, property_type,
	total_score, payload, processed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (property_id) DO UPDATE SET
	listing_hash  = EXCLUDED.listing_hash,
	price         = EXCLUDED.price,
	bedrooms      = EXCLUDED.bedrooms,
	postcode      = EXCLUDED.postcode,
	property_type = EXCLUDED.property_type,
	total_score   = EXCLUDED.total_score,
	payload       = EXCLUDED.payload,
	processed_at  = EXCLUDED.processed_at,
	updated_at    = now()
RETURNING (xmax = 0) AS inserted;
`

func upsertArgs(record domain.ProcessedProperty, hash string) ([]any, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record %s: %w", record.Record.PropertyID, err)
	}

	var totalScore *float64
	if record.Scores != nil {
		totalScore = &record.Scores.TotalScore
	}

	return []any{
		record.Record.PropertyID,
		hash,
		record.Record.Price,
		record.Record.Bedrooms,
		record.Record.Postcode,
		record.Record.PropertyType,
		totalScore,
		payload,
		record.ProcessedAt,
	}, nil
}

// Save persists one record. A record whose listing fingerprint already
// belongs to a different property id is rejected as a duplicate.
func (a *PostgresStorageAdapter) Save(ctx context.Context, record domain.ProcessedProperty) error {
	hash := calculateListingHash(buildListingFingerprint(record.Record))

	dupes, err := a.findHashOwners(ctx, []string{hash})
	if err != nil {
		return err
	}
	if owner, ok := dupes[hash]; ok && owner != record.Record.PropertyID {
		return fmt.Errorf("listing fingerprint already stored as %s: %w", owner, domain.ErrDuplicateProperty)
	}

	args, err := upsertArgs(record, hash)
	if err != nil {
		return err
	}

	var inserted bool
	if err := a.pool.QueryRow(ctx, upsertSQL, args...).Scan(&inserted); err != nil {
		return fmt.Errorf("failed to upsert property %s: %w", record.Record.PropertyID, err)
	}

	return nil
}

// BatchSave upserts records in one round trip via pgx.Batch. Records that
// duplicate an already stored listing under a different id are skipped
// and counted, not failed.
func (a *PostgresStorageAdapter) BatchSave(ctx context.Context, records []domain.ProcessedProperty) (*domain.BatchSaveStats, error) {
	stats := &domain.BatchSaveStats{}
	if len(records) == 0 {
		return stats, nil
	}

	hashes := make([]string, len(records))
	for i, record := range records {
		hashes[i] = calculateListingHash(buildListingFingerprint(record.Record))
	}

	owners, err := a.findHashOwners(ctx, hashes)
	if err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	queued := 0
	for i, record := range records {
		if owner, ok := owners[hashes[i]]; ok && owner != record.Record.PropertyID {
			stats.Duplicates++
			continue
		}

		args, err := upsertArgs(record, hashes[i])
		if err != nil {
			return nil, err
		}
		batch.Queue(upsertSQL, args...)
		queued++
	}

	if queued == 0 {
		return stats, nil
	}

	results := a.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < queued; i++ {
		var inserted bool
		if err := results.QueryRow().Scan(&inserted); err != nil {
			return nil, fmt.Errorf("batch save failed at statement %d: %w", i, err)
		}
		if inserted {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	return stats, nil
}

// findHashOwners maps each listing hash to the property id that owns it.
func (a *PostgresStorageAdapter) findHashOwners(ctx context.Context, hashes []string) (map[string]string, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT listing_hash, property_id FROM properties WHERE listing_hash = ANY($1)`, hashes)
	if err != nil {
		return nil, fmt.Errorf("failed to check listing fingerprints: %w", err)
	}
	defer rows.Close()

	owners := make(map[string]string)
	for rows.Next() {
		var hash, propertyID string
		if err := rows.Scan(&hash, &propertyID); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint row: %w", err)
		}
		owners[hash] = propertyID
	}

	return owners, rows.Err()
}

func (a *PostgresStorageAdapter) GetByID(ctx context.Context, propertyID string) (*domain.ProcessedProperty, error) {
	var payload []byte
	err := a.pool.QueryRow(ctx,
		`SELECT payload FROM properties WHERE property_id = $1`, propertyID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query property %s: %w", propertyID, err)
	}

	var record domain.ProcessedProperty
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal property %s: %w", propertyID, err)
	}

	return &record, nil
}

func (a *PostgresStorageAdapter) Find(ctx context.Context, limit, offset int) ([]domain.ProcessedProperty, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return a.queryRecords(ctx,
		`SELECT payload FROM properties ORDER BY created_at, property_id LIMIT $1 OFFSET $2`,
		limit, offset)
}

func (a *PostgresStorageAdapter) FindAll(ctx context.Context) ([]domain.ProcessedProperty, error) {
	return a.queryRecords(ctx,
		`SELECT payload FROM properties ORDER BY created_at, property_id`)
}

func (a *PostgresStorageAdapter) queryRecords(ctx context.Context, sql string, args ...any) ([]domain.ProcessedProperty, error) {
	rows, err := a.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var records []domain.ProcessedProperty
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}

		var record domain.ProcessedProperty
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal property row: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (a *PostgresStorageAdapter) Delete(ctx context.Context, propertyID string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM properties WHERE property_id = $1`, propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete property %s: %w", propertyID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}
