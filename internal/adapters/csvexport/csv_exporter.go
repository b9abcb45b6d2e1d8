package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

var header = []string{
	"property_id",
	"postcode",
	"property_type",
	"price",
	"bedrooms",
	"outdoor_space",
	"commute_minutes",
	"nearest_station",
	"distance_to_station_km",
	"nearest_school",
	"school_ofsted",
	"grammar_proximity",
	"price_score",
	"commute_score",
	"property_type_score",
	"bedrooms_score",
	"outdoor_space_score",
	"schools_score",
	"grammar_bonus_score",
	"total_score",
	"source_url",
	"processed_at",
}

// CSVExporter renders processed properties as a flat CSV, one row per
// record, best-ranked first when the caller pre-sorts.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(records []domain.ProcessedProperty) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("csv export: write header: %w", err)
	}

	for _, p := range records {
		if err := w.Write(toRow(p)); err != nil {
			return nil, fmt.Errorf("csv export: write row for %s: %w", p.Record.PropertyID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv export: flush: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *CSVExporter) ContentType() string {
	return "text/csv; charset=utf-8"
}

func (e *CSVExporter) FileName() string {
	return fmt.Sprintf("property-analysis-%s.csv", time.Now().Format("2006-01-02"))
}

func toRow(p domain.ProcessedProperty) []string {
	rec := p.Record

	row := []string{
		rec.PropertyID,
		rec.Postcode,
		rec.PropertyType,
		strconv.FormatInt(rec.Price, 10),
		strconv.Itoa(rec.Bedrooms),
		rec.OutdoorSpace,
		formatOptFloat(rec.CommuteMinutes),
		rec.NearestStation,
		formatOptFloat(rec.DistanceToStationKM),
		rec.NearestSchoolName,
		string(rec.NearestSchoolOfsted),
		string(rec.GrammarProximity),
	}

	if p.Scores != nil {
		row = append(row,
			formatScore(p.Scores.PriceScore),
			formatScore(p.Scores.CommuteScore),
			formatScore(p.Scores.TypeScore),
			formatScore(p.Scores.BedroomScore),
			formatScore(p.Scores.OutdoorScore),
			formatScore(p.Scores.SchoolScore),
			formatScore(p.Scores.GrammarBonus),
			formatScore(p.Scores.TotalScore),
		)
	} else {
		row = append(row, "", "", "", "", "", "", "", "")
	}

	row = append(row, rec.SourceURL, p.ProcessedAt.UTC().Format(time.RFC3339))
	return row
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
