package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

type PropertyHandler struct {
	processUC    usecases_port.ProcessPropertyUseCase
	saveUC       usecases_port.SavePropertyUseCase
	deleteUC     usecases_port.DeletePropertyUseCase
	ingestUC     usecases_port.IngestPropertiesUseCase
	findUC       usecases_port.FindPropertiesUseCase
	getDetailsUC usecases_port.GetPropertyDetailsUseCase
}

func NewPropertyHandler(
	processUC usecases_port.ProcessPropertyUseCase,
	saveUC usecases_port.SavePropertyUseCase,
	deleteUC usecases_port.DeletePropertyUseCase,
	ingestUC usecases_port.IngestPropertiesUseCase,
	findUC usecases_port.FindPropertiesUseCase,
	getDetailsUC usecases_port.GetPropertyDetailsUseCase,
) *PropertyHandler {
	return &PropertyHandler{
		processUC:    processUC,
		saveUC:       saveUC,
		deleteUC:     deleteUC,
		ingestUC:     ingestUC,
		findUC:       findUC,
		getDetailsUC: getDetailsUC,
	}
}

// ProcessProperty handles POST /api/v1/properties/process. By default the
// record runs through the full validate-enrich-score pipeline without
// being persisted, which makes the endpoint handy for trying out a
// listing by hand. With ?persist=true a valid record is also stored.
func (h *PropertyHandler) ProcessProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req ProcessPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	persist := r.URL.Query().Get("persist") == "true"

	handlerLogger := logger.WithFields(port.Fields{
		"handler":     "ProcessProperty",
		"property_id": req.Property.PropertyID,
		"persist":     persist,
	})
	handlerLogger.Debug("Processing single property", nil)

	var result *domain.ProcessedProperty
	var err error
	if persist {
		result, err = h.saveUC.Execute(r.Context(), req.Property)
	} else {
		result, err = h.processUC.Execute(r.Context(), req.Property)
	}
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateProperty) {
			WriteJSONError(w, http.StatusConflict, "Listing already stored under another property ID")
			return
		}
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to process property")
		return
	}

	handlerLogger.Info("Property processed", port.Fields{
		"valid":       result.Valid(),
		"total_score": result.TotalScore(),
	})
	RespondWithJSON(w, http.StatusOK, result)
}

// IngestBatch handles POST /api/v1/properties/batch. Every valid record
// is persisted and the per-record outcomes are returned.
func (h *PropertyHandler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req BatchIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Properties) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "Batch must contain at least one property")
		return
	}
	if len(req.Properties) > 500 {
		logger.Warn("Batch too large", port.Fields{"size": len(req.Properties)})
		WriteJSONError(w, http.StatusBadRequest, "Batch too large, max 500 properties")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "IngestBatch",
		"batch_size": len(req.Properties),
	})
	handlerLogger.Debug("Ingesting property batch", nil)

	results, stats, err := h.ingestUC.Execute(r.Context(), req.Properties)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to ingest properties")
		return
	}

	handlerLogger.Info("Batch ingested", port.Fields{
		"created":    stats.Created,
		"updated":    stats.Updated,
		"duplicates": stats.Duplicates,
	})
	RespondWithJSON(w, http.StatusOK, BatchIngestResponse{Results: results, Stats: stats})
}

// FindProperties handles GET /api/v1/properties.
func (h *PropertyHandler) FindProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	limit, err := GetLimitOrDefault(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid limit parameter")
		return
	}
	offset, err := GetOffsetOrDefault(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid offset parameter")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "FindProperties",
		"limit":   limit,
		"offset":  offset,
	})
	handlerLogger.Debug("Listing stored properties", nil)

	properties, err := h.findUC.Execute(r.Context(), limit, offset)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve properties")
		return
	}

	handlerLogger.Info("Properties listed", port.Fields{"count": len(properties)})
	RespondWithJSON(w, http.StatusOK, PropertyListResponse{
		Count:  len(properties),
		Limit:  limit,
		Offset: offset,
		Data:   properties,
	})
}

// GetPropertyDetails handles GET /api/v1/properties/{propertyID}.
func (h *PropertyHandler) GetPropertyDetails(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	propertyID := chi.URLParam(r, "propertyID")
	if propertyID == "" {
		WriteJSONError(w, http.StatusBadRequest, "Property ID is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":     "GetPropertyDetails",
		"property_id": propertyID,
	})
	handlerLogger.Debug("Fetching property details", nil)

	property, err := h.getDetailsUC.Execute(r.Context(), propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Property not found")
			return
		}
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve property")
		return
	}

	handlerLogger.Info("Property details found", nil)
	RespondWithJSON(w, http.StatusOK, property)
}

// DeleteProperty handles DELETE /api/v1/properties/{propertyID}.
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	propertyID := chi.URLParam(r, "propertyID")
	if propertyID == "" {
		WriteJSONError(w, http.StatusBadRequest, "Property ID is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":     "DeleteProperty",
		"property_id": propertyID,
	})
	handlerLogger.Debug("Deleting property", nil)

	if err := h.deleteUC.Execute(r.Context(), propertyID); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Property not found")
			return
		}
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to delete property")
		return
	}

	handlerLogger.Info("Property deleted", nil)
	w.WriteHeader(http.StatusNoContent)
}
