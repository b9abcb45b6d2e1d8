package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port/usecases_port"
)

type AnalysisHandler struct {
	getTopUC usecases_port.GetTopPropertiesUseCase
	exportUC usecases_port.ExportPropertiesUseCase
	criteria domain.ScoringCriteria
}

func NewAnalysisHandler(
	getTopUC usecases_port.GetTopPropertiesUseCase,
	exportUC usecases_port.ExportPropertiesUseCase,
	criteria domain.ScoringCriteria,
) *AnalysisHandler {
	return &AnalysisHandler{
		getTopUC: getTopUC,
		exportUC: exportUC,
		criteria: criteria,
	}
}

// GetTopProperties handles GET /api/v1/properties/top?n=10.
func (h *AnalysisHandler) GetTopProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	n := 10
	if nStr := r.URL.Query().Get("n"); nStr != "" {
		var err error
		n, err = strconv.Atoi(nStr)
		if err != nil || n < 1 {
			WriteJSONError(w, http.StatusBadRequest, "Parameter n must be a positive integer")
			return
		}
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "GetTopProperties",
		"n":       n,
	})
	handlerLogger.Debug("Ranking stored properties", nil)

	top, err := h.getTopUC.Execute(r.Context(), n)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to rank properties")
		return
	}

	handlerLogger.Info("Top properties computed", port.Fields{"count": len(top)})
	RespondWithJSON(w, http.StatusOK, TopPropertiesResponse{Count: len(top), Data: top})
}

// ExportProperties handles GET /api/v1/export/csv. The response is a file
// download of the whole portfolio, ranked best first.
func (h *AnalysisHandler) ExportProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	handlerLogger := logger.WithFields(port.Fields{"handler": "ExportProperties"})
	handlerLogger.Debug("Exporting property portfolio", nil)

	data, contentType, fileName, err := h.exportUC.Execute(r.Context())
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to export properties")
		return
	}

	handlerLogger.Info("Portfolio exported", port.Fields{
		"file_name":  fileName,
		"size_bytes": len(data),
	})

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetCriteria handles GET /api/v1/criteria and returns the active search
// profile, so clients can show what the scores mean.
func (h *AnalysisHandler) GetCriteria(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.criteria)
}
