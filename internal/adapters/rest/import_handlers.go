package rest

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port/usecases_port"
)

type ImportHandler struct {
	importUC usecases_port.ImportListingsUseCase
}

func NewImportHandler(importUC usecases_port.ImportListingsUseCase) *ImportHandler {
	return &ImportHandler{importUC: importUC}
}

// Scrape handles POST /api/v1/scrape: crawl a portal search URL, process
// every listing found and persist the valid ones.
func (h *ImportHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	parsed, err := url.ParseRequestURI(req.SearchURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		WriteJSONError(w, http.StatusBadRequest, "search_url must be a valid http(s) URL")
		return
	}
	if req.MaxPages < 1 {
		req.MaxPages = 1
	}
	if req.MaxPages > 20 {
		req.MaxPages = 20
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "Scrape",
		"search_url": req.SearchURL,
		"max_pages":  req.MaxPages,
	})
	handlerLogger.Info("Starting listing import", nil)

	report, err := h.importUC.Execute(r.Context(), req.SearchURL, req.MaxPages)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to import listings")
		return
	}

	handlerLogger.Info("Listing import finished", port.Fields{
		"links_found": report.LinksFound,
		"fetched":     report.Fetched,
		"failed":      report.Failed,
	})
	RespondWithJSON(w, http.StatusOK, report)
}
