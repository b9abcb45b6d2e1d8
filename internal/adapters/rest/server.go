package rest

import (
	"context"
	"net/http"

	core_port "github.com/bchiyangwa9/london-property-analyzer/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	propertyHandler *PropertyHandler,
	analysisHandler *AnalysisHandler,
	importHandler *ImportHandler,
	allowedOrigins []string,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/properties/process", propertyHandler.ProcessProperty)
		r.Post("/properties/batch", propertyHandler.IngestBatch)

		// More specific route first so "top" is not read as a property ID.
		r.Get("/properties/top", analysisHandler.GetTopProperties)
		r.Get("/properties", propertyHandler.FindProperties)
		r.Get("/properties/{propertyID}", propertyHandler.GetPropertyDetails)
		r.Delete("/properties/{propertyID}", propertyHandler.DeleteProperty)

		r.Get("/export/csv", analysisHandler.ExportProperties)
		r.Get("/criteria", analysisHandler.GetCriteria)

		r.Post("/scrape", importHandler.Scrape)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
