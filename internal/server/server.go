package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/api/handlers"
	"github.com/tablens/tablens/internal/quality"
	"github.com/tablens/tablens/internal/validation"
	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/interfaces"
)

// Config holds HTTP server configuration
type Config struct {
	Host         string        `json:"host" yaml:"host"`
	Port         int           `json:"port" yaml:"port"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

func getDefaultConfig() *Config {
	return &Config{
		Host:         constants.DefaultServerHost,
		Port:         constants.DefaultServerPort,
		ReadTimeout:  constants.DefaultReadTimeout,
		WriteTimeout: constants.DefaultWriteTimeout,
	}
}

// Server wires the engine, rule store and handlers behind a mux router
type Server struct {
	config     *Config
	logger     *logrus.Logger
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates the API server
func NewServer(config *Config, logger *logrus.Logger, engine *quality.Engine, ruleEngine *validation.RuleEngine, store interfaces.RuleStore, version string) *Server {
	if config == nil {
		config = getDefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	s := &Server{
		config: config,
		logger: logger,
		router: mux.NewRouter(),
	}

	manager := validation.NewRuleManager(store, logger)
	applicator := validation.NewFixApplicator(logger)

	analysisHandler := handlers.NewAnalysisHandler(engine, logger)
	validationHandler := handlers.NewValidationHandler(ruleEngine, store, logger)
	rulesHandler := handlers.NewRulesHandler(manager, logger)
	fixHandler := handlers.NewFixHandler(applicator, logger)
	healthHandler := handlers.NewHealthHandler(version)

	s.router.Use(s.loggingMiddleware)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analyze", analysisHandler.Analyze).Methods(http.MethodPost)
	api.HandleFunc("/validate", validationHandler.Validate).Methods(http.MethodPost)
	api.HandleFunc("/fix/options", fixHandler.Options).Methods(http.MethodPost)
	api.HandleFunc("/fix", fixHandler.Apply).Methods(http.MethodPost)

	api.HandleFunc("/datasets/{datasetID}/rules", rulesHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/datasets/{datasetID}/rules", rulesHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/datasets/{datasetID}/rules/{ruleID}", rulesHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/datasets/{datasetID}/rules/{ruleID}", rulesHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/datasets/{datasetID}/rules/{ruleID}/toggle", rulesHandler.Toggle).Methods(http.MethodPost)
	api.HandleFunc("/datasets/{datasetID}/results", validationHandler.Results).Methods(http.MethodGet)

	s.router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// Router exposes the underlying router, mainly for tests
func (s *Server) Router() *mux.Router {
	return s.router
}

// Start begins serving and blocks until the listener stops
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting API server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("Request handled")
	})
}
