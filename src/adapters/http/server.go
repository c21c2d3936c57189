package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"campusrecords/src/domain"
)

// TokenVerifier valida o bearer token e devolve o principal autenticado.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// RecordRoutes registra as rotas CRUD de um tipo de registro.
type RecordRoutes interface {
	Register(mux *http.ServeMux)
}

// HealthChecks mapeia o nome de uma dependência para seu ping.
type HealthChecks map[string]func(ctx context.Context) error

// Server representa o servidor HTTP da API
type Server struct {
	logger   *slog.Logger
	server   *http.Server
	mux      *http.ServeMux
	port     int
	verifier TokenVerifier
	checks   HealthChecks
}

// NewServer cria uma nova instância do servidor
func NewServer(
	logger *slog.Logger,
	port int,
	verifier TokenVerifier,
	checks HealthChecks,
	routes ...RecordRoutes,
) *Server {
	server := &Server{
		mux:      http.NewServeMux(),
		port:     port,
		logger:   logger,
		verifier: verifier,
		checks:   checks,
	}

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      server.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	server.mux.HandleFunc("GET /health", server.Health)

	for _, r := range routes {
		r.Register(server.mux)
	}

	return server
}

// Handler devolve o mux já envolvido pelos middlewares de log e autenticação.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.authenticate(s.mux))
}

// Start inicia o servidor HTTP
func (s *Server) Start() error {
	s.logger.Info("Server started", "port", s.port)

	return s.server.ListenAndServe()
}

// Shutdown encerra o servidor HTTP de forma graciosa
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{Status: "ok"}
	status := http.StatusOK

	for name, ping := range s.checks {
		if err := ping(r.Context()); err != nil {
			if response.Checks == nil {
				response.Checks = make(map[string]string)
			}
			response.Checks[name] = err.Error()
			response.Status = "unavailable"
			status = http.StatusServiceUnavailable
			s.logger.Warn("Health check failed", "dependency", name, "error", err)
		}
	}

	writeJSON(w, s.logger, status, response)
}
