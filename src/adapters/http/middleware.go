package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"campusrecords/src/domain"
	"campusrecords/src/services/authorization"
)

type principalKey struct{}

// PrincipalFrom devolve o principal da requisição; anônimo quando não há token.
func PrincipalFrom(ctx context.Context) domain.Principal {
	principal, ok := ctx.Value(principalKey{}).(domain.Principal)
	if !ok {
		return domain.Anonymous()
	}
	return principal
}

func withPrincipal(ctx context.Context, principal domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// authenticate resolve o principal a partir do header Authorization.
// Sem header a requisição segue como anônima; token inválido encerra com 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		const prefix = "Bearer "
		if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="campus-records"`)
			writeError(w, s.logger, fmt.Errorf("malformed authorization header: %w", domain.ErrUnauthenticated))
			return
		}

		principal, err := s.verifier.Verify(strings.TrimSpace(header[len(prefix):]))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="campus-records", error="invalid_token"`)
			writeError(w, s.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

// requireCapability barra a requisição com 403 antes de qualquer decodificação.
func requireCapability(logger *slog.Logger, capability domain.Capability, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := authorization.Require(PrincipalFrom(r.Context()), capability); err != nil {
			writeError(w, logger, err)
			return
		}
		next(w, r)
	})
}

// statusRecorder captura o status escrito pelo handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
