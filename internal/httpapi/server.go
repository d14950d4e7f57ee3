package httpapi

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	keymint "github.com/keymint/keymint"
	"github.com/keymint/keymint/metrics/export/prometheus"
	"github.com/keymint/keymint/middleware"
)

// Server holds the engine and logger shared by all handlers.
type Server struct {
	engine *keymint.Engine
	logger *zap.Logger
}

func NewServer(engine *keymint.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{engine: engine, logger: logger}
}

// Routes builds the router. The caller mounts it on an http.Server.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.withClientIP)

	r.Post("/create-credentials", s.handleCreateCredential)
	r.Post("/exchange-credentials", s.handleExchange)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Guard(s.engine))
		r.Get("/check-authentication", s.handleCheckAuthentication)
	})

	r.Method(http.MethodGet, "/metrics", prometheus.NewPrometheusExporter(s.engine).Handler())

	return r
}

// withClientIP propagates the caller's address into the engine's context so
// throttling and audit events can see it.
func (s *Server) withClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(keymint.WithClientIP(r.Context(), ip)))
	})
}
