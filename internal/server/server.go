package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/alfagnish/userbook/internal/config"
	"github.com/alfagnish/userbook/internal/events"
	"github.com/alfagnish/userbook/internal/handlers"
	"github.com/alfagnish/userbook/internal/middleware"
	"github.com/alfagnish/userbook/internal/users"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// New creates a fully-configured chi router with all routes, middleware,
// and handlers wired together.
func New(cfg *config.Config, svc *users.Service, hub *events.Hub, log *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// ── Middleware ───────────────────────────────────────────
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Location", middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	// ── Handlers ────────────────────────────────────────────
	handlers.NewUsersHandler(svc, hub, log).Routes(r)
	handlers.NewSystemHandler(svc, log).Routes(r)
	r.Route("/events", handlers.NewEventsHandler(hub, log).Routes)

	if cfg.StaticDir != "" {
		info, err := os.Stat(cfg.StaticDir)
		switch {
		case err == nil && !info.IsDir():
			return nil, fmt.Errorf("static dir %s is not a directory", cfg.StaticDir)
		case err == nil:
			handlers.NewStaticHandler(cfg.StaticDir).Routes(r)
		default:
			log.Warn("static files disabled", zap.String("dir", cfg.StaticDir), zap.Error(err))
		}
	}

	return r, nil
}
