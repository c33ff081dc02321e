package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/corsserve/corsserve/internal/api/handlers"
	mw "github.com/corsserve/corsserve/internal/api/middleware"
)

type Dependencies struct {
	Logger         *zap.Logger
	Static         *handlers.StaticHandler
	RateLimitRPS   float64
	RateLimitBurst int
	Compress       bool
}

func NewRouter(dep Dependencies) http.Handler {
	log := dep.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	// Header policy first so every response carries it, including 429s and 500s.
	r.Use(mw.HeaderPolicy(mw.DevHeaders))
	r.Use(mw.RequestID)
	r.Use(mw.Recovery(log))
	r.Use(mw.Logging(log))
	r.Use(mw.Preflight)
	if dep.RateLimitRPS > 0 {
		r.Use(mw.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
	}
	if dep.Compress {
		r.Use(chimid.Compress(5))
	}

	// Every path and method belongs to the file server.
	r.Handle("/*", dep.Static)
	r.MethodNotAllowed(dep.Static.ServeHTTP)

	return r
}
