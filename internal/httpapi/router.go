package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shlyapa-game/shlyapa/internal/httpapi/handler"
	"github.com/shlyapa-game/shlyapa/internal/ratelimit"
)

// Config wires the router's dependencies.
type Config struct {
	Dispatcher handler.Dispatcher
	States     handler.StateStore
	Vocab      handler.Vocabulary
	Words      handler.WordLister

	// AdminSecretHash is the bcrypt hash of the secret exchanged for admin
	// tokens; TokenSecret signs them. Both empty disables /utils admin
	// access.
	AdminSecretHash string
	TokenSecret     []byte

	// RateLimiter guards the /utils endpoints. nil disables limiting.
	RateLimiter ratelimit.Limiter
}

// NewRouter builds the root HTTP router: the Alice webhook at POST /, a
// liveness text at GET /, and the content-review endpoints under /utils.
func NewRouter(cfg Config) http.Handler {
	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = &ratelimit.Noop{}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", handler.Root)
	r.Get("/healthz", handler.Healthz)

	aliceHandler := handler.NewAliceHandler(cfg.Dispatcher, cfg.States)
	r.With(LimitRequestBody(DefaultMaxBodyBytes)).Post("/", aliceHandler.HandleWebhook)

	rateLimitByIP := RateLimitMiddleware(limiter, RateLimitKeyByIP)
	utilsHandler := handler.NewUtilsHandler(cfg.Vocab, cfg.Words, cfg.AdminSecretHash, cfg.TokenSecret)
	r.Route("/utils", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
		r.Use(LimitRequestBody(DefaultMaxBodyBytes))
		r.Use(rateLimitByIP)

		r.Post("/token", utilsHandler.IssueToken)
		r.With(RequireAdmin(cfg.TokenSecret)).Get("/word", utilsHandler.Word)
		r.With(RequireAdmin(cfg.TokenSecret)).Post("/reload", utilsHandler.Reload)
	})

	return r
}

// DefaultRateLimiter limits /utils to 20 requests per minute per IP.
// Single-instance only; a multi-instance deployment needs a shared backend.
func DefaultRateLimiter() ratelimit.Limiter {
	return ratelimit.NewInMemory(20, time.Minute)
}
