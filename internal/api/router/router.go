package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/http/handlers"
	httpmiddleware "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/http/middleware"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	HealthHandler      *handlers.HealthHandler
	SessionsHandler    *handlers.SessionsHandler
	TimelineHandler    *handlers.TimelineHandler
	ReviewHandler      *handlers.ReviewHandler
	JourneyHandler     *handlers.JourneyHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Staff user tokens
	UserTokenSecret string
	RequiredRole    string

	// Journey routes are limited per staff user when set
	JourneyRateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	r.Group(func(public chi.Router) {
		if cfg.HealthHandler != nil {
			public.Get("/health", cfg.HealthHandler.Health)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	r.Group(func(staff chi.Router) {
		staff.Use(httpmiddleware.RequestLogger(cfg.Logger))
		staff.Use(httpmiddleware.StaffUser(cfg.UserTokenSecret, cfg.RequiredRole))

		staff.Route("/prisons/{prisonId}", func(r chi.Router) {
			if cfg.SessionsHandler != nil {
				r.Get("/prisoners/{prisonerId}/visit-sessions", cfg.SessionsHandler.VisitSessions)
				r.Get("/prisoners/{prisonerId}/calendar", cfg.SessionsHandler.Calendar)
				r.Get("/session-schedule", cfg.SessionsHandler.SessionSchedule)
				r.Get("/session-capacity", cfg.SessionsHandler.SessionCapacity)
			}
			if cfg.ReviewHandler != nil {
				r.Get("/review", cfg.ReviewHandler.ReviewList)
			}
		})

		if cfg.TimelineHandler != nil {
			staff.Get("/visits/{reference}/timeline", cfg.TimelineHandler.Timeline)
		}

		if cfg.JourneyHandler != nil {
			staff.Route("/journeys", func(r chi.Router) {
				if cfg.JourneyRateLimiter != nil {
					r.Use(cfg.JourneyRateLimiter.Middleware)
				}
				r.Post("/", cfg.JourneyHandler.Start)
				r.Get("/{journeyId}", cfg.JourneyHandler.Get)
				r.Delete("/{journeyId}", cfg.JourneyHandler.Abandon)
				r.Put("/{journeyId}/steps/{step}", cfg.JourneyHandler.SubmitStep)
				r.Post("/{journeyId}/complete", cfg.JourneyHandler.Complete)
			})
		}
	})

	return r
}
