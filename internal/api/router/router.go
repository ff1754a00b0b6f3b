package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saathihq/saathi-platform/internal/auth"
	"github.com/saathihq/saathi-platform/internal/bookings"
	"github.com/saathihq/saathi-platform/internal/chat"
	httpmiddleware "github.com/saathihq/saathi-platform/internal/http/middleware"
	"github.com/saathihq/saathi-platform/internal/psychologists"
	"github.com/saathihq/saathi-platform/internal/stories"
	"github.com/saathihq/saathi-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger               *logging.Logger
	AuthService          *auth.Service
	AuthHandler          *auth.Handler
	PsychologistsHandler *psychologists.Handler
	BookingsHandler      *bookings.Handler
	ChatHandler          *chat.Handler
	StoriesHandler       *stories.Handler
	SessionCookie        string
	AdminJWTSecret       string
	MetricsHandler       http.Handler
	CORSAllowedOrigins   []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger, cfg.SessionCookie))
	}

	requireSession := auth.RequireSession(cfg.AuthService, cfg.SessionCookie, cfg.Logger)

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/api/auth", func(r chi.Router) {
			r.Post("/otp/send", cfg.AuthHandler.SendOTP)
			r.Post("/otp/verify", cfg.AuthHandler.VerifyOTP)
			r.Post("/anonymous", cfg.AuthHandler.Anonymous)
			r.Post("/google/session", cfg.AuthHandler.GoogleSession)
			r.Get("/me", cfg.AuthHandler.Me)
			r.Post("/logout", cfg.AuthHandler.Logout)
		})

		// Psychologist directory and story feed are readable without a
		// session; practitioner sign-up is also open.
		public.Post("/api/psychologists", cfg.PsychologistsHandler.Create)
		public.Get("/api/psychologists", cfg.PsychologistsHandler.List)
		public.Get("/api/psychologists/{psychologistID}", cfg.PsychologistsHandler.Get)
		public.Get("/api/stories", cfg.StoriesHandler.List)
	})

	// Session-guarded endpoints
	r.Group(func(protected chi.Router) {
		protected.Use(requireSession)

		protected.Post("/api/chat", cfg.ChatHandler.Send)
		protected.Get("/api/chat/history/{sessionID}", cfg.ChatHandler.History)
		protected.Delete("/api/chat/history/{sessionID}", cfg.ChatHandler.DeleteHistory)

		protected.Post("/api/bookings/create-order", cfg.BookingsHandler.CreateOrder)
		protected.Post("/api/bookings/{bookingID}/confirm", cfg.BookingsHandler.Confirm)
		protected.Get("/api/bookings", cfg.BookingsHandler.List)

		protected.Post("/api/stories", cfg.StoriesHandler.Create)
	})

	// Admin moderation endpoints. Session resolution is best-effort
	// here so operator JWTs can reach the admin check without a
	// session cookie.
	r.Group(func(admin chi.Router) {
		admin.Use(auth.ResolveSession(cfg.AuthService, cfg.SessionCookie, cfg.Logger))
		admin.Use(httpmiddleware.RequireAdmin(cfg.AdminJWTSecret))

		admin.Get("/api/admin/psychologists", cfg.PsychologistsHandler.AdminList)
		admin.Post("/api/admin/psychologists/{psychologistID}/approve", cfg.PsychologistsHandler.Approve)
		admin.Post("/api/admin/stories/{storyID}/approve", cfg.StoriesHandler.Approve)
	})

	return r
}
