package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mindgames-dev/mindgames/internal/domain"
	mw "github.com/mindgames-dev/mindgames/internal/middleware"
	"github.com/mindgames-dev/mindgames/internal/middleware/metrics"
	rl "github.com/mindgames-dev/mindgames/internal/middleware/ratelimiter"
	"github.com/mindgames-dev/mindgames/internal/setup"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

// New creates the chi router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that group
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Authorization"}, // refreshed tokens
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies))
	r.Use(mw.MaxBodyBytes(deps.Config.Public.MaxBodyBytes))
	r.Use(mw.GlobalRateLimit(rl.New(1000, 1000, 0))) // 1000 global RPS

	h := deps.Handler
	authMw := deps.AuthMiddleware
	staff := authMw.RequireRole(domain.RoleAdmin, domain.RoleTherapist)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit(rl.New(20, 40, time.Hour), utils.GetIP)) // 20 RPS by IP

		r.Get("/errortexts", h.ListErrortexts)
		r.Get("/errortexts/{id}", h.GetErrortext)
		r.Get("/helptexts", h.ListHelptexts)
		r.Get("/helptexts/{id}", h.GetHelptext)
		r.Post("/logout", h.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit(rl.New(1, 5, time.Hour), utils.GetIP)) // 1 per second by IP, burst 5
		r.Post("/login", h.Login)
	})

	// Mail sending and code checking, limited per address so codes can't be brute forced
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit(rl.PerMinute(10), utils.GetIP))
		r.Use(mw.RateLimit(rl.New(5.0/600.0, 5, time.Hour), mw.GetEmailAndIP)) // 5 per 10 minutes by email
		r.Post("/password/forgot", h.ForgotPassword)
		r.Post("/password/reset", h.ResetPassword)
		r.Post("/therapists", h.RegisterTherapist)
	})

	// Logged-in routes
	r.Group(func(r chi.Router) {
		r.Use(authMw.NeedAuth())
		r.Use(mw.RateLimit(rl.New(100, 100, time.Hour), mw.GetUserIDFromContext)) // 100 RPS per user

		r.Put("/password", h.ChangePassword)
		r.Get("/me", h.Me)

		r.Get("/users/{id}", h.GetUser)
		r.Put("/users/{id}", h.UpdateUser)

		r.Get("/therapists/{id}", h.GetTherapist)
		r.Put("/therapists/{id}", h.UpdateTherapist)

		r.Get("/patients", h.ListPatients)
		r.Get("/patients/{id}", h.GetPatient)
		r.Get("/patients/{id}/settings", h.ListGameSettings)
		r.Get("/patients/{id}/settings/{game}", h.GetGameSetting)
		r.With(staff).Post("/patients", h.CreatePatient)
		r.With(staff).Put("/patients/{id}", h.UpdatePatient)
		r.With(staff).Delete("/patients/{id}", h.DeletePatient)
		r.With(staff).Put("/patients/{id}/settings/{game}", h.SaveGameSetting)
		r.With(staff).Delete("/patients/{id}/settings/{game}", h.DeleteGameSetting)

		r.Get("/statistics", h.ListStatistics)
		r.Get("/statistics/summary", h.StatisticSummary)
		r.Get("/statistics/{id}", h.GetStatistic)
		// CreateStatistic: 10 RPS per user
		r.With(mw.RateLimit(rl.New(10, 20, time.Hour), mw.GetUserIDFromContext)).Post("/statistics", h.CreateStatistic)
		r.Put("/statistics/{id}", h.UpdateStatistic)
		r.Delete("/statistics/{id}", h.DeleteStatistic)

		// CreateLog: 1 per second per user
		r.With(mw.RateLimit(rl.New(1, 10, time.Hour), mw.GetUserIDFromContext)).Post("/logs", h.CreateLog)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(authMw.AdminOnly())

		r.Get("/users", h.ListUsers)
		r.Delete("/users/{id}", h.DeleteUser)

		r.Get("/therapists", h.ListTherapists)
		r.Delete("/therapists/{id}", h.DeleteTherapist)

		r.Post("/errortexts", h.CreateErrortext)
		r.Put("/errortexts/{id}", h.UpdateErrortext)
		r.Delete("/errortexts/{id}", h.DeleteErrortext)

		r.Post("/helptexts", h.CreateHelptext)
		r.Put("/helptexts/{id}", h.UpdateHelptext)
		r.Delete("/helptexts/{id}", h.DeleteHelptext)

		r.Get("/logs", h.ListLogs)
		r.Get("/smtplogs", h.ListSmtpLogs)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, nil, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusMethodNotAllowed, nil, "Method not allowed")
	})

	return r
}
