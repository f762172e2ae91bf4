package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/RON-000000/photocomp/internal/handler"
	"github.com/RON-000000/photocomp/internal/middleware"
	"github.com/RON-000000/photocomp/internal/model"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Competition *handler.CompetitionHandler
	Submission  *handler.SubmissionHandler
	Rating      *handler.RatingHandler
	User        *handler.UserHandler
	Upload      *handler.UploadHandler
	Stats       *handler.StatsHandler
	Health      *handler.HealthHandler
}

// Config carries the cross-cutting router dependencies.
type Config struct {
	CORSOrigins string
	Auth        fiber.Handler
	Limiters    middleware.Limiters
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, cfg Config) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(cfg.CORSOrigins))
	app.Use(cfg.Auth)

	// Probes and metrics (no auth, no rate limiting)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")

	relaxed := middleware.RateLimit(cfg.Limiters.Relaxed)
	moderate := middleware.RateLimit(cfg.Limiters.Moderate)
	strict := middleware.RateLimit(cfg.Limiters.Strict)
	upload := middleware.RateLimit(cfg.Limiters.Upload)

	admin := middleware.RequireRole(model.RoleAdmin)
	jury := middleware.RequireRole(model.RoleJury, model.RoleAdmin)

	// Competitions
	api.Get("/competitions", h.Competition.List, relaxed)
	api.Post("/competitions", h.Competition.Create, strict, admin)
	api.Get("/competitions/:id", h.Competition.Get, relaxed)
	api.Patch("/competitions/:id", h.Competition.Update, strict, admin)
	api.Put("/competitions/:id/status", h.Competition.SetStatus, strict, admin)
	api.Delete("/competitions/:id", h.Competition.Delete, strict, admin)
	api.Get("/competitions/:id/submissions", h.Submission.ListByCompetition, relaxed)
	api.Get("/competitions/:id/leaderboard", h.Competition.Leaderboard, relaxed)

	// Submissions
	api.Post("/submissions", h.Submission.Create, moderate, middleware.RequireAuth())
	api.Get("/submissions/:id", h.Submission.Get, relaxed)
	api.Delete("/submissions/:id", h.Submission.Delete, strict, middleware.RequireAuth())
	api.Post("/submissions/:id/vote", h.Submission.Vote, moderate, middleware.RequireAuth())
	api.Get("/submissions/:id/vote", h.Submission.HasVoted, relaxed, middleware.RequireAuth())
	api.Post("/submissions/:id/comments", h.Submission.AddComment, moderate, middleware.RequireAuth())
	api.Get("/submissions/:id/comments", h.Submission.ListComments, relaxed)
	api.Delete("/submissions/:id/comments/:commentId", h.Submission.DeleteComment, strict, middleware.RequireAuth())
	api.Get("/submissions/:id/ratings", h.Rating.ListForSubmission, relaxed, jury)

	// Jury
	api.Get("/jury/competitions", h.Competition.JuryCompetitions, relaxed, jury)
	api.Post("/jury/ratings", h.Rating.Upsert, moderate, jury)
	api.Get("/jury/ratings/:submissionId", h.Rating.Mine, relaxed, jury)

	// Users and auth
	api.Post("/auth/sync", h.User.Sync, moderate)
	api.Get("/users/me", h.User.Me, relaxed, middleware.RequireAuth())
	api.Get("/users/me/submissions", h.Submission.Mine, relaxed, middleware.RequireAuth())
	api.Patch("/users/me", h.User.UpdateProfile, moderate, middleware.RequireAuth())
	api.Get("/users/check-username", h.User.CheckUsername, relaxed)
	api.Get("/users/:username", h.User.Profile, relaxed)

	// Uploads
	api.Post("/upload", h.Upload.Upload, upload, middleware.RequireAuth())
	api.Delete("/upload", h.Upload.Delete, strict, middleware.RequireAuth())

	// Stats and featured winners
	api.Get("/stats", h.Stats.Public, relaxed)
	api.Get("/featured-winners", h.Competition.FeaturedWinners, relaxed)

	// Admin
	api.Get("/admin/users", h.User.List, strict, admin)
	api.Get("/admin/jury-members", h.User.JuryMembers, strict, admin)
	api.Put("/admin/users/:id/role", h.User.UpdateRole, strict, admin)
	api.Get("/admin/stats", h.Stats.Admin, strict, admin)
}
