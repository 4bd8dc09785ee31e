package app

import (
	"log/slog"
	"time"

	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/guard"
	"github.com/courtside/platform/internal/handler"
	adminhandler "github.com/courtside/platform/internal/handler/admin"
	"github.com/courtside/platform/internal/provider"
	"github.com/courtside/platform/internal/repository"
	"github.com/courtside/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool        *pgxpool.Pool
	JWTMgr      *auth.JWTManager
	AdminPolicy *auth.AdminPolicy
	Geocoder    provider.Geocoder
	Storage     provider.ObjectStorage
	Logger      *slog.Logger

	CORSOrigin    string
	CourtCacheTTL time.Duration
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	logger := deps.Logger

	// Repositories
	courtRepo := repository.NewCourtRepository()
	suggestionRepo := repository.NewSuggestionRepository()
	editRepo := repository.NewEditSuggestionRepository()
	reviewRepo := repository.NewReviewRepository()
	photoRepo := repository.NewPhotoRepository()
	reportRepo := repository.NewReportRepository()
	banRepo := repository.NewBanRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Court reads share one process-local cache; every court write path
	// invalidates through it.
	courtCache := guard.NewTTLCache[uuid.UUID, *domain.Court](deps.CourtCacheTTL)

	// Services
	suggestionSvc := service.NewSuggestionService(pool, courtRepo, suggestionRepo, editRepo, outboxRepo, deps.Geocoder, courtCache, logger)
	moderationSvc := service.NewModerationService(pool, reviewRepo, photoRepo, reportRepo, outboxRepo, deps.Storage, logger)
	banSvc := service.NewBanService(pool, banRepo, outboxRepo, logger)

	// Handlers
	courtHandler := handler.NewCourtHandler(courtRepo, pool, courtCache)
	suggestionHandler := handler.NewSuggestionHandler(suggestionSvc)
	reviewHandler := handler.NewReviewHandler(reviewRepo, courtRepo, deps.AdminPolicy, pool)
	photoHandler := handler.NewPhotoHandler(photoRepo, courtRepo, deps.Storage, pool)
	reportHandler := handler.NewReportHandler(moderationSvc)

	// Admin handlers
	courtAdmin := adminhandler.NewCourtHandler(courtRepo, pool, courtCache)
	suggestionAdmin := adminhandler.NewSuggestionHandler(suggestionSvc)
	reportAdmin := adminhandler.NewReportHandler(moderationSvc)
	banAdmin := adminhandler.NewBanHandler(banSvc)
	photoAdmin := adminhandler.NewPhotoHandler(moderationSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(deps.CORSOrigin))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Public court reads
	r.Get("/courts", courtHandler.List)
	r.Get("/courts/{id}", courtHandler.Get)
	r.Get("/courts/{id}/reviews", reviewHandler.ListByCourt)
	r.Get("/courts/{id}/photos", photoHandler.ListByCourt)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(deps.JWTMgr))

		r.Get("/suggestions/mine", suggestionHandler.ListMine)
		r.Get("/edit-suggestions/mine", suggestionHandler.ListMyEdits)
		r.Delete("/reviews/{id}", reviewHandler.Delete)
		r.Post("/reports", reportHandler.Create)

		// Content submission gated per ban scope
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireNotBanned(banSvc, domain.BanSuggestions))
			r.Post("/suggestions", suggestionHandler.Create)
			r.Post("/courts/{id}/edit-suggestions", suggestionHandler.CreateEdit)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireNotBanned(banSvc, domain.BanReviews))
			r.Post("/courts/{id}/reviews", reviewHandler.Create)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireNotBanned(banSvc, domain.BanPhotos))
			r.Post("/photos", photoHandler.Upload)
			r.Post("/courts/{id}/photos", photoHandler.Attach)
		})
	})

	// Admin-authenticated routes. Admin-realm tokens only; a user-realm token
	// never reaches the admin policy check.
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateAdmin(deps.JWTMgr))
		r.Use(auth.RequireAdmin(deps.AdminPolicy))

		r.Route("/courts", func(r chi.Router) {
			r.Post("/", courtAdmin.Create)
			r.Put("/{id}", courtAdmin.Update)
			r.Patch("/{id}/visibility", courtAdmin.SetVisibility)
		})

		r.Route("/suggestions", func(r chi.Router) {
			r.Get("/", suggestionAdmin.List)
			r.Post("/{id}/review", suggestionAdmin.Review)
		})

		r.Route("/edit-suggestions", func(r chi.Router) {
			r.Get("/", suggestionAdmin.ListEdits)
			r.Post("/{id}/review", suggestionAdmin.ReviewEdit)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", reportAdmin.List)
			r.Post("/{id}/resolve", reportAdmin.Resolve)
		})

		r.Route("/bans", func(r chi.Router) {
			r.Get("/", banAdmin.List)
			r.Post("/", banAdmin.Create)
			r.Patch("/{id}", banAdmin.Update)
			r.Delete("/user/{userID}", banAdmin.Unban)
		})

		r.Delete("/photos/{id}", photoAdmin.Delete)
	})

	return r
}
