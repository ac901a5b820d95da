package main

import (
	"net/http"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/config"
	"github.com/AdamBeresnev/bracket-picks/internal/live"
	"github.com/AdamBeresnev/bracket-picks/internal/metrics"
	"github.com/AdamBeresnev/bracket-picks/internal/middleware"
	"github.com/AdamBeresnev/bracket-picks/internal/service"
	"github.com/AdamBeresnev/bracket-picks/internal/store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type application struct {
	cfg            *config.Config
	db             *sqlx.DB
	sessionManager *scs.SessionManager
	hub            *live.Hub
	metrics        *metrics.Metrics
	providers      []string

	userStore    *store.UserStore
	tournaments  *service.TournamentService
	brackets     *service.BracketService
	picks        *service.PickService
	matches      *service.MatchService
	leaderboards *service.LeaderboardService
	users        *service.UserService

	authLimiter *middleware.RateLimiter
	pickLimiter *middleware.RateLimiter
}

func newApplication(cfg *config.Config, db *sqlx.DB, sessionManager *scs.SessionManager, hub *live.Hub, m *metrics.Metrics) *application {
	tournamentStore := store.NewTournamentStore(db)
	matchupStore := store.NewMatchupStore(db)
	predictionStore := store.NewPredictionStore(db)
	userStore := store.NewUserStore(db)

	return &application{
		cfg:            cfg,
		db:             db,
		sessionManager: sessionManager,
		hub:            hub,
		metrics:        m,

		userStore:    userStore,
		tournaments:  service.NewTournamentService(tournamentStore, matchupStore, hub),
		brackets:     service.NewBracketService(tournamentStore, matchupStore, predictionStore),
		picks:        service.NewPickService(tournamentStore, matchupStore, predictionStore, m),
		matches:      service.NewMatchService(matchupStore, hub, m),
		leaderboards: service.NewLeaderboardService(tournamentStore, matchupStore, predictionStore, userStore, m),
		users:        service.NewUserService(userStore, cfg.AdminEmails),

		authLimiter: middleware.NewRateLimiter(10*time.Second, 10, "Too many authentication attempts. Please wait and try again."),
		pickLimiter: middleware.NewRateLimiter(time.Second, 20, "Too many requests. Please slow down."),
	}
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Long lived, so it stays clear of the timeout and session middleware
	r.Get("/ws", app.hub.ServeWs)
	r.Get("/healthz", app.healthz)
	r.Handle("/metrics", app.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(30 * time.Second))
		r.Use(cors.Handler(corsOptions(app.cfg.CORSOrigins)))
		r.Use(app.sessionManager.LoadAndSave)
		r.Use(middleware.LoadAuthenticatedUser(app.sessionManager, app.userStore))

		r.Route("/auth", func(r chi.Router) {
			r.Get("/providers", app.listProviders)
			r.With(app.authLimiter.Middleware).Get("/{provider}", app.beginAuth)
			r.With(app.authLimiter.Middleware).Get("/{provider}/callback", app.completeAuth)
			r.Post("/logout", app.logout)
		})

		// Public read-only share links
		r.Get("/brackets/{slug}", app.sharedBracket)
		r.Get("/brackets/{slug}/qr.png", app.sharedBracketQR)

		r.Route("/api", func(r chi.Router) {
			r.Get("/tournaments", app.listTournaments)
			r.Get("/tournaments/active", app.activeTournament)

			r.Route("/tournaments/{id}", func(r chi.Router) {
				r.Get("/", app.getTournament)
				r.Get("/teams", app.listTeams)
				r.Get("/bracket", app.officialBracket)
				r.Get("/lock", app.lockStatus)
				r.Get("/leaderboard", app.leaderboard)
				r.Get("/brackets/{userID}", app.userBracket)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuth)
					r.Get("/picks", app.myPicks)
					r.With(app.pickLimiter.Middleware).Post("/picks", app.submitPicks)
					r.Get("/my-bracket", app.myBracket)
					r.Get("/share", app.myShareLink)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", app.getMe)
				r.Patch("/me", app.updateMe)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(middleware.RoleAuthorizer{}))

				r.Post("/tournaments", app.createTournament)
				r.Post("/tournaments/{id}/activate", app.activateTournament)
				r.Put("/tournaments/{id}/lock", app.setLock)
				r.Post("/tournaments/{id}/teams", app.addTeams)
				r.Delete("/tournaments/{id}/teams", app.wipeTeams)
				r.Post("/tournaments/{id}/generate", app.generateBracket)
				r.Delete("/tournaments/{id}/picks", app.resetPicks)

				r.Put("/matchups/{id}/outcome", app.setOutcome)
				r.Delete("/matchups/{id}/outcome", app.clearOutcome)
				r.Patch("/matchups/{id}", app.patchMatchup)

				r.Get("/users", app.listUsers)
				r.Put("/users/{id}/role", app.setRole)
			})
		})
	})

	return r
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}
