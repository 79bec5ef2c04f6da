package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/wrestling-league/handlers"
	"github.com/Dosada05/wrestling-league/middleware"
	"github.com/Dosada05/wrestling-league/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret         []byte
	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	bandHandler *handlers.BandHandler,
	championshipHandler *handlers.ChampionshipHandler,
	matchHandler *handlers.MatchHandler,
	tournamentHandler *handlers.TournamentHandler,
	auctionHandler *handlers.AuctionHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// websocket и swagger не ограничиваем
	router.Get("/ws/league", webSocketHandler.ServeLeague)
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeTournament)
	router.Get("/ws/matches/{matchID}", webSocketHandler.ServeMatch)
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitRequests, opts.RateLimitWindow))

		guard := adminOnlyMiddleware(opts.JWTSecret)
		adminOnly := func(r chi.Router) { r.Use(guard...) }

		r.Post("/auth/login", authHandler.Login)

		r.Route("/players", func(r chi.Router) {
			r.Get("/", playerHandler.ListPlayers)
			r.Get("/{playerID}", playerHandler.GetPlayer)

			r.Group(func(r chi.Router) {
				adminOnly(r)
				r.Post("/", playerHandler.CreatePlayer)
				r.Patch("/{playerID}", playerHandler.UpdatePlayer)
				r.Delete("/{playerID}", playerHandler.DeletePlayer)
				r.Post("/{playerID}/image", playerHandler.UploadImage)
				r.Post("/{playerID}/auction", playerHandler.AuctionPlayer)
			})
		})

		r.Route("/bands", func(r chi.Router) {
			r.Get("/", bandHandler.ListBands)
			r.Get("/{bandID}", bandHandler.GetBand)

			r.Group(func(r chi.Router) {
				adminOnly(r)
				r.Post("/", bandHandler.CreateBand)
				r.Patch("/{bandID}", bandHandler.UpdateBand)
				r.Delete("/{bandID}", bandHandler.DeleteBand)
				r.Post("/{bandID}/image", bandHandler.UploadImage)
			})
		})

		r.Route("/championships", func(r chi.Router) {
			r.Get("/", championshipHandler.ListChampionships)
			r.Get("/{championshipID}", championshipHandler.GetChampionship)
			r.Get("/{championshipID}/history", championshipHandler.GetHistory)

			r.Group(func(r chi.Router) {
				adminOnly(r)
				r.Post("/", championshipHandler.CreateChampionship)
				r.Patch("/{championshipID}", championshipHandler.UpdateChampionship)
				r.Post("/{championshipID}/image", championshipHandler.UploadImage)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matchHandler.ListHandler)
			r.Get("/{matchID}", matchHandler.GetByIDHandler)
			r.Get("/{matchID}/notifications", matchHandler.ListNotificationsHandler)

			r.Group(func(r chi.Router) {
				adminOnly(r)
				r.Post("/", matchHandler.CreateHandler)
				r.Delete("/{matchID}", matchHandler.DeleteHandler)
				r.Post("/{matchID}/resolve", matchHandler.ResolveHandler)
				r.Post("/{matchID}/notifications", matchHandler.PostNotificationHandler)
				r.Post("/setup", tournamentHandler.CreateMatchSetupHandler)
			})
		})

		r.With(guard...).Post("/league", tournamentHandler.CreateLeagueHandler)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", tournamentHandler.ListHandler)
			r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
			r.Get("/{tournamentID}/standings", tournamentHandler.StandingsHandler)

			r.Group(func(r chi.Router) {
				adminOnly(r)
				r.Post("/", tournamentHandler.CreateHandler)
				r.Patch("/{tournamentID}", tournamentHandler.UpdateDetailsHandler)
				r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)
				r.Post("/{tournamentID}/league", tournamentHandler.CreateLeagueHandler)
				r.Post("/{tournamentID}/setup", tournamentHandler.CreateMatchSetupHandler)
				r.Post("/{tournamentID}/run", tournamentHandler.RunHandler)
			})
		})

		r.Route("/auctions", func(r chi.Router) {
			r.Get("/", auctionHandler.ListAuctions)
			r.With(guard...).Post("/open-market", auctionHandler.RunOpenMarket)
		})

		r.Get("/leaderboard/players", leaderboardHandler.TopPlayers)
		r.Get("/leaderboard/bands", leaderboardHandler.TopBands)
	})
}

func adminOnlyMiddleware(secret []byte) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.Authenticate(secret),
		middleware.Authorize(models.RoleAdmin),
	}
}
