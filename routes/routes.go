package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/playday/tournament-organizer/docs" // регистрирует swagger-спеку
	"github.com/playday/tournament-organizer/handlers"
	"github.com/playday/tournament-organizer/middleware"
)

const requestTimeout = 30 * time.Second

// Handlers собирает все HTTP-обработчики приложения.
type Handlers struct {
	Health       *handlers.HealthHandler
	User         *handlers.UserHandler
	Dashboard    *handlers.DashboardHandler
	Tournament   *handlers.TournamentHandler
	Team         *handlers.TeamHandler
	Player       *handlers.PlayerHandler
	Admin        *handlers.AdminHandler
	Announcement *handlers.AnnouncementHandler
	Category     *handlers.CategoryHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: !allowsAnyOrigin(opts.AllowedOrigins),
		MaxAge:           300,
	}))

	router.Get("/healthz", h.Health.Health)
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))
		r.Use(middleware.Authenticate(opts.JWTSecret))

		r.Get("/me", h.User.GetMe)
		r.Get("/users/{userID}", h.User.GetUserByID)
		r.Get("/dashboard", h.Dashboard.Stats)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.ListMine)
			r.Post("/", h.Tournament.Create)
			r.Post("/join", h.Tournament.Join)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", h.Tournament.GetDetails)
				r.Patch("/", h.Tournament.Update)
				r.Post("/logo", h.Tournament.UploadLogo)

				r.Route("/teams", func(r chi.Router) {
					r.Get("/", h.Team.List)
					r.Put("/", h.Team.Generate)
					r.Post("/", h.Team.Create)
					r.Delete("/{teamID}", h.Team.Delete)
					r.Post("/{teamID}/logo", h.Team.UploadLogo)
				})

				r.Route("/players", func(r chi.Router) {
					r.Get("/", h.Player.List)
					r.Post("/", h.Player.AddGuest)
					r.Patch("/{playerID}", h.Player.UpdateCategory)
					r.Delete("/{playerID}", h.Player.Remove)
				})

				r.Route("/admins", func(r chi.Router) {
					r.Get("/", h.Admin.List)
					r.Post("/", h.Admin.Add)
					r.Delete("/{adminID}", h.Admin.Remove)
				})

				r.Route("/announcements", func(r chi.Router) {
					r.Get("/", h.Announcement.List)
					r.Post("/", h.Announcement.Create)
					r.Patch("/{announcementID}", h.Announcement.Update)
					r.Delete("/{announcementID}", h.Announcement.Delete)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", h.Category.List)
					r.Post("/", h.Category.Create)
					r.Get("/rules", h.Category.Rules)
					r.Delete("/{categoryID}", h.Category.Delete)
				})
			})
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"the requested resource could not be found"}` + "\n"))
	})
}

// allowsAnyOrigin: с "*" браузеры не принимают credentials.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
