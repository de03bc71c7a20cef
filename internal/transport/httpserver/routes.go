package httpserver

import (
	"net/http"
	"time"

	"kidsweek-go/internal/config"
	"kidsweek-go/internal/transport/httpserver/handler"
	authmw "kidsweek-go/internal/transport/httpserver/middleware"
	"kidsweek-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, members authmw.MemberResolver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/members", handlers.AddMember)
		r.Post("/members/signup", handlers.Signup)
		r.Post("/members/signin", handlers.Signin)
		r.Get("/members/{email}", handlers.GetMemberByEmail)
		r.Get("/invites/{token}", handlers.ResolveInvite)

		auth := authmw.NewTokenAuth(members, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Put("/members/me/push-token", handlers.SetPushToken)
			r.Put("/members/me/tutorial", handlers.DismissTooltip)

			r.Get("/zones", handlers.ListZones)
			r.Post("/zones", handlers.CreateZone)
			r.Put("/zones/{zoneId}", handlers.UpdateZone)
			r.Delete("/zones/{zoneId}", handlers.DeleteZone)
			r.Put("/zones/{zoneId}/add-member", handlers.AddZoneMember)
			r.Put("/zones/{zoneId}/remove-member", handlers.RemoveZoneMember)

			// The notifications routes sit under /activities and must be
			// registered before the {activityId} patterns.
			r.Get("/activities/notifications", handlers.ListNotifications)
			r.Put("/activities/notifications/{notificationId}/read", handlers.MarkNotificationRead)

			r.Get("/activities", handlers.ListActivities)
			r.Post("/activities", handlers.CreateActivity)
			r.Put("/activities/{activityId}", handlers.UpdateActivity)
			r.Delete("/activities/{activityId}", handlers.DeleteActivity)
			r.Put("/activities/{activityId}/validate", handlers.ValidateActivity)

			r.Get("/invites", handlers.ListInvites)
			r.Post("/invites", handlers.CreateInvite)
			r.Post("/invites/send", handlers.SendInvite)
		})
	})

	return r
}
