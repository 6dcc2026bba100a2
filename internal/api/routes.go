package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/harikishants/MarketingMailPro/internal/tracking"
)

// SetupRoutes configures the full HTTP surface. The tracking endpoints and
// health check stay public; everything under /api requires an API key.
func SetupRoutes(h *Handlers, users UserSource, track *tracking.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	// Public engagement surface: pixel, click redirect, unsubscribe.
	track.Register(r)

	r.Route("/api", func(r chi.Router) {
		r.Use(APIKeyAuth(users))

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", h.HandleListCampaigns)
			r.Post("/", h.HandleCreateCampaign)
			r.Get("/{id}", h.HandleGetCampaign)
			r.Put("/{id}", h.HandleUpdateCampaign)
			r.Delete("/{id}", h.HandleDeleteCampaign)
			r.Post("/{id}/send", h.HandleSendCampaign)
			r.Get("/{id}/stats", h.HandleCampaignStats)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.HandleListContacts)
			r.Post("/", h.HandleCreateContact)
			r.Get("/{id}", h.HandleGetContact)
			r.Put("/{id}", h.HandleUpdateContact)
			r.Delete("/{id}", h.HandleDeleteContact)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", h.HandleListLists)
			r.Post("/", h.HandleCreateList)
			r.Get("/{id}", h.HandleGetList)
			r.Put("/{id}", h.HandleUpdateList)
			r.Delete("/{id}", h.HandleDeleteList)
			r.Get("/{id}/contacts", h.HandleListMembers)
			r.Post("/{id}/contacts", h.HandleAddMember)
			r.Delete("/{id}/contacts/{contactID}", h.HandleRemoveMember)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.HandleListTemplates)
			r.Post("/", h.HandleCreateTemplate)
			r.Get("/{id}", h.HandleGetTemplate)
			r.Put("/{id}", h.HandleUpdateTemplate)
			r.Delete("/{id}", h.HandleDeleteTemplate)
			r.Post("/{id}/preview", h.HandlePreviewTemplate)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.HandleGetSettings)
			r.Put("/", h.HandleSaveSettings)
			r.Post("/test", h.HandleTestSettings)
		})

		r.Get("/dashboard", h.HandleDashboard)
	})

	return r
}
