package main

import (
	"net/http"

	"ms-eventhub/internal/auth"
	auth_api "ms-eventhub/internal/auth/api"
	banner_api "ms-eventhub/internal/banner/api"
	category_api "ms-eventhub/internal/category/api"
	events_api "ms-eventhub/internal/events/api"
	media_api "ms-eventhub/internal/media/api"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/order/order_api"
	"ms-eventhub/internal/tickets/ticket_api"

	"github.com/go-chi/chi/v5"
)

type handlerSet struct {
	auth     *auth_api.Handler
	orders   *order_api.Handler
	events   *events_api.Handler
	category *category_api.Handler
	banners  *banner_api.Handler
	tickets  *ticket_api.Handler
	media    *media_api.Handler
}

// newRouter registers every route flat on one tree; nested mounts would
// shadow the public reads that share a prefix with the gated writes.
func newRouter(h handlerSet, tokens *auth.TokenManager, uploadDir string) chi.Router {
	r := chi.NewRouter()

	// --- Public routes ---
	r.Post("/api/auth/register", h.auth.Register)
	r.Post("/api/auth/login", h.auth.Login)
	r.Post("/api/auth/activation", h.auth.Activation)

	r.Get("/api/events", h.events.FindAll)
	r.Get("/api/events/{eventId}", h.events.FindOne)
	r.Get("/api/events/{slug}/slug", h.events.FindOneBySlug)
	r.Get("/api/category", h.category.FindAll)
	r.Get("/api/category/{categoryId}", h.category.FindOne)
	r.Get("/api/banners", h.banners.FindAll)
	r.Get("/api/banners/{bannerId}", h.banners.FindOne)
	r.Get("/api/tickets", h.tickets.FindAll)
	r.Get("/api/tickets/{ticketId}", h.tickets.FindOne)
	r.Get("/api/tickets/{eventId}/events", h.tickets.FindByEvent)

	// Payment provider callback carries no user token.
	r.Post("/api/orders/notification", h.orders.Notification)

	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	// --- Authenticated routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))

		r.Get("/api/auth/me", h.auth.Me)

		r.Post("/api/orders", h.orders.Create)
		r.Get("/api/orders/mine", h.orders.FindMine)
		r.Put("/api/orders/{orderId}/complete", h.orders.Complete)

		// Media is open to any signed-in role.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleAdmin, models.RoleMember))

			r.Post("/api/media/upload-single", h.media.UploadSingle)
			r.Post("/api/media/upload-multiple", h.media.UploadMultiple)
			r.Delete("/api/media/remove", h.media.Remove)
		})

		// Admin scope: full order visibility plus lifecycle overrides and
		// catalog writes. Catalog reads stay public above.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleAdmin))

			r.Get("/api/orders", h.orders.FindAll)
			r.Get("/api/orders/{orderId}", h.orders.FindOne)
			r.Put("/api/orders/{orderId}/pending", h.orders.SetPending)
			r.Put("/api/orders/{orderId}/cancelled", h.orders.Cancel)
			r.Delete("/api/orders/{orderId}", h.orders.Remove)

			r.Post("/api/events", h.events.Create)
			r.Put("/api/events/{eventId}", h.events.Update)
			r.Delete("/api/events/{eventId}", h.events.Remove)

			r.Post("/api/category", h.category.Create)
			r.Put("/api/category/{categoryId}", h.category.Update)
			r.Delete("/api/category/{categoryId}", h.category.Remove)

			r.Post("/api/banners", h.banners.Create)
			r.Put("/api/banners/{bannerId}", h.banners.Update)
			r.Delete("/api/banners/{bannerId}", h.banners.Remove)

			r.Post("/api/tickets", h.tickets.Create)
			r.Put("/api/tickets/{ticketId}", h.tickets.Update)
			r.Delete("/api/tickets/{ticketId}", h.tickets.Remove)
		})
	})

	return r
}
