package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samraify/multicore-crm-new/internal/api/http/handlers"
	"github.com/samraify/multicore-crm-new/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Businesses     *handlers.BusinessesHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Token extraction runs on every request
// and never rejects; the capability gates on the protected groups are where
// unauthenticated or under-privileged calls fail.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	api.Get("/notifications", auth.RequireAuthenticated(), cfg.Notifications.List)

	businesses := api.Group("/businesses", auth.RequireCapability(auth.CapPlatformAll))
	businesses.Post("/", cfg.Businesses.CreateBusiness)
	businesses.Get("/:id", cfg.Businesses.GetBusiness)

	tickets := api.Group("/tickets")

	read := tickets.Group("", auth.RequireCapability(auth.CapTicketsRead))
	read.Get("/", cfg.Tickets.ListTickets)
	read.Get("/analytics", cfg.Tickets.Analytics)
	read.Get("/:id", cfg.Tickets.GetTicket)
	read.Get("/:id/comments", cfg.Tickets.ListComments)
	read.Get("/:id/history", cfg.Tickets.ListHistory)

	write := tickets.Group("", auth.RequireCapability(auth.CapTicketsWrite))
	write.Post("/", cfg.Tickets.CreateTicket)
	write.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	write.Patch("/:id/assign", cfg.Tickets.AssignTicket)
	write.Post("/:id/comments", cfg.Tickets.AddComment)
	write.Post("/:id/escalate", cfg.Tickets.Escalate)
}
