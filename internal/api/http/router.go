package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-maintenance/internal/api/http/handlers"
	"github.com/spec-kit/fleet-maintenance/internal/auth"
	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Parts          *handlers.PartsHandler
	Warehouse      *handlers.WarehouseHandler
	Inspections    *handlers.InspectionsHandler
	Notifications  *handlers.NotificationsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role middleware mirrors the capability
// table: admins pass every gate, everyone else only their own.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("", auth.RequireRole(domain.RoleOperations), cfg.Tickets.Create)
	tickets.Post("/historical", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.AddHistorical)
	tickets.Post("/:id/technicians", auth.RequireRole(domain.RoleMaintenance), cfg.Tickets.AssignTechnicians)
	tickets.Post("/:id/start", auth.RequireRole(domain.RoleMaintenance), cfg.Tickets.StartWork)
	tickets.Post("/:id/finish", auth.RequireRole(domain.RoleMaintenance), cfg.Tickets.FinishWork)
	tickets.Post("/:id/confirm", auth.RequireRole(domain.RoleOperations), cfg.Tickets.Confirm)
	tickets.Post("/:id/parts", auth.RequireRole(domain.RoleMaintenance), cfg.Tickets.RequestParts)
	tickets.Post("/:id/parts/none", auth.RequireRole(domain.RoleMaintenance), cfg.Tickets.MarkNoPartsRequired)

	spares := api.Group("/spares", auth.RequireRole(domain.RoleSparesAdmin))
	spares.Get("/queue", cfg.Parts.SparesQueue)
	spares.Post("/tickets/:id/approve", cfg.Parts.Approve)
	spares.Post("/tickets/:id/reject", cfg.Parts.Reject)

	warehouse := api.Group("/warehouse", auth.RequireRole(domain.RoleWarehouse))
	warehouse.Get("/queue", cfg.Parts.WarehouseQueue)
	warehouse.Post("/tickets/:id/issue", cfg.Parts.Issue)
	warehouse.Post("/tickets/:id/reject", cfg.Parts.RejectByWarehouse)
	warehouse.Post("/tickets/:id/handover", cfg.Parts.CompleteHandover)
	warehouse.Get("/parts", cfg.Warehouse.ListParts)
	warehouse.Post("/parts", cfg.Warehouse.CreatePart)
	warehouse.Post("/parts/import", cfg.Warehouse.ImportParts)
	warehouse.Put("/parts/:sapCode", cfg.Warehouse.UpdatePart)
	warehouse.Get("/replenishment", cfg.Warehouse.Replenishment)

	api.Post("/inspections", auth.RequireRole(domain.RoleInspection), cfg.Inspections.Create)
	api.Get("/vehicles/:vehicleId/inspections", cfg.Inspections.ListByVehicle)

	api.Get("/notifications", cfg.Notifications.List)
	api.Get("/notifications/unread", cfg.Notifications.UnreadCount)
	api.Post("/notifications/:id/read", cfg.Notifications.MarkRead)

	api.Get("/reports/dashboard", cfg.Reports.Dashboard)
	api.Get("/reports/history", cfg.Reports.History)
}
