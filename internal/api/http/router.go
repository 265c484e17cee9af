package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/api/http/handlers"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/auth"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Appraisals     *handlers.AppraisalsHandler
	HOD            *handlers.HODHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	protectedAuth.Post("/password/change", cfg.Users.ChangePassword)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	faculty := api.Group("/appraisals", auth.RequireRole(domain.RoleFaculty))
	faculty.Post("", cfg.Appraisals.Submit)
	faculty.Get("", cfg.Appraisals.List)
	faculty.Get("/:id", cfg.Appraisals.Get)
	faculty.Put("/:id", cfg.Appraisals.Edit)
	faculty.Get("/:id/history", cfg.Appraisals.History)

	hod := api.Group("/hod/appraisals", auth.RequireRole(domain.RoleHOD))
	hod.Get("", cfg.HOD.ListPending)
	hod.Get("/:id", cfg.HOD.Get)
	hod.Post("/:id/review", cfg.HOD.Decide)

	admin := api.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/appraisals", cfg.Admin.List)
	admin.Get("/appraisals/:id", cfg.Admin.Get)
	admin.Post("/appraisals/:id/review", cfg.Admin.Decide)
	admin.Get("/dashboard", cfg.Admin.Dashboard)
}
