package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Principals    principalResolver
	APIKeyAuth    apiKeyAuthenticator
	ModuleChecker moduleChecker

	Auth          authService
	Users         userService
	Organizations organizationService
	Modules       moduleService
	Invoices      invoiceService
	InvoicePDF    invoicePDFService
	Templates     templateService
	Projects      projectAccessor
	Resources     resourceService
	APIKeys       apiKeyService
	PaymentConfig paymentConfigService

	JWTSecret string
}

// Router registra las rutas de la API. Las reglas finas (dueño, organización, super-admin)
// las decide cada caso de uso; aquí solo se filtra por rol y módulo.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Auth)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (Bearer Token o X-API-Key)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret, deps.Principals, deps.APIKeyAuth))
	managers := RequireRole(access.RoleAdmin, access.RolePM)
	admins := RequireRole(access.RoleAdmin)

	userHandler := NewUserHandler(deps.Users)
	protected.Get("/users/me", userHandler.Me)
	protected.Get("/users", managers, userHandler.List)

	// Organizations
	orgHandler := NewOrganizationHandler(deps.Organizations, deps.Modules)
	orgs := protected.Group("/organizations")
	orgs.Post("/", RequireSuperAdmin(), orgHandler.Create)
	orgs.Get("/", RequireSuperAdmin(), orgHandler.List)
	orgs.Get("/:id", orgHandler.GetByID)
	orgs.Patch("/:id", admins, orgHandler.Update)
	orgs.Delete("/:id", RequireSuperAdmin(), orgHandler.Delete)
	orgs.Get("/:id/modules", orgHandler.ListModules)
	orgs.Put("/:id/modules/:module", RequireSuperAdmin(), orgHandler.SetModule)
	orgs.Post("/:id/users", admins, userHandler.Assign)

	// Invoices (módulo invoicing)
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.InvoicePDF)
	invoices := protected.Group("/invoices", RequireModule(entity.ModuleInvoicing, deps.ModuleChecker))
	invoices.Post("/", managers, invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id", managers, invoiceHandler.Update)
	invoices.Post("/:id/send", managers, invoiceHandler.Send)
	invoices.Post("/:id/cancel", managers, invoiceHandler.Cancel)
	invoices.Post("/:id/payments", managers, invoiceHandler.RecordPayment)
	invoices.Post("/:id/recurring", managers, invoiceHandler.GenerateRecurring)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Templates (módulo workspace)
	templateHandler := NewTemplateHandler(deps.Templates)
	templates := protected.Group("/templates", RequireModule(entity.ModuleWorkspace, deps.ModuleChecker))
	templates.Post("/", templateHandler.Create)
	templates.Get("/", templateHandler.List)
	templates.Get("/:id", templateHandler.GetByID)
	templates.Delete("/:id", managers, templateHandler.Delete)
	templates.Post("/:id/duplicate", templateHandler.Duplicate)

	projectHandler := NewProjectHandler(deps.Projects)
	protected.Get("/projects/:id", RequireModule(entity.ModuleWorkspace, deps.ModuleChecker), projectHandler.GetByID)

	// Resources (módulo ops) y comisiones (módulo affiliate)
	resourceHandler := NewResourceHandler(deps.Resources)
	protected.Get("/resources/combined", RequireModule(entity.ModuleOps, deps.ModuleChecker), managers, resourceHandler.Combined)
	protected.Patch("/commissions/:id", RequireModule(entity.ModuleAffiliate, deps.ModuleChecker), admins, resourceHandler.UpdateCommissionStatus)

	// Integraciones (solo admin)
	integrationHandler := NewIntegrationHandler(deps.APIKeys, deps.PaymentConfig)
	keys := protected.Group("/api-keys", admins)
	keys.Post("/", integrationHandler.IssueKey)
	keys.Get("/", integrationHandler.ListKeys)
	keys.Delete("/:id", integrationHandler.RevokeKey)
	protected.Get("/payment-config", admins, integrationHandler.GetPaymentConfig)
	protected.Put("/payment-config", admins, integrationHandler.SavePaymentConfig)
}
