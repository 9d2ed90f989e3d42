package server

import (
	"github.com/gin-contrib/cors"
	"go.uber.org/fx"

	"github.com/facturio/facturio/internal/server/api"
	"github.com/facturio/facturio/internal/server/biz"
	"github.com/facturio/facturio/internal/server/middleware"
)

type Handlers struct {
	fx.In

	Auth         *api.AuthHandlers
	Organization *api.OrganizationHandlers
	Client       *api.ClientHandlers
	Invoice      *api.InvoiceHandlers
	System       *api.SystemHandlers
}

type Services struct {
	fx.In

	AuthService       *biz.AuthService
	MembershipService *biz.MembershipService
}

func SetupRoutes(server *Server, handlers Handlers, services Services) {
	server.Use(middleware.AccessLog())
	server.Use(middleware.WithRequestID())

	// Setup CORS middleware at server level if enabled
	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.AllowedOrigins
		corsConfig.AllowMethods = server.Config.CORS.AllowedMethods
		corsConfig.AllowHeaders = server.Config.CORS.AllowedHeaders
		corsConfig.ExposeHeaders = server.Config.CORS.ExposedHeaders
		corsConfig.AllowCredentials = server.Config.CORS.AllowCredentials
		corsConfig.MaxAge = server.Config.CORS.MaxAge

		corsHandler := cors.New(corsConfig)
		server.Use(corsHandler)
		server.OPTIONS("*any", corsHandler)
	}

	publicGroup := server.Group("", middleware.WithTimeout(server.Config.RequestTimeout))
	{
		// Health check endpoint - no authentication required
		publicGroup.GET("/health", handlers.System.Health)
		publicGroup.GET("/version", handlers.System.Version)
	}

	unSecureGroup := server.Group("/api", middleware.WithTimeout(server.Config.RequestTimeout))
	{
		// User registration and login - DO NOT AUTH
		unSecureGroup.POST("/auth/signup", handlers.Auth.SignUp)
		unSecureGroup.POST("/auth/signin", handlers.Auth.SignIn)
	}

	// Account routes carry authentication but no tenant: organization
	// creation and the user's own organization listing.
	accountGroup := server.Group("/api",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithJWTAuth(services.AuthService),
	)
	{
		accountGroup.POST("/organizations", handlers.Organization.Create)
		accountGroup.GET("/organizations", handlers.Organization.ListMine)
	}

	// Tenant routes resolve the organization and attach the carrier
	// before any handler runs.
	tenantGroup := server.Group("/api",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithJWTAuth(services.AuthService),
		middleware.WithOrganization(services.MembershipService, server.Config.Tenancy),
	)
	{
		tenantGroup.GET("/organizations/current", handlers.Organization.GetCurrent)
		tenantGroup.PATCH("/organizations/:id", handlers.Organization.Update)
		tenantGroup.DELETE("/organizations/:id", handlers.Organization.Delete)

		tenantGroup.POST("/clients", handlers.Client.Create)
		tenantGroup.GET("/clients", handlers.Client.List)
		tenantGroup.GET("/clients/:id", handlers.Client.Get)
		tenantGroup.DELETE("/clients/:id", handlers.Client.Delete)

		tenantGroup.POST("/invoices", handlers.Invoice.Create)
		tenantGroup.GET("/invoices", handlers.Invoice.List)
		tenantGroup.GET("/invoices/:id", handlers.Invoice.Get)
		tenantGroup.POST("/invoices/export", handlers.Invoice.Export)
	}
}
