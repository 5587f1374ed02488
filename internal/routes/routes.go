// Package routes defines HTTP routes for the family ledger API.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/family-ledger-api/internal/handlers"
	"github.com/yukikurage/family-ledger-api/internal/metrics"
	"github.com/yukikurage/family-ledger-api/internal/middleware"
	"github.com/yukikurage/family-ledger-api/internal/services"
)

// Handlers bundles every HTTP handler.
type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Record   *handlers.RecordHandler
	Category *handlers.CategoryHandler
	Family   *handlers.FamilyHandler
	Admin    *handlers.AdminHandler
	Health   *handlers.HealthHandler
}

// Services holds the services route middleware depends on.
type Services struct {
	Auth   *services.AuthService
	Record *services.RecordService
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, svc Services, m *metrics.Metrics) {
	// Health check
	router.GET("/health", h.Health.Health)
	// Metrics
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	requireAuth := middleware.RequireAuth(svc.Auth)
	requireSystemAdmin := middleware.RequireSystemAdmin()

	api := router.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", requireAuth, h.Auth.Me)
			auth.POST("/change-password", requireAuth, h.Auth.ChangePassword)
			auth.POST("/reset-password", requireAuth, requireSystemAdmin, h.Auth.ResetPassword)
		}

		// User routes (protected)
		user := api.Group("/user")
		user.Use(requireAuth)
		{
			user.GET("/profile", h.User.GetProfile)
			user.PUT("/profile", h.User.UpdateProfile)
			user.GET("/by-phone/:phone", h.User.GetByPhone)
			user.GET("/family-members", h.User.FamilyMembers)
		}

		// Record routes (protected)
		account := api.Group("/account")
		account.Use(requireAuth)
		{
			requireRecordAccess := middleware.RequireRecordAccess(svc.Record)

			account.POST("", h.Record.CreateRecord)
			account.POST("/", h.Record.CreateRecord)
			account.GET("", h.Record.ListRecords)
			account.GET("/", h.Record.ListRecords)
			account.GET("/:id", requireRecordAccess, h.Record.GetRecord)
			account.PUT("/:id", requireRecordAccess, h.Record.UpdateRecord)
			account.DELETE("/:id", requireRecordAccess, h.Record.DeleteRecord)
		}

		// Category routes (protected)
		category := api.Group("/category")
		category.Use(requireAuth)
		{
			category.POST("/create", h.Category.CreateCategory)
			category.GET("/list", h.Category.ListCategories)
			category.PUT("/update/:id", h.Category.UpdateCategory)
			category.DELETE("/delete/:id", h.Category.DeleteCategory)
			category.POST("/init-default", h.Category.InitDefaultCategories)
		}

		// Family routes (protected)
		family := api.Group("/family")
		family.Use(requireAuth)
		{
			family.POST("/create", h.Family.CreateFamily)
			family.POST("/create-family", h.Family.QuickCreateFamily)
			family.GET("/my-family", h.Family.MyFamily)
			family.GET("/statistics", h.Family.Statistics)
			family.PUT("/update/:family_id", h.Family.UpdateFamily)
			family.POST("/add-member", h.Family.AddMember)
			family.DELETE("/remove-member/:member_id", h.Family.RemoveMember)
			family.DELETE("/cleanup-members", h.Family.CleanupMembers)
			family.GET("/:id", h.Family.GetFamily)
		}

		// Admin routes (system admin only)
		admin := api.Group("/admin")
		admin.Use(requireAuth, requireSystemAdmin)
		{
			admin.GET("/system-stats", h.Admin.SystemStats)
			admin.GET("/family-admins", h.Admin.FamilyAdmins)
			admin.POST("/add-admin", h.Admin.AddAdmin)
			admin.DELETE("/remove-admin/:admin_id", h.Admin.RemoveAdmin)
			admin.GET("/all-families", h.Admin.AllFamilies)
			admin.POST("/reset-user-password", h.Auth.ResetPassword)
			admin.PUT("/users/:id/status", h.Admin.SetUserStatus)
			admin.GET("/export-data", h.Admin.ExportData)
		}
	}
}
