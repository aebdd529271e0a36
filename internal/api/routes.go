package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lenslink-backend-go/internal/config"
	"lenslink-backend-go/internal/core"
	"lenslink-backend-go/internal/db"
	"lenslink-backend-go/internal/middleware"
	"lenslink-backend-go/internal/models"
)

// SetupRoutes configures all application routes. Global middleware (logging,
// recovery, CORS) is applied to the router in main before this is called.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	userService core.UserService,
	eventService core.EventService,
	contactService core.ContactService,
	folderService core.FolderService,
) {
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		// The application cannot secure routes without the auth client.
		logger.Fatal("Firebase Auth client is not initialized; routes will not be set up")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, userService, logger)

	userHandler := NewUserHandler(userService, logger)
	eventHandler := NewEventHandler(eventService, logger)
	paymentHandler := NewPaymentHandler(eventService, appConfig, logger)
	contactHandler := NewContactHandler(contactService, logger)
	folderHandler := NewFolderHandler(folderService, logger)
	adminHandler := NewAdminHandler(userService, eventService, contactService, logger)

	apiV1 := router.Group("/api/v1")
	{
		// Profile endpoints. Initialize has no role guard: it's the call
		// that creates the profile the guard would look up.
		usersGroup := apiV1.Group("/users")
		{
			usersGroup.POST("/initialize", authMW.VerifyToken(), userHandler.InitializeProfile)
			usersGroup.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentUserProfile)
		}

		// Public contact form.
		apiV1.POST("/contact", contactHandler.CreateMessage)

		// Payment gateway redirect. No auth middleware here: the gateway
		// redirects the payer's browser without our tokens.
		apiV1.GET("/payments/callback", paymentHandler.HandleCallback)
		apiV1.POST("/payments/callback", paymentHandler.HandleCallback)

		// Event endpoints.
		eventsGroup := apiV1.Group("/events", authMW.VerifyToken())
		{
			eventsGroup.POST("", authMW.RequireRoles(models.RoleClient), eventHandler.CreateEvent)
			eventsGroup.GET("/mine", authMW.RequireRoles(models.RoleClient), eventHandler.ListMyEvents)
			eventsGroup.GET("/:eventId", authMW.RequireRoles(models.RoleClient, models.RolePhotographer, models.RoleAdmin), eventHandler.GetEvent)
			eventsGroup.POST("/:eventId/accept", authMW.RequireRoles(models.RolePhotographer), eventHandler.AcceptEvent)
			eventsGroup.POST("/:eventId/uploaded", authMW.RequireRoles(models.RolePhotographer), eventHandler.MarkUploaded)
		}

		// Marketplace: open jobs photographers can accept.
		apiV1.GET("/marketplace", authMW.VerifyToken(), authMW.RequireRoles(models.RolePhotographer), eventHandler.ListMarketplace)

		// Deliverables folders. Any role: photographers upload, hosts read shared folders.
		foldersGroup := apiV1.Group("/folders", authMW.VerifyToken(), authMW.RequireRoles(models.RoleClient, models.RolePhotographer, models.RoleAdmin))
		{
			foldersGroup.POST("", folderHandler.CreateFolder)
			foldersGroup.GET("", folderHandler.ListFolders)
			foldersGroup.GET("/:folderId", folderHandler.GetFolder)
			foldersGroup.PUT("/:folderId", folderHandler.RenameFolder)
			foldersGroup.DELETE("/:folderId", folderHandler.DeleteFolder)
			foldersGroup.POST("/:folderId/files", folderHandler.AddFile)
			foldersGroup.POST("/:folderId/share", folderHandler.ShareFolder)
		}

		// Admin dashboard listings.
		adminGroup := apiV1.Group("/admin", authMW.VerifyToken(), authMW.RequireRoles(models.RoleAdmin))
		{
			adminGroup.GET("/events", adminHandler.ListEvents)
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.GET("/contacts", adminHandler.ListContactMessages)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Lenslink backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
