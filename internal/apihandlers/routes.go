package apihandlers

import (
	"github.com/gin-gonic/gin"

	"scribe/internal/auth"
)

// RegisterRoutes attaches the full API surface to the router.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	router.GET("/health", h.HealthHandler)

	api := router.Group("/api")
	{
		// Public reading surface
		api.GET("/articles", h.ListArticlesHandler)
		api.GET("/articles/:id", h.GetArticleHandler)
		api.GET("/articles/:id/share-links", h.ShareLinksHandler)
		api.POST("/articles/:id/share", h.ShareArticleHandler)
		api.GET("/categories", h.ListCategoriesHandler)
		api.POST("/status", h.CreateStatusHandler)
		api.GET("/status", h.ListStatusHandler)
		api.POST("/chat", h.ChatHandler)

		api.POST("/admin/login", h.LoginHandler)

		// Admin mutations
		admin := api.Group("", auth.RequireToken(h.App.Tokens))
		{
			admin.POST("/articles", h.CreateArticleHandler)
			admin.PUT("/articles/:id", h.UpdateArticleHandler)
			admin.DELETE("/articles/:id", h.DeleteArticleHandler)
			admin.POST("/categories", h.CreateCategoryHandler)
			admin.PUT("/categories/rename", h.RenameCategoryHandler)
			admin.POST("/admin/assistant/chat", h.AssistantChatHandler)
			admin.POST("/upload-image", h.UploadImageHandler)
		}
	}
}
