package apihandlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scribe/internal/models"
	"scribe/internal/services"
)

type createArticleRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Author    string `json:"author"`
	ImageURL  string `json:"image_url"`
	ImageData string `json:"image_data"`
	Published *bool  `json:"published"`
}

// CreateArticleHandler handles POST /api/articles (admin).
func (h *APIHandler) CreateArticleHandler(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	article, err := h.App.ArticleService.Create(c.Request.Context(), services.CreateArticleParams{
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		Author:    req.Author,
		ImageURL:  req.ImageURL,
		ImageData: req.ImageData,
		Published: req.Published,
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// ListArticlesHandler handles GET /api/articles with optional category,
// published and limit query filters.
func (h *APIHandler) ListArticlesHandler(c *gin.Context) {
	filter := models.ArticleFilter{Category: c.Query("category")}

	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			BadRequest(c, fmt.Sprintf("invalid published value %q", raw))
			return
		}
		filter.Published = &published
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			BadRequest(c, fmt.Sprintf("invalid limit value %q", raw))
			return
		}
		filter.Limit = limit
	}

	articles, err := h.App.ArticleService.List(c.Request.Context(), filter)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetArticleHandler handles GET /api/articles/:id. Each successful fetch
// counts a view.
func (h *APIHandler) GetArticleHandler(c *gin.Context) {
	article, err := h.App.ArticleService.Read(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// UpdateArticleHandler handles PUT /api/articles/:id (admin).
func (h *APIHandler) UpdateArticleHandler(c *gin.Context) {
	var upd models.ArticleUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	article, err := h.App.ArticleService.Update(c.Request.Context(), c.Param("id"), &upd)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// DeleteArticleHandler handles DELETE /api/articles/:id (admin).
func (h *APIHandler) DeleteArticleHandler(c *gin.Context) {
	if err := h.App.ArticleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Article deleted"})
}

// ShareArticleHandler handles POST /api/articles/:id/share.
func (h *APIHandler) ShareArticleHandler(c *gin.Context) {
	shares, err := h.App.ArticleService.RecordShare(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Share tracked", "shares": shares})
}

// ShareLinksHandler handles GET /api/articles/:id/share-links. An optional
// base_url query overrides the request origin.
func (h *APIHandler) ShareLinksHandler(c *gin.Context) {
	baseURL := c.Query("base_url")
	if baseURL == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		baseURL = scheme + "://" + c.Request.Host
	}

	links, err := h.App.ArticleService.ShareLinks(c.Request.Context(), c.Param("id"), baseURL)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}
