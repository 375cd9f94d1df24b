package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type renameCategoryRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// CreateCategoryHandler handles POST /api/categories (admin).
func (h *APIHandler) CreateCategoryHandler(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.App.CategoryService.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// ListCategoriesHandler handles GET /api/categories.
func (h *APIHandler) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.App.CategoryService.List(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// RenameCategoryHandler handles PUT /api/categories/rename (admin).
func (h *APIHandler) RenameCategoryHandler(c *gin.Context) {
	var req renameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	category, updated, err := h.App.CategoryService.Rename(c.Request.Context(), req.OldName, req.NewName)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category":         category,
		"articles_updated": updated,
	})
}
