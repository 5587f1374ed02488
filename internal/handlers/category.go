package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/family-ledger-api/internal/dto"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/services"
)

// CategoryHandler serves the categories of the caller's family.
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategory adds a category to the caller's family.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateCategoryRequest struct {
		Name  string            `json:"name" binding:"required"`
		Type  models.RecordType `json:"type" binding:"required"`
		Icon  string            `json:"icon"`
		Color string            `json:"color"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), user, services.CreateCategoryInput{
		Name:  req.Name,
		Type:  req.Type,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, dto.ToCategoryDTO(*category), "Category created")
}

// ListCategories lists active categories grouped by record type.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	groups, err := h.categoryService.ListCategories(c.Request.Context(), user, optionalRecordType(c.Query("record_type")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.CategoryListResponse{
		Income:  dto.ToCategoryDTOs(groups.Income),
		Expense: dto.ToCategoryDTOs(groups.Expense),
		All:     dto.ToCategoryDTOs(groups.All),
	}, "")
}

// UpdateCategory changes a category's name, icon or color.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateCategoryRequest struct {
		Name  *string `json:"name"`
		Icon  *string `json:"icon"`
		Color *string `json:"color"`
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), user, id, services.UpdateCategoryInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToCategoryDTO(*category), "Category updated")
}

// DeleteCategory soft deletes a category.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "Category deleted")
}

// InitDefaultCategories installs the default catalog.
func (h *CategoryHandler) InitDefaultCategories(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	created, err := h.categoryService.InitDefaultCategories(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"created": created}, "Default categories initialized")
}
