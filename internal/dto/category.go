package dto

import (
	"time"

	"github.com/yukikurage/family-ledger-api/internal/models"
)

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID        uint64            `json:"id"`
	FamilyID  uint64            `json:"family_id"`
	Name      string            `json:"name"`
	Type      models.RecordType `json:"type"`
	Icon      string            `json:"icon"`
	Color     string            `json:"color"`
	IsActive  bool              `json:"is_active"`
	CreatedBy uint64            `json:"created_by"`
	CreatedAt time.Time         `json:"created_at"`
}

// CategoryListResponse groups categories by record type
type CategoryListResponse struct {
	Income  []CategoryDTO `json:"income"`
	Expense []CategoryDTO `json:"expense"`
	All     []CategoryDTO `json:"all"`
}

// ToCategoryDTO converts a Category model to CategoryDTO
func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        category.ID,
		FamilyID:  category.FamilyID,
		Name:      category.Name,
		Type:      category.Type,
		Icon:      category.Icon,
		Color:     category.Color,
		IsActive:  category.IsActive(),
		CreatedBy: category.CreatedBy,
		CreatedAt: category.CreatedAt,
	}
}

// ToCategoryDTOs converts categories to DTOs
func ToCategoryDTOs(categories []models.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, ToCategoryDTO(category))
	}
	return dtos
}
