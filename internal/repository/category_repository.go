package repository

import (
	"context"

	"github.com/yukikurage/family-ledger-api/internal/database"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"gorm.io/gorm"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create creates a new category
func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// FindByID finds a category by ID regardless of status
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uint64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update saves all category columns
func (r *GormCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// ExistsActive reports whether an active category with the same family, name and type exists
func (r *GormCategoryRepository) ExistsActive(ctx context.Context, familyID uint64, name string, recordType models.RecordType, excludeID uint64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{}).
		Scopes(database.Active("")).
		Where("family_id = ? AND name = ? AND type = ?", familyID, name, recordType)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActive lists active categories of a family ordered by name
func (r *GormCategoryRepository) ListActive(ctx context.Context, familyID uint64, recordType *models.RecordType) ([]models.Category, error) {
	query := r.db.WithContext(ctx).
		Scopes(database.Active("")).
		Where("family_id = ?", familyID)
	if recordType != nil {
		query = query.Where("type = ?", *recordType)
	}

	var categories []models.Category
	if err := query.Order("name").Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListAll lists every category ordered by ID
func (r *GormCategoryRepository) ListAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
