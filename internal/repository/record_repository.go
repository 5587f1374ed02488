package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/database"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRecordRepository is a GORM implementation of RecordRepository
type GormRecordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &GormRecordRepository{db: db}
}

// Create creates a new record
func (r *GormRecordRepository) Create(ctx context.Context, record *models.AccountRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

// FindByID finds a record by ID with its author
func (r *GormRecordRepository) FindByID(ctx context.Context, id uint64) (*models.AccountRecord, error) {
	var record models.AccountRecord
	if err := r.db.WithContext(ctx).Preload("User").First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// List retrieves records with filtering and pagination, newest first
func (r *GormRecordRepository) List(ctx context.Context, filter RecordFilter) ([]models.AccountRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AccountRecord{}).
		Where("family_id = ?", filter.FamilyID)

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}
	if filter.StartDate != nil {
		query = query.Where("record_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("record_date <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params := utils.NewPaginationParams(filter.Page, filter.PageSize)

	var records []models.AccountRecord
	if err := query.
		Preload("User").
		Order("record_date DESC").
		Order("id DESC").
		Scopes(database.Paginate(params)).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// Update saves all record columns
func (r *GormRecordRepository) Update(ctx context.Context, record *models.AccountRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

// Delete hard deletes a record
func (r *GormRecordRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count counts all records
func (r *GormRecordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AccountRecord{}).Count(&count).Error
	return count, err
}

// SumAmount sums the amount of every record
func (r *GormRecordRepository) SumAmount(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.AccountRecord{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&row).Error
	return row.Total, err
}

// ListAll lists every record ordered by ID
func (r *GormRecordRepository) ListAll(ctx context.Context) ([]models.AccountRecord, error) {
	var records []models.AccountRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
