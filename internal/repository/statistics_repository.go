package repository

import (
	"context"
	"time"

	"github.com/yukikurage/family-ledger-api/internal/models"
	"gorm.io/gorm"
)

// GormStatisticsRepository is a GORM implementation of StatisticsRepository
type GormStatisticsRepository struct {
	db *gorm.DB
}

// NewStatisticsRepository creates a new StatisticsRepository
func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &GormStatisticsRepository{db: db}
}

// TotalsByType sums amounts per record type within [from, to)
func (r *GormStatisticsRepository) TotalsByType(ctx context.Context, familyID uint64, from, to *time.Time) ([]TypeTotal, error) {
	query := r.db.WithContext(ctx).Model(&models.AccountRecord{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("family_id = ?", familyID)
	if from != nil {
		query = query.Where("record_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("record_date < ?", *to)
	}

	var totals []TypeTotal
	if err := query.Group("type").Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// CategoryTotals sums amounts per category for one record type, largest first
func (r *GormStatisticsRepository) CategoryTotals(ctx context.Context, familyID uint64, recordType models.RecordType) ([]CategoryTotal, error) {
	var totals []CategoryTotal
	err := r.db.WithContext(ctx).Model(&models.AccountRecord{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("family_id = ? AND type = ?", familyID, recordType).
		Group("category").
		Order("total DESC").
		Order("category").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// MemberRanking ranks active members of the family that authored records in it
func (r *GormStatisticsRepository) MemberRanking(ctx context.Context, familyID uint64) ([]MemberRank, error) {
	var ranks []MemberRank
	err := r.db.WithContext(ctx).Table("account_records").
		Select(`users.id AS user_id, users.name AS name,
			COUNT(account_records.id) AS record_count,
			COALESCE(SUM(account_records.amount), 0) AS total_amount`).
		Joins(`JOIN family_members ON family_members.user_id = account_records.user_id
			AND family_members.family_id = account_records.family_id
			AND family_members.status = ?`, models.LifecycleActive).
		Joins("JOIN users ON users.id = account_records.user_id").
		Where("account_records.family_id = ?", familyID).
		Group("users.id, users.name").
		Order("record_count DESC").
		Order("total_amount DESC").
		Order("users.id").
		Scan(&ranks).Error
	if err != nil {
		return nil, err
	}
	return ranks, nil
}
