package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/family-ledger-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFamilyRepository is a GORM implementation of FamilyRepository
type GormFamilyRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateFamily is returned when creating a family fails inside the creation transaction.
	ErrCreateFamily = errors.New("family repository: create family failed")
	// ErrCreateFamilyMember is returned when creating the admin membership fails inside the creation transaction.
	ErrCreateFamilyMember = errors.New("family repository: create family member failed")
)

// testAccountCondition matches accounts created for testing.
const testAccountCondition = "users.phone LIKE ? OR users.name LIKE ?"

// NewFamilyRepository creates a new FamilyRepository
func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &GormFamilyRepository{db: db}
}

// CreateWithAdmin creates a family and the admin membership atomically.
func (r *GormFamilyRepository) CreateWithAdmin(ctx context.Context, family *models.Family, admin *models.FamilyMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(family).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateFamily, err)
		}

		admin.FamilyID = family.ID

		if err := tx.Omit(clause.Associations).Create(admin).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateFamilyMember, err)
		}

		return nil
	})
}

// FindByID finds a family by ID
func (r *GormFamilyRepository) FindByID(ctx context.Context, id uint64) (*models.Family, error) {
	var family models.Family
	if err := r.db.WithContext(ctx).First(&family, id).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

// Update saves all family columns
func (r *GormFamilyRepository) Update(ctx context.Context, family *models.Family) error {
	return r.db.WithContext(ctx).Save(family).Error
}

// Count counts all families
func (r *GormFamilyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Family{}).Count(&count).Error
	return count, err
}

// ListAll lists every family ordered by ID
func (r *GormFamilyRepository) ListAll(ctx context.Context) ([]models.Family, error) {
	var families []models.Family
	if err := r.db.WithContext(ctx).Order("id").Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

// ListSummaries lists every family with its creator name, active member count and record total
func (r *GormFamilyRepository) ListSummaries(ctx context.Context) ([]FamilySummary, error) {
	db := r.db.WithContext(ctx)

	memberCounts := db.Model(&models.FamilyMember{}).
		Select("family_id, COUNT(*) AS member_count").
		Where("status = ?", models.LifecycleActive).
		Group("family_id")

	recordTotals := db.Model(&models.AccountRecord{}).
		Select("family_id, SUM(amount) AS total_amount").
		Group("family_id")

	var summaries []FamilySummary
	err := db.Table("families").
		Select(`families.id, families.name, COALESCE(users.name, '') AS admin_name,
			COALESCE(mc.member_count, 0) AS member_count,
			COALESCE(rt.total_amount, 0) AS total_amount,
			families.status, families.created_at`).
		Joins("LEFT JOIN users ON users.id = families.created_by").
		Joins("LEFT JOIN (?) AS mc ON mc.family_id = families.id", memberCounts).
		Joins("LEFT JOIN (?) AS rt ON rt.family_id = families.id", recordTotals).
		Order("families.id").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// AddMember adds a member to a family
func (r *GormFamilyRepository) AddMember(ctx context.Context, member *models.FamilyMember) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
}

// UpdateMember saves all membership columns
func (r *GormFamilyRepository) UpdateMember(ctx context.Context, member *models.FamilyMember) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(member).Error
}

// FindMemberByID finds a membership by ID with its user
func (r *GormFamilyRepository) FindMemberByID(ctx context.Context, id uint64) (*models.FamilyMember, error) {
	var member models.FamilyMember
	if err := r.db.WithContext(ctx).Preload("User").First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindActiveMembership finds the single active membership of a user with its family
func (r *GormFamilyRepository) FindActiveMembership(ctx context.Context, userID uint64) (*models.FamilyMember, error) {
	var member models.FamilyMember
	if err := r.db.WithContext(ctx).
		Preload("Family").
		Where("user_id = ? AND status = ?", userID, models.LifecycleActive).
		Order("id").
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListActiveMembers lists active members of a family with their users
func (r *GormFamilyRepository) ListActiveMembers(ctx context.Context, familyID uint64) ([]models.FamilyMember, error) {
	var members []models.FamilyMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("family_id = ? AND status = ?", familyID, models.LifecycleActive).
		Order("joined_at, id").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListAllMembers lists every membership ordered by ID
func (r *GormFamilyRepository) ListAllMembers(ctx context.Context) ([]models.FamilyMember, error) {
	var members []models.FamilyMember
	if err := r.db.WithContext(ctx).Order("id").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// DeleteInactiveTestMembers hard deletes inactive memberships whose user looks like a test account.
func (r *GormFamilyRepository) DeleteInactiveTestMembers(ctx context.Context, familyID *uint64) (int64, error) {
	db := r.db.WithContext(ctx)

	testUsers := db.Model(&models.User{}).
		Select("users.id").
		Where(testAccountCondition, "%test%", "%测试%")

	query := db.Where("status = ? AND user_id IN (?)", models.LifecycleInactive, testUsers)
	if familyID != nil {
		query = query.Where("family_id = ?", *familyID)
	}

	result := query.Delete(&models.FamilyMember{})
	return result.RowsAffected, result.Error
}
