package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/family-ledger-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrDeleteUserRecords is returned when removing a user's records fails inside the cascade transaction.
	ErrDeleteUserRecords = errors.New("user repository: delete records failed")
	// ErrDeleteUserMemberships is returned when removing a user's memberships fails inside the cascade transaction.
	ErrDeleteUserMemberships = errors.New("user repository: delete memberships failed")
	// ErrDeleteUser is returned when removing the user row fails inside the cascade transaction.
	ErrDeleteUser = errors.New("user repository: delete user failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByPhone finds a user by phone number
func (r *GormUserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves all user columns
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

// Count counts all users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// ListAll lists every user ordered by ID
func (r *GormUserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListFamilyAdmins lists users provisioned as family admins or holding an active family admin membership
func (r *GormUserRepository) ListFamilyAdmins(ctx context.Context) ([]models.User, error) {
	db := r.db.WithContext(ctx)

	adminMemberships := db.Model(&models.FamilyMember{}).
		Select("user_id").
		Where("role = ? AND status = ?", models.RoleFamilyAdmin, models.LifecycleActive)

	var users []models.User
	if err := db.
		Where("role = ?", models.RoleFamilyAdmin).
		Or("id IN (?)", adminMemberships).
		Order("id").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteCascade removes a user's records, memberships and the user row atomically.
func (r *GormUserRepository) DeleteCascade(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.AccountRecord{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteUserRecords, err)
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.FamilyMember{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteUserMemberships, err)
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("%w: %v", ErrDeleteUser, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
