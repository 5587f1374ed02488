package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/family-ledger-api/internal/constants"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/repository"
	"gorm.io/gorm"
)

type categoryPreset struct {
	name       string
	recordType models.RecordType
	icon       string
	color      string
}

const (
	incomeColor  = "#52c41a"
	expenseColor = "#ff4d4f"
)

// defaultCategories is the catalog installed by InitDefaultCategories.
var defaultCategories = []categoryPreset{
	{"工资", models.RecordTypeIncome, "💰", incomeColor},
	{"奖金", models.RecordTypeIncome, "🎁", incomeColor},
	{"投资收益", models.RecordTypeIncome, "📈", incomeColor},
	{"兼职收入", models.RecordTypeIncome, "💼", incomeColor},
	{"其他收入", models.RecordTypeIncome, "💵", incomeColor},

	{"餐饮", models.RecordTypeExpense, "🍔", expenseColor},
	{"交通", models.RecordTypeExpense, "🚗", expenseColor},
	{"购物", models.RecordTypeExpense, "🛒", expenseColor},
	{"娱乐", models.RecordTypeExpense, "🎮", expenseColor},
	{"医疗", models.RecordTypeExpense, "🏥", expenseColor},
	{"教育", models.RecordTypeExpense, "📚", expenseColor},
	{"居住", models.RecordTypeExpense, "🏠", expenseColor},
	{"其他支出", models.RecordTypeExpense, "💸", expenseColor},
}

// CategoryService provides business logic for record categories.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	membership   *MembershipService
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository, membership *MembershipService) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		membership:   membership,
	}
}

// CreateCategoryInput represents parameters to create a category.
type CreateCategoryInput struct {
	Name  string
	Type  models.RecordType
	Icon  string
	Color string
}

// CreateCategory adds a category to the caller's family.
func (s *CategoryService) CreateCategory(ctx context.Context, user *models.User, input CreateCategoryInput) (*models.Category, error) {
	name, err := validateCategoryName(input.Name)
	if err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, validationError("category type must be income or expense")
	}
	if err := validateAppearance(input.Icon, input.Color); err != nil {
		return nil, err
	}

	member, err := s.membership.ActiveFamilyOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, member.FamilyID, name, input.Type, 0); err != nil {
		return nil, err
	}

	category := &models.Category{
		FamilyID:  member.FamilyID,
		Name:      name,
		Type:      input.Type,
		Icon:      orDefault(input.Icon, constants.DefaultCategoryIcon),
		Color:     orDefault(input.Color, constants.DefaultCategoryColor),
		Status:    models.LifecycleActive,
		CreatedBy: user.ID,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCategory
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// CategoryGroups is the category list split by record type.
type CategoryGroups struct {
	Income  []models.Category
	Expense []models.Category
	All     []models.Category
}

// ListCategories lists the active categories of the caller's family.
func (s *CategoryService) ListCategories(ctx context.Context, user *models.User, recordType *models.RecordType) (*CategoryGroups, error) {
	member, err := s.membership.ActiveFamilyOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if recordType != nil && !recordType.Valid() {
		return nil, validationError("record type must be income or expense")
	}

	categories, err := s.categoryRepo.ListActive(ctx, member.FamilyID, recordType)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	groups := &CategoryGroups{
		Income:  []models.Category{},
		Expense: []models.Category{},
		All:     categories,
	}
	for _, category := range categories {
		switch category.Type {
		case models.RecordTypeIncome:
			groups.Income = append(groups.Income, category)
		case models.RecordTypeExpense:
			groups.Expense = append(groups.Expense, category)
		}
	}
	if groups.All == nil {
		groups.All = []models.Category{}
	}
	return groups, nil
}

// UpdateCategoryInput holds optional category changes.
type UpdateCategoryInput struct {
	Name  *string
	Icon  *string
	Color *string
}

// UpdateCategory changes a category of the caller's family.
func (s *CategoryService) UpdateCategory(ctx context.Context, user *models.User, id uint64, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.findAccessible(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateCategoryName(*input.Name)
		if err != nil {
			return nil, err
		}
		if name != category.Name {
			if err := s.ensureUnique(ctx, category.FamilyID, name, category.Type, category.ID); err != nil {
				return nil, err
			}
			category.Name = name
		}
	}
	if input.Icon != nil {
		if err := validateAppearance(*input.Icon, ""); err != nil {
			return nil, err
		}
		category.Icon = strings.TrimSpace(*input.Icon)
	}
	if input.Color != nil {
		if err := validateAppearance("", *input.Color); err != nil {
			return nil, err
		}
		category.Color = strings.TrimSpace(*input.Color)
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCategory
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory soft deletes a category. Records keep their category text.
func (s *CategoryService) DeleteCategory(ctx context.Context, user *models.User, id uint64) error {
	category, err := s.findAccessible(ctx, user, id)
	if err != nil {
		return err
	}

	category.Status = models.LifecycleInactive
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// InitDefaultCategories installs the default catalog into the caller's family,
// skipping entries that already exist. It returns how many were created.
func (s *CategoryService) InitDefaultCategories(ctx context.Context, user *models.User) (int, error) {
	member, err := s.membership.ActiveFamilyOf(ctx, user.ID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, preset := range defaultCategories {
		exists, err := s.categoryRepo.ExistsActive(ctx, member.FamilyID, preset.name, preset.recordType, 0)
		if err != nil {
			return created, fmt.Errorf("failed to check category: %w", err)
		}
		if exists {
			continue
		}

		category := &models.Category{
			FamilyID:  member.FamilyID,
			Name:      preset.name,
			Type:      preset.recordType,
			Icon:      preset.icon,
			Color:     preset.color,
			Status:    models.LifecycleActive,
			CreatedBy: user.ID,
		}
		if err := s.categoryRepo.Create(ctx, category); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return created, fmt.Errorf("failed to create category: %w", err)
		}
		created++
	}
	return created, nil
}

// findAccessible loads an active category of a family the caller belongs to.
func (s *CategoryService) findAccessible(ctx context.Context, user *models.User, id uint64) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if !category.IsActive() {
		return nil, ErrCategoryNotFound
	}

	allowed, err := s.membership.CanAccessFamily(ctx, user, category.FamilyID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrFamilyAccessDenied
	}
	return category, nil
}

func (s *CategoryService) ensureUnique(ctx context.Context, familyID uint64, name string, recordType models.RecordType, excludeID uint64) error {
	exists, err := s.categoryRepo.ExistsActive(ctx, familyID, name, recordType, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if exists {
		return ErrDuplicateCategory
	}
	return nil
}

func validateAppearance(icon, color string) error {
	if utf8.RuneCountInString(strings.TrimSpace(icon)) > constants.MaxIconLength {
		return validationError("icon must be at most %d characters", constants.MaxIconLength)
	}
	if utf8.RuneCountInString(strings.TrimSpace(color)) > constants.MaxColorLength {
		return validationError("color must be at most %d characters", constants.MaxColorLength)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value == "" {
		return fallback
	}
	return value
}
