package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/constants"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/repository"
	"gorm.io/gorm"
)

// unknownAdminName labels families whose creator no longer exists.
const unknownAdminName = "未知"

// AdminService provides system administration operations.
type AdminService struct {
	userRepo     repository.UserRepository
	familyRepo   repository.FamilyRepository
	recordRepo   repository.RecordRepository
	categoryRepo repository.CategoryRepository
	membership   *MembershipService
	now          func() time.Time
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	userRepo repository.UserRepository,
	familyRepo repository.FamilyRepository,
	recordRepo repository.RecordRepository,
	categoryRepo repository.CategoryRepository,
	membership *MembershipService,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		familyRepo:   familyRepo,
		recordRepo:   recordRepo,
		categoryRepo: categoryRepo,
		membership:   membership,
		now:          time.Now,
	}
}

// EnsureSystemAdmin creates the bootstrap system admin when no user owns phone.
// It reports whether a user was created.
func (s *AdminService) EnsureSystemAdmin(ctx context.Context, phone, password, name string) (bool, error) {
	if _, err := s.userRepo.FindByPhone(ctx, phone); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up system admin: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	admin := &models.User{
		Phone:        phone,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleSystemAdmin,
		Status:       models.LifecycleActive,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create system admin: %w", err)
	}

	slog.InfoContext(ctx, "Seeded system admin", "user_id", admin.ID, "phone", phone)
	return true, nil
}

// SystemStats holds global counters.
type SystemStats struct {
	TotalUsers    int64
	TotalFamilies int64
	TotalRecords  int64
	TotalAmount   decimal.Decimal
}

// SystemStats counts users, families and records and sums every amount.
func (s *AdminService) SystemStats(ctx context.Context) (*SystemStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	families, err := s.familyRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count families: %w", err)
	}
	records, err := s.recordRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	amount, err := s.recordRepo.SumAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum records: %w", err)
	}

	return &SystemStats{
		TotalUsers:    users,
		TotalFamilies: families,
		TotalRecords:  records,
		TotalAmount:   amount.Round(2),
	}, nil
}

// ListFamilyAdmins lists provisioned family admins and holders of family admin memberships.
func (s *AdminService) ListFamilyAdmins(ctx context.Context) ([]models.User, error) {
	admins, err := s.userRepo.ListFamilyAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list family admins: %w", err)
	}
	return admins, nil
}

// AddAdminInput represents a provisioned account.
type AddAdminInput struct {
	Phone    string
	Name     string
	Password string
	Role     models.Role
}

// AddAdmin provisions an account with the given role, family admin by default.
func (s *AdminService) AddAdmin(ctx context.Context, input AddAdminInput) (*models.User, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, validationError("phone is required")
	}
	if len(phone) > constants.MaxPhoneLength {
		return nil, validationError("phone number must have at most %d characters", constants.MaxPhoneLength)
	}
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleFamilyAdmin
	}
	if !role.Valid() {
		return nil, validationError("invalid role %q", role)
	}

	if _, err := s.userRepo.FindByPhone(ctx, phone); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Phone:        phone,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Status:       models.LifecycleActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return user, nil
}

// RemoveAdmin deletes a family admin together with their records and memberships.
func (s *AdminService) RemoveAdmin(ctx context.Context, actor *models.User, adminID uint64) error {
	target, err := s.userRepo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if target.ID == actor.ID {
		return validationError("cannot remove yourself")
	}
	if target.IsSystemAdmin() {
		return ErrCannotRemoveAdmin
	}

	isAdmin, err := s.isFamilyAdmin(ctx, target)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrNotFamilyAdminUser
	}

	if err := s.userRepo.DeleteCascade(ctx, target.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to remove admin: %w", err)
	}

	slog.InfoContext(ctx, "Removed family admin", "user_id", target.ID, "removed_by", actor.ID)
	return nil
}

func (s *AdminService) isFamilyAdmin(ctx context.Context, user *models.User) (bool, error) {
	if user.Role == models.RoleFamilyAdmin {
		return true, nil
	}
	member, err := s.membership.ActiveFamilyOf(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrNoFamily) {
			return false, nil
		}
		return false, err
	}
	return member.IsAdmin(), nil
}

// AllFamilies lists every family with its creator, member count and record total.
func (s *AdminService) AllFamilies(ctx context.Context) ([]repository.FamilySummary, error) {
	summaries, err := s.familyRepo.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	for i := range summaries {
		if summaries[i].AdminName == "" {
			summaries[i].AdminName = unknownAdminName
		}
		summaries[i].TotalAmount = summaries[i].TotalAmount.Round(2)
	}
	return summaries, nil
}

// SetUserStatus enables or disables an account. Disabled users cannot log in
// and their tokens stop resolving.
func (s *AdminService) SetUserStatus(ctx context.Context, actor *models.User, userID uint64, active bool) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !active && user.ID == actor.ID {
		return nil, validationError("cannot disable yourself")
	}

	user.Status = models.LifecycleInactive
	if active {
		user.Status = models.LifecycleActive
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	return user, nil
}

// DataExport is a full snapshot of the ledger.
type DataExport struct {
	ExportedAt time.Time
	Users      []models.User
	Families   []models.Family
	Members    []models.FamilyMember
	Categories []models.Category
	Records    []models.AccountRecord
}

// Export snapshots every table.
func (s *AdminService) Export(ctx context.Context) (*DataExport, error) {
	export := &DataExport{ExportedAt: s.now().UTC()}

	var err error
	if export.Users, err = s.userRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	if export.Families, err = s.familyRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export families: %w", err)
	}
	if export.Members, err = s.familyRepo.ListAllMembers(ctx); err != nil {
		return nil, fmt.Errorf("failed to export members: %w", err)
	}
	if export.Categories, err = s.categoryRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export categories: %w", err)
	}
	if export.Records, err = s.recordRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export records: %w", err)
	}
	return export, nil
}
