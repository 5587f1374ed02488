package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/repository"
	"gorm.io/gorm"
)

const maxFamilyNameLength = 100

// FamilyService provides business logic for families and their members.
type FamilyService struct {
	familyRepo repository.FamilyRepository
	userRepo   repository.UserRepository
	membership *MembershipService
}

// NewFamilyService creates a new FamilyService.
func NewFamilyService(familyRepo repository.FamilyRepository, userRepo repository.UserRepository, membership *MembershipService) *FamilyService {
	return &FamilyService{
		familyRepo: familyRepo,
		userRepo:   userRepo,
		membership: membership,
	}
}

// CreateFamilyInput represents parameters to create a new family.
type CreateFamilyInput struct {
	Name        string
	Description string
}

// CreateFamily creates a family with the caller as its admin. The caller must
// not already belong to a family.
func (s *FamilyService) CreateFamily(ctx context.Context, user *models.User, input CreateFamilyInput) (*models.Family, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("family name is required")
	}
	if utf8.RuneCountInString(name) > maxFamilyNameLength {
		return nil, validationError("family name must be at most %d characters", maxFamilyNameLength)
	}

	return s.createWithAdmin(ctx, user, name, strings.TrimSpace(input.Description))
}

// QuickCreateFamily creates a family named after the caller.
func (s *FamilyService) QuickCreateFamily(ctx context.Context, user *models.User) (*models.Family, error) {
	return s.createWithAdmin(ctx, user,
		fmt.Sprintf("%s的家庭", user.Name),
		fmt.Sprintf("%s创建的家庭", user.Name),
	)
}

func (s *FamilyService) createWithAdmin(ctx context.Context, user *models.User, name, description string) (*models.Family, error) {
	if _, err := s.membership.ActiveFamilyOf(ctx, user.ID); err == nil {
		return nil, ErrAlreadyInFamily
	} else if !errors.Is(err, ErrNoFamily) {
		return nil, err
	}

	family := &models.Family{
		Name:        name,
		Description: description,
		CreatedBy:   user.ID,
		Status:      models.LifecycleActive,
	}
	admin := &models.FamilyMember{
		UserID:   user.ID,
		Role:     models.RoleFamilyAdmin,
		Status:   models.LifecycleActive,
		JoinedAt: time.Now().UTC(),
	}

	if err := s.familyRepo.CreateWithAdmin(ctx, family, admin); err != nil {
		if errors.Is(err, repository.ErrCreateFamilyMember) && errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInFamily
		}
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	return family, nil
}

// MyFamily returns the caller's family and its active members.
func (s *FamilyService) MyFamily(ctx context.Context, user *models.User) (*models.Family, []models.FamilyMember, error) {
	member, err := s.membership.ActiveFamilyOf(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return s.familyWithMembers(ctx, member.FamilyID)
}

// GetFamily returns a family and its active members to a member or a system admin.
func (s *FamilyService) GetFamily(ctx context.Context, user *models.User, familyID uint64) (*models.Family, []models.FamilyMember, error) {
	allowed, err := s.membership.CanAccessFamily(ctx, user, familyID)
	if err != nil {
		return nil, nil, err
	}
	if !allowed {
		return nil, nil, ErrFamilyAccessDenied
	}
	return s.familyWithMembers(ctx, familyID)
}

func (s *FamilyService) familyWithMembers(ctx context.Context, familyID uint64) (*models.Family, []models.FamilyMember, error) {
	family, err := s.findFamily(ctx, familyID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.familyRepo.ListActiveMembers(ctx, familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list family members: %w", err)
	}

	return family, members, nil
}

// ListMyFamilyMembers returns the active members of the caller's family, or
// an empty list when the caller has none.
func (s *FamilyService) ListMyFamilyMembers(ctx context.Context, user *models.User) ([]models.FamilyMember, error) {
	member, err := s.membership.ActiveFamilyOf(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrNoFamily) {
			return []models.FamilyMember{}, nil
		}
		return nil, err
	}

	members, err := s.familyRepo.ListActiveMembers(ctx, member.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}
	for i := range members {
		members[i].Family = member.Family
	}
	return members, nil
}

// UpdateFamilyInput holds optional family changes.
type UpdateFamilyInput struct {
	Name        *string
	Description *string
}

// UpdateFamily changes a family's name and description.
func (s *FamilyService) UpdateFamily(ctx context.Context, user *models.User, familyID uint64, input UpdateFamilyInput) (*models.Family, error) {
	if err := s.membership.RequireFamilyAdminOf(ctx, user, familyID); err != nil {
		return nil, err
	}

	family, err := s.findFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationError("family name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxFamilyNameLength {
			return nil, validationError("family name must be at most %d characters", maxFamilyNameLength)
		}
		family.Name = name
	}
	if input.Description != nil {
		family.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.familyRepo.Update(ctx, family); err != nil {
		return nil, fmt.Errorf("failed to update family: %w", err)
	}
	return family, nil
}

// AddMemberInput identifies the user to add by ID or phone.
type AddMemberInput struct {
	FamilyID *uint64
	UserID   uint64
	Phone    string
	Role     models.Role
}

// AddMember adds a user without a family to the admin's family.
func (s *FamilyService) AddMember(ctx context.Context, actor *models.User, input AddMemberInput) (*models.FamilyMember, error) {
	role := input.Role
	if role == "" {
		role = models.RoleFamilyMember
	}
	if !role.ValidMembershipRole() {
		return nil, validationError("invalid member role %q", role)
	}

	familyID, err := s.membership.ResolveFamilyID(ctx, actor, input.FamilyID)
	if err != nil {
		return nil, err
	}
	if err := s.membership.RequireFamilyAdminOf(ctx, actor, familyID); err != nil {
		return nil, err
	}

	family, err := s.findFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if !family.IsActive() {
		return nil, validationError("family is inactive")
	}

	target, err := s.findTarget(ctx, input)
	if err != nil {
		return nil, err
	}
	if !target.IsActive() {
		return nil, validationError("user account is disabled")
	}

	if _, err := s.membership.ActiveFamilyOf(ctx, target.ID); err == nil {
		return nil, ErrAlreadyInFamily
	} else if !errors.Is(err, ErrNoFamily) {
		return nil, err
	}

	member := &models.FamilyMember{
		FamilyID: familyID,
		UserID:   target.ID,
		Role:     role,
		Status:   models.LifecycleActive,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.familyRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInFamily
		}
		return nil, fmt.Errorf("failed to add family member: %w", err)
	}

	member.User = *target
	member.Family = *family
	return member, nil
}

func (s *FamilyService) findTarget(ctx context.Context, input AddMemberInput) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case input.UserID != 0:
		user, err = s.userRepo.FindByID(ctx, input.UserID)
	case strings.TrimSpace(input.Phone) != "":
		user, err = s.userRepo.FindByPhone(ctx, strings.TrimSpace(input.Phone))
	default:
		return nil, validationError("user_id or phone is required")
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// RemoveMember deactivates a membership. System admins and the caller cannot be removed.
func (s *FamilyService) RemoveMember(ctx context.Context, actor *models.User, memberID uint64) error {
	member, err := s.familyRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find family member: %w", err)
	}
	if !member.IsActive() {
		return ErrMemberNotFound
	}

	if err := s.membership.RequireFamilyAdminOf(ctx, actor, member.FamilyID); err != nil {
		return err
	}

	if member.User.IsSystemAdmin() {
		return ErrCannotRemoveAdmin
	}
	if member.UserID == actor.ID {
		return ErrCannotRemoveSelf
	}

	member.Status = models.LifecycleInactive
	if err := s.familyRepo.UpdateMember(ctx, member); err != nil {
		return fmt.Errorf("failed to remove family member: %w", err)
	}
	return nil
}

// CleanupTestMembers hard deletes inactive memberships of test accounts.
// System admins clean every family, family admins only their own.
func (s *FamilyService) CleanupTestMembers(ctx context.Context, actor *models.User) (int64, error) {
	if err := s.membership.RequireAdmin(ctx, actor); err != nil {
		return 0, err
	}

	var scope *uint64
	if !actor.IsSystemAdmin() {
		member, err := s.membership.ActiveFamilyOf(ctx, actor.ID)
		if err != nil {
			return 0, err
		}
		if !member.IsAdmin() {
			return 0, ErrNotFamilyAdmin
		}
		scope = &member.FamilyID
	}

	deleted, err := s.familyRepo.DeleteInactiveTestMembers(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up members: %w", err)
	}
	return deleted, nil
}

func (s *FamilyService) findFamily(ctx context.Context, familyID uint64) (*models.Family, error) {
	family, err := s.familyRepo.FindByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyNotFound
		}
		return nil, fmt.Errorf("failed to find family: %w", err)
	}
	return family, nil
}
