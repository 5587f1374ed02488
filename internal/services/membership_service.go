package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/repository"
	"gorm.io/gorm"
)

// MembershipService resolves which family a user acts in and what they may do there.
type MembershipService struct {
	familyRepo repository.FamilyRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(familyRepo repository.FamilyRepository) *MembershipService {
	return &MembershipService{
		familyRepo: familyRepo,
	}
}

// ActiveFamilyOf returns the user's single active membership, or ErrNoFamily.
func (s *MembershipService) ActiveFamilyOf(ctx context.Context, userID uint64) (*models.FamilyMember, error) {
	member, err := s.familyRepo.FindActiveMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoFamily
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return member, nil
}

// RequireSystemAdmin passes only for system admins.
func (s *MembershipService) RequireSystemAdmin(user *models.User) error {
	if !user.IsSystemAdmin() {
		return ErrNotSystemAdmin
	}
	return nil
}

// RequireAdmin passes for system admins, provisioned family admin accounts and
// users holding an active family admin membership.
func (s *MembershipService) RequireAdmin(ctx context.Context, user *models.User) error {
	switch user.Role {
	case models.RoleSystemAdmin, models.RoleFamilyAdmin:
		return nil
	case models.RoleFamilyMember:
	default:
		return ErrForbidden
	}

	member, err := s.ActiveFamilyOf(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrNoFamily) {
			return ErrNotFamilyAdmin
		}
		return err
	}
	if !member.IsAdmin() {
		return ErrNotFamilyAdmin
	}
	return nil
}

// RequireFamilyAdmin returns the caller's admin membership. System admins pass
// with whatever membership they hold, possibly none.
func (s *MembershipService) RequireFamilyAdmin(ctx context.Context, user *models.User) (*models.FamilyMember, error) {
	member, err := s.ActiveFamilyOf(ctx, user.ID)
	if user.IsSystemAdmin() {
		if err != nil && !errors.Is(err, ErrNoFamily) {
			return nil, err
		}
		return member, nil
	}
	if err != nil {
		return nil, err
	}
	if !member.IsAdmin() {
		return nil, ErrNotFamilyAdmin
	}
	return member, nil
}

// RequireFamilyAdminOf passes for system admins and admins of familyID.
func (s *MembershipService) RequireFamilyAdminOf(ctx context.Context, user *models.User, familyID uint64) error {
	if user.IsSystemAdmin() {
		return nil
	}

	member, err := s.ActiveFamilyOf(ctx, user.ID)
	if err != nil {
		return err
	}
	if member.FamilyID != familyID {
		return ErrFamilyAccessDenied
	}
	if !member.IsAdmin() {
		return ErrNotFamilyAdmin
	}
	return nil
}

// CanAccessFamily reports whether user is a system admin or an active member of familyID.
func (s *MembershipService) CanAccessFamily(ctx context.Context, user *models.User, familyID uint64) (bool, error) {
	if user.IsSystemAdmin() {
		return true, nil
	}

	member, err := s.ActiveFamilyOf(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrNoFamily) {
			return false, nil
		}
		return false, err
	}
	return member.FamilyID == familyID, nil
}

// ResolveFamilyID picks the family a request operates on. Without an explicit
// family the caller's own family is used; an explicit family must match it
// unless the caller is a system admin, for whom it only has to exist.
func (s *MembershipService) ResolveFamilyID(ctx context.Context, user *models.User, requested *uint64) (uint64, error) {
	if requested != nil && user.IsSystemAdmin() {
		if _, err := s.familyRepo.FindByID(ctx, *requested); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrFamilyNotFound
			}
			return 0, fmt.Errorf("failed to find family: %w", err)
		}
		return *requested, nil
	}

	member, err := s.ActiveFamilyOf(ctx, user.ID)
	if err != nil {
		return 0, err
	}

	if requested != nil && *requested != member.FamilyID {
		return 0, ErrFamilyAccessDenied
	}
	return member.FamilyID, nil
}
