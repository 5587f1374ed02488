package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/repository"
)

// FamilyDTO represents a family in API responses
type FamilyDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   uint64    `json:"created_by"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// FamilyMemberDTO represents a membership together with the member's identity
type FamilyMemberDTO struct {
	ID         uint64      `json:"id"`
	FamilyID   uint64      `json:"family_id"`
	FamilyName string      `json:"family_name,omitempty"`
	UserID     uint64      `json:"user_id"`
	UserName   string      `json:"user_name,omitempty"`
	Phone      string      `json:"phone,omitempty"`
	Role       models.Role `json:"role"`
	IsActive   bool        `json:"is_active"`
	JoinedAt   time.Time   `json:"joined_at"`
}

// FamilyDetailDTO is a family with its active members
type FamilyDetailDTO struct {
	FamilyDTO
	Members []FamilyMemberDTO `json:"members"`
}

// FamilySummaryDTO is one row of the admin family overview
type FamilySummaryDTO struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	AdminName   string          `json:"admin_name"`
	MemberCount int64           `json:"member_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToFamilyDTO converts a Family model to FamilyDTO
func ToFamilyDTO(family models.Family) FamilyDTO {
	return FamilyDTO{
		ID:          family.ID,
		Name:        family.Name,
		Description: family.Description,
		CreatedBy:   family.CreatedBy,
		IsActive:    family.IsActive(),
		CreatedAt:   family.CreatedAt,
	}
}

// ToFamilyDTOs converts families to DTOs
func ToFamilyDTOs(families []models.Family) []FamilyDTO {
	dtos := make([]FamilyDTO, 0, len(families))
	for _, family := range families {
		dtos = append(dtos, ToFamilyDTO(family))
	}
	return dtos
}

// ToFamilyMemberDTO converts a membership to DTO. Relations that were not
// loaded are left out.
func ToFamilyMemberDTO(member models.FamilyMember) FamilyMemberDTO {
	return FamilyMemberDTO{
		ID:         member.ID,
		FamilyID:   member.FamilyID,
		FamilyName: member.Family.Name,
		UserID:     member.UserID,
		UserName:   member.User.Name,
		Phone:      member.User.Phone,
		Role:       member.Role,
		IsActive:   member.IsActive(),
		JoinedAt:   member.JoinedAt,
	}
}

// ToFamilyMemberDTOs converts memberships to DTOs
func ToFamilyMemberDTOs(members []models.FamilyMember) []FamilyMemberDTO {
	dtos := make([]FamilyMemberDTO, 0, len(members))
	for _, member := range members {
		dtos = append(dtos, ToFamilyMemberDTO(member))
	}
	return dtos
}

// ToFamilyDetailDTO combines a family with its members
func ToFamilyDetailDTO(family models.Family, members []models.FamilyMember) FamilyDetailDTO {
	return FamilyDetailDTO{
		FamilyDTO: ToFamilyDTO(family),
		Members:   ToFamilyMemberDTOs(members),
	}
}

// ToFamilySummaryDTOs converts admin family summaries to DTOs
func ToFamilySummaryDTOs(summaries []repository.FamilySummary) []FamilySummaryDTO {
	dtos := make([]FamilySummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, FamilySummaryDTO{
			ID:          s.ID,
			Name:        s.Name,
			AdminName:   s.AdminName,
			MemberCount: s.MemberCount,
			TotalAmount: s.TotalAmount,
			IsActive:    s.Status == models.LifecycleActive,
			CreatedAt:   s.CreatedAt,
		})
	}
	return dtos
}
