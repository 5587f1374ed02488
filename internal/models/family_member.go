package models

import "time"

type FamilyMember struct {
	ID       uint64    `gorm:"primarykey" json:"id"`
	FamilyID uint64    `gorm:"not null;index" json:"family_id"`
	UserID   uint64    `gorm:"not null;index" json:"user_id"`
	Role     Role      `gorm:"type:varchar(20);not null;default:'family_member'" json:"role"`
	Status   Lifecycle `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	Family Family `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (m FamilyMember) IsActive() bool {
	return m.Status == LifecycleActive
}

func (m FamilyMember) IsAdmin() bool {
	return m.Role == RoleFamilyAdmin
}
