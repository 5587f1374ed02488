package models

import "time"

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Phone        string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	Name         string    `gorm:"type:varchar(50);not null" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'family_member'" json:"role"`
	Status       Lifecycle `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) IsActive() bool {
	return u.Status == LifecycleActive
}

func (u User) IsSystemAdmin() bool {
	return u.Role == RoleSystemAdmin
}
