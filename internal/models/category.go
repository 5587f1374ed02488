package models

import "time"

type Category struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	FamilyID  uint64     `gorm:"not null;index" json:"family_id"`
	Name      string     `gorm:"type:varchar(50);not null" json:"name"`
	Type      RecordType `gorm:"type:varchar(20);not null" json:"type"`
	Icon      string     `gorm:"type:varchar(20)" json:"icon"`
	Color     string     `gorm:"type:varchar(7)" json:"color"`
	Status    Lifecycle  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedBy uint64     `gorm:"not null" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c Category) IsActive() bool {
	return c.Status == LifecycleActive
}
