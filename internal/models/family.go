package models

import "time"

// Family is the tenant boundary. CreatedBy is a plain column so a family outlives its creator.
type Family struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   uint64    `gorm:"not null;index" json:"created_by"`
	Status      Lifecycle `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (f Family) IsActive() bool {
	return f.Status == LifecycleActive
}
