package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountRecord is a single income or expense transaction.
type AccountRecord struct {
	ID        uint64          `gorm:"primarykey" json:"id"`
	FamilyID  uint64          `gorm:"not null;index" json:"family_id"`
	UserID    uint64          `gorm:"not null;index" json:"user_id"`
	Type      RecordType      `gorm:"type:varchar(20);not null" json:"type"`
	Category  string          `gorm:"type:varchar(50);not null" json:"category"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Note      string          `gorm:"type:text" json:"note"`
	Date      time.Time       `gorm:"column:record_date;not null;index" json:"date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
