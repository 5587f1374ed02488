package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/utils"
)

// RecordDTO represents an account record in API responses
type RecordDTO struct {
	ID        uint64            `json:"id"`
	FamilyID  uint64            `json:"family_id"`
	UserID    uint64            `json:"user_id"`
	UserName  string            `json:"user_name,omitempty"`
	Type      models.RecordType `json:"type"`
	Category  string            `json:"category"`
	Amount    decimal.Decimal   `json:"amount"`
	Note      string            `json:"note"`
	Date      time.Time         `json:"date"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// RecordListResponse represents a paginated list of records
type RecordListResponse struct {
	Records    []RecordDTO              `json:"records"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToRecordDTO converts an AccountRecord model to RecordDTO
func ToRecordDTO(record models.AccountRecord) RecordDTO {
	return RecordDTO{
		ID:        record.ID,
		FamilyID:  record.FamilyID,
		UserID:    record.UserID,
		UserName:  record.User.Name,
		Type:      record.Type,
		Category:  record.Category,
		Amount:    record.Amount.Round(2),
		Note:      record.Note,
		Date:      record.Date,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// ToRecordDTOs converts records to DTOs
func ToRecordDTOs(records []models.AccountRecord) []RecordDTO {
	dtos := make([]RecordDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, ToRecordDTO(record))
	}
	return dtos
}
