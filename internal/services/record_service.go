package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/constants"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/repository"
	"gorm.io/gorm"
)

// RecordService provides business logic for income and expense records.
type RecordService struct {
	recordRepo repository.RecordRepository
	membership *MembershipService
	now        func() time.Time
}

// NewRecordService creates a new RecordService.
func NewRecordService(recordRepo repository.RecordRepository, membership *MembershipService) *RecordService {
	return &RecordService{
		recordRepo: recordRepo,
		membership: membership,
		now:        time.Now,
	}
}

// CreateRecordInput represents parameters to create a record.
type CreateRecordInput struct {
	FamilyID *uint64
	Type     models.RecordType
	Category string
	Amount   decimal.Decimal
	Note     string
	Date     *time.Time
}

// CreateRecord records a transaction in the caller's family.
func (s *RecordService) CreateRecord(ctx context.Context, user *models.User, input CreateRecordInput) (*models.AccountRecord, error) {
	if !input.Type.Valid() {
		return nil, validationError("record type must be income or expense")
	}
	category, err := validateCategoryName(input.Category)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}

	familyID, err := s.membership.ResolveFamilyID(ctx, user, input.FamilyID)
	if err != nil {
		return nil, err
	}

	date := s.now()
	if input.Date != nil {
		date = *input.Date
	}

	record := &models.AccountRecord{
		FamilyID: familyID,
		UserID:   user.ID,
		Type:     input.Type,
		Category: category,
		Amount:   input.Amount,
		Note:     strings.TrimSpace(input.Note),
		Date:     date.UTC(),
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	record.User = *user
	return record, nil
}

// ListRecordsInput holds filters for listing records.
type ListRecordsInput struct {
	FamilyID   *uint64
	Type       *models.RecordType
	Categories []string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

// ListRecords lists records of the caller's family, newest first.
func (s *RecordService) ListRecords(ctx context.Context, user *models.User, input ListRecordsInput) ([]models.AccountRecord, int64, error) {
	if input.Type != nil && !input.Type.Valid() {
		return nil, 0, validationError("record type must be income or expense")
	}

	familyID, err := s.membership.ResolveFamilyID(ctx, user, input.FamilyID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.RecordFilter{
		FamilyID:   familyID,
		Type:       input.Type,
		Categories: nonEmpty(input.Categories),
		StartDate:  utcPtr(input.StartDate),
		EndDate:    utcPtr(input.EndDate),
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	records, total, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list records: %w", err)
	}
	return records, total, nil
}

// GetRecord loads a record visible to the caller.
func (s *RecordService) GetRecord(ctx context.Context, user *models.User, id uint64) (*models.AccountRecord, error) {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find record: %w", err)
	}

	allowed, err := s.membership.CanAccessFamily(ctx, user, record.FamilyID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrFamilyAccessDenied
	}
	return record, nil
}

// UpdateRecordInput holds optional record changes.
type UpdateRecordInput struct {
	Type     *models.RecordType
	Category *string
	Amount   *decimal.Decimal
	Note     *string
	Date     *time.Time
}

// UpdateRecord modifies a record loaded by GetRecord.
func (s *RecordService) UpdateRecord(ctx context.Context, user *models.User, record *models.AccountRecord, input UpdateRecordInput) (*models.AccountRecord, error) {
	if err := s.CanModify(ctx, user, record); err != nil {
		return nil, err
	}

	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, validationError("record type must be income or expense")
		}
		record.Type = *input.Type
	}
	if input.Category != nil {
		category, err := validateCategoryName(*input.Category)
		if err != nil {
			return nil, err
		}
		record.Category = category
	}
	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		record.Amount = *input.Amount
	}
	if input.Note != nil {
		record.Note = strings.TrimSpace(*input.Note)
	}
	if input.Date != nil {
		record.Date = input.Date.UTC()
	}

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	return record, nil
}

// DeleteRecord removes a record loaded by GetRecord.
func (s *RecordService) DeleteRecord(ctx context.Context, user *models.User, record *models.AccountRecord) error {
	if err := s.CanModify(ctx, user, record); err != nil {
		return err
	}

	if err := s.recordRepo.Delete(ctx, record.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// CanModify passes for the author, system admins and admins of the record's family.
func (s *RecordService) CanModify(ctx context.Context, user *models.User, record *models.AccountRecord) error {
	if record.UserID == user.ID || user.IsSystemAdmin() {
		return nil
	}

	if err := s.membership.RequireFamilyAdminOf(ctx, user, record.FamilyID); err != nil {
		if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNoFamily) {
			return ErrNotRecordOwner
		}
		return err
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationError("amount must be greater than 0")
	}
	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return validationError("amount must have at most 2 decimal places")
	}
	return nil
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("category is required")
	}
	if utf8.RuneCountInString(name) > constants.MaxCategoryLength {
		return "", validationError("category must be at most %d characters", constants.MaxCategoryLength)
	}
	return name, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
