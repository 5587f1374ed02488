package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByPhone finds a user by phone number
	FindByPhone(ctx context.Context, phone string) (*models.User, error)

	// Update saves all user columns
	Update(ctx context.Context, user *models.User) error

	// Count counts all users
	Count(ctx context.Context) (int64, error)

	// ListAll lists every user ordered by ID
	ListAll(ctx context.Context) ([]models.User, error)

	// ListFamilyAdmins lists users provisioned as family admins or holding an active family admin membership
	ListFamilyAdmins(ctx context.Context) ([]models.User, error)

	// DeleteCascade hard deletes a user together with their records and memberships
	DeleteCascade(ctx context.Context, id uint64) error
}

// FamilyRepository defines the interface for family and membership data access
type FamilyRepository interface {
	// CreateWithAdmin creates a family and its admin membership within a single transaction.
	CreateWithAdmin(ctx context.Context, family *models.Family, admin *models.FamilyMember) error

	// FindByID finds a family by ID
	FindByID(ctx context.Context, id uint64) (*models.Family, error)

	// Update saves all family columns
	Update(ctx context.Context, family *models.Family) error

	// Count counts all families
	Count(ctx context.Context) (int64, error)

	// ListAll lists every family ordered by ID
	ListAll(ctx context.Context) ([]models.Family, error)

	// ListSummaries lists every family with its creator name, active member count and record total
	ListSummaries(ctx context.Context) ([]FamilySummary, error)

	// AddMember adds a member to a family
	AddMember(ctx context.Context, member *models.FamilyMember) error

	// UpdateMember saves all membership columns
	UpdateMember(ctx context.Context, member *models.FamilyMember) error

	// FindMemberByID finds a membership by ID with its user
	FindMemberByID(ctx context.Context, id uint64) (*models.FamilyMember, error)

	// FindActiveMembership finds the single active membership of a user with its family
	FindActiveMembership(ctx context.Context, userID uint64) (*models.FamilyMember, error)

	// ListActiveMembers lists active members of a family with their users
	ListActiveMembers(ctx context.Context, familyID uint64) ([]models.FamilyMember, error)

	// ListAllMembers lists every membership ordered by ID
	ListAllMembers(ctx context.Context) ([]models.FamilyMember, error)

	// DeleteInactiveTestMembers hard deletes inactive memberships of test accounts.
	// A nil familyID applies the cleanup to every family.
	DeleteInactiveTestMembers(ctx context.Context, familyID *uint64) (int64, error)
}

// FamilySummary is a family row enriched for the admin overview
type FamilySummary struct {
	ID          uint64
	Name        string
	AdminName   string
	MemberCount int64
	TotalAmount decimal.Decimal
	Status      models.Lifecycle
	CreatedAt   time.Time
}

// RecordRepository defines the interface for account record data access
type RecordRepository interface {
	// Create creates a new record
	Create(ctx context.Context, record *models.AccountRecord) error

	// FindByID finds a record by ID with its author
	FindByID(ctx context.Context, id uint64) (*models.AccountRecord, error)

	// List retrieves records with filtering and pagination, newest first
	List(ctx context.Context, filter RecordFilter) ([]models.AccountRecord, int64, error)

	// Update saves all record columns
	Update(ctx context.Context, record *models.AccountRecord) error

	// Delete hard deletes a record
	Delete(ctx context.Context, id uint64) error

	// Count counts all records
	Count(ctx context.Context) (int64, error)

	// SumAmount sums the amount of every record
	SumAmount(ctx context.Context) (decimal.Decimal, error)

	// ListAll lists every record ordered by ID
	ListAll(ctx context.Context) ([]models.AccountRecord, error)
}

// RecordFilter holds filtering options for listing records
type RecordFilter struct {
	FamilyID   uint64
	Type       *models.RecordType
	Categories []string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *models.Category) error

	// FindByID finds a category by ID regardless of status
	FindByID(ctx context.Context, id uint64) (*models.Category, error)

	// Update saves all category columns
	Update(ctx context.Context, category *models.Category) error

	// ExistsActive reports whether an active category with the same family, name and type exists.
	// excludeID skips the category being renamed; zero excludes nothing.
	ExistsActive(ctx context.Context, familyID uint64, name string, recordType models.RecordType, excludeID uint64) (bool, error)

	// ListActive lists active categories of a family ordered by name, optionally by type
	ListActive(ctx context.Context, familyID uint64, recordType *models.RecordType) ([]models.Category, error)

	// ListAll lists every category ordered by ID
	ListAll(ctx context.Context) ([]models.Category, error)
}

// StatisticsRepository defines the aggregate queries behind family statistics
type StatisticsRepository interface {
	// TotalsByType sums amounts per record type within [from, to); nil bounds are open.
	TotalsByType(ctx context.Context, familyID uint64, from, to *time.Time) ([]TypeTotal, error)

	// CategoryTotals sums amounts per category for one record type, largest first
	CategoryTotals(ctx context.Context, familyID uint64, recordType models.RecordType) ([]CategoryTotal, error)

	// MemberRanking ranks active members by record count
	MemberRanking(ctx context.Context, familyID uint64) ([]MemberRank, error)
}

// TypeTotal is the sum of amounts for one record type
type TypeTotal struct {
	Type  models.RecordType
	Total decimal.Decimal
}

// CategoryTotal is the sum of amounts for one category
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MemberRank is one member's activity within a family
type MemberRank struct {
	UserID      uint64
	Name        string
	RecordCount int64
	TotalAmount decimal.Decimal
}
