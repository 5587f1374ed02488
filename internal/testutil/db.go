// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/family-ledger-api/internal/database"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory sqlite database closed with the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts an active user whose password is "password".
func CreateUser(t *testing.T, db *gorm.DB, phone, name string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Phone:        phone,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.LifecycleActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateFamily inserts a family with admin as its active family admin.
func CreateFamily(t *testing.T, db *gorm.DB, name string, admin *models.User) (*models.Family, *models.FamilyMember) {
	t.Helper()

	family := &models.Family{
		Name:      name,
		CreatedBy: admin.ID,
		Status:    models.LifecycleActive,
	}
	require.NoError(t, db.Create(family).Error)

	member := AddMember(t, db, family, admin, models.RoleFamilyAdmin)
	return family, member
}

// AddMember inserts an active membership.
func AddMember(t *testing.T, db *gorm.DB, family *models.Family, user *models.User, role models.Role) *models.FamilyMember {
	t.Helper()

	member := &models.FamilyMember{
		FamilyID: family.ID,
		UserID:   user.ID,
		Role:     role,
		Status:   models.LifecycleActive,
		JoinedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Omit("Family", "User").Create(member).Error)
	return member
}

// CreateRecord inserts a record dated at date.
func CreateRecord(t *testing.T, db *gorm.DB, familyID, userID uint64, recordType models.RecordType, category, amount string, date time.Time) *models.AccountRecord {
	t.Helper()

	record := &models.AccountRecord{
		FamilyID: familyID,
		UserID:   userID,
		Type:     recordType,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date.UTC(),
	}
	require.NoError(t, db.Omit("User").Create(record).Error)
	return record
}
