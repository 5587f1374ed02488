package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/family-ledger-api/internal/repository"
	"github.com/yukikurage/family-ledger-api/internal/testutil"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db         *gorm.DB
	tokens     *TokenService
	auth       *AuthService
	membership *MembershipService
	families   *FamilyService
	records    *RecordService
	categories *CategoryService
	statistics *StatisticsService
	admin      *AdminService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db := testutil.NewTestDB(t)

	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	tokens := NewTokenService("test-secret", time.Hour)
	membership := NewMembershipService(familyRepo)

	return serviceTestEnv{
		db:         db,
		tokens:     tokens,
		auth:       NewAuthService(userRepo, tokens, "123456"),
		membership: membership,
		families:   NewFamilyService(familyRepo, userRepo, membership),
		records:    NewRecordService(recordRepo, membership),
		categories: NewCategoryService(categoryRepo, membership),
		statistics: NewStatisticsService(statsRepo, membership),
		admin:      NewAdminService(userRepo, familyRepo, recordRepo, categoryRepo, membership),
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func decimalOf(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
