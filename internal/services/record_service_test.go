package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/testutil"
)

func TestRecordService_CreateRecord(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	family, _ := testutil.CreateFamily(t, env.db, "Smiths", alice)

	date := time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("CST", 8*3600))
	record, err := env.records.CreateRecord(ctx, alice, CreateRecordInput{
		Type:     models.RecordTypeExpense,
		Category: " 餐饮 ",
		Amount:   decimal.RequireFromString("35.50"),
		Note:     "lunch",
		Date:     &date,
	})
	require.NoError(t, err)
	assert.Equal(t, family.ID, record.FamilyID)
	assert.Equal(t, alice.ID, record.UserID)
	assert.Equal(t, "餐饮", record.Category)
	assert.Equal(t, time.UTC, record.Date.Location())
	assert.True(t, record.Date.Equal(date))
	assert.Equal(t, "Alice", record.User.Name)

	loaded, err := env.records.GetRecord(ctx, alice, record.ID)
	require.NoError(t, err)
	requireDecimal(t, "35.5", loaded.Amount)
	assert.Equal(t, "Alice", loaded.User.Name)
}

func TestRecordService_CreateRecordValidation(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	testutil.CreateFamily(t, env.db, "Smiths", alice)

	tests := []struct {
		name  string
		input CreateRecordInput
	}{
		{"zero amount", CreateRecordInput{Type: models.RecordTypeIncome, Category: "工资", Amount: decimal.Zero}},
		{"negative amount", CreateRecordInput{Type: models.RecordTypeIncome, Category: "工资", Amount: decimal.RequireFromString("-1")}},
		{"three decimals", CreateRecordInput{Type: models.RecordTypeIncome, Category: "工资", Amount: decimal.RequireFromString("1.005")}},
		{"unknown type", CreateRecordInput{Type: "transfer", Category: "工资", Amount: decimal.NewFromInt(1)}},
		{"empty category", CreateRecordInput{Type: models.RecordTypeIncome, Category: " ", Amount: decimal.NewFromInt(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.records.CreateRecord(ctx, alice, tt.input)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := env.records.CreateRecord(ctx, alice, CreateRecordInput{
		Type: models.RecordTypeIncome, Category: "工资", Amount: decimal.RequireFromString("1.500"),
	})
	require.NoError(t, err)
}

func TestRecordService_RequiresFamily(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	loner := testutil.CreateUser(t, env.db, "13800000001", "Loner", models.RoleFamilyMember)

	_, err := env.records.CreateRecord(ctx, loner, CreateRecordInput{
		Type: models.RecordTypeIncome, Category: "工资", Amount: decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, ErrNoFamily)

	_, _, err = env.records.ListRecords(ctx, loner, ListRecordsInput{})
	require.ErrorIs(t, err, ErrNoFamily)
}

func TestRecordService_FamilyIsolation(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	root := testutil.CreateUser(t, env.db, "admin", "Root", models.RoleSystemAdmin)
	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	bob := testutil.CreateUser(t, env.db, "13800000002", "Bob", models.RoleFamilyMember)
	familyA, _ := testutil.CreateFamily(t, env.db, "A", alice)
	familyB, _ := testutil.CreateFamily(t, env.db, "B", bob)

	record := testutil.CreateRecord(t, env.db, familyA.ID, alice.ID, models.RecordTypeIncome, "工资", "1000", time.Now())

	_, err := env.records.GetRecord(ctx, bob, record.ID)
	require.ErrorIs(t, err, ErrFamilyAccessDenied)
	require.ErrorIs(t, err, ErrForbidden)

	_, _, err = env.records.ListRecords(ctx, bob, ListRecordsInput{FamilyID: uint64Ptr(familyA.ID)})
	require.ErrorIs(t, err, ErrFamilyAccessDenied)

	records, total, err := env.records.ListRecords(ctx, bob, ListRecordsInput{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, records)

	loaded, err := env.records.GetRecord(ctx, root, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, loaded.ID)

	records, total, err = env.records.ListRecords(ctx, root, ListRecordsInput{FamilyID: uint64Ptr(familyA.ID)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)

	_, err = env.records.CreateRecord(ctx, alice, CreateRecordInput{
		FamilyID: uint64Ptr(familyB.ID),
		Type:     models.RecordTypeIncome,
		Category: "工资",
		Amount:   decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, ErrFamilyAccessDenied)

	_, err = env.records.GetRecord(ctx, alice, 9999)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordService_ListRecordsFilters(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	family, _ := testutil.CreateFamily(t, env.db, "Smiths", alice)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateRecord(t, env.db, family.ID, alice.ID, models.RecordTypeIncome, "工资", "5000", base)
	testutil.CreateRecord(t, env.db, family.ID, alice.ID, models.RecordTypeExpense, "餐饮", "30", base.AddDate(0, 0, 1))
	testutil.CreateRecord(t, env.db, family.ID, alice.ID, models.RecordTypeExpense, "交通", "12", base.AddDate(0, 0, 2))
	testutil.CreateRecord(t, env.db, family.ID, alice.ID, models.RecordTypeExpense, "餐饮", "45", base.AddDate(0, 1, 0))

	expense := models.RecordTypeExpense
	records, total, err := env.records.ListRecords(ctx, alice, ListRecordsInput{Type: &expense})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, records, 3)
	assert.True(t, records[0].Date.After(records[1].Date))

	records, total, err = env.records.ListRecords(ctx, alice, ListRecordsInput{Categories: []string{"餐饮", " "}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, records, 2)

	end := base.AddDate(0, 0, 2)
	records, total, err = env.records.ListRecords(ctx, alice, ListRecordsInput{StartDate: &base, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, records, 3)

	records, total, err = env.records.ListRecords(ctx, alice, ListRecordsInput{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, records, 1)
	assert.Equal(t, "工资", records[0].Category)

	invalid := models.RecordType("transfer")
	_, _, err = env.records.ListRecords(ctx, alice, ListRecordsInput{Type: &invalid})
	require.ErrorIs(t, err, ErrValidation)
}

func TestRecordService_ModifyPermissions(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	bob := testutil.CreateUser(t, env.db, "13800000002", "Bob", models.RoleFamilyMember)
	carol := testutil.CreateUser(t, env.db, "13800000003", "Carol", models.RoleFamilyMember)
	family, _ := testutil.CreateFamily(t, env.db, "Smiths", alice)
	testutil.AddMember(t, env.db, family, bob, models.RoleFamilyMember)
	testutil.AddMember(t, env.db, family, carol, models.RoleFamilyMember)

	bobRecord := testutil.CreateRecord(t, env.db, family.ID, bob.ID, models.RecordTypeExpense, "餐饮", "20", time.Now())

	note := "carol was here"
	_, err := env.records.UpdateRecord(ctx, carol, bobRecord, UpdateRecordInput{Note: &note})
	require.ErrorIs(t, err, ErrNotRecordOwner)
	require.ErrorIs(t, env.records.DeleteRecord(ctx, carol, bobRecord), ErrNotRecordOwner)

	amount := decimal.RequireFromString("25.75")
	category := "购物"
	updated, err := env.records.UpdateRecord(ctx, bob, bobRecord, UpdateRecordInput{Amount: &amount, Category: &category})
	require.NoError(t, err)
	requireDecimal(t, "25.75", updated.Amount)
	assert.Equal(t, "购物", updated.Category)

	income := models.RecordTypeIncome
	updated, err = env.records.UpdateRecord(ctx, alice, bobRecord, UpdateRecordInput{Type: &income})
	require.NoError(t, err)
	assert.Equal(t, models.RecordTypeIncome, updated.Type)

	zero := decimal.Zero
	_, err = env.records.UpdateRecord(ctx, bob, bobRecord, UpdateRecordInput{Amount: &zero})
	require.ErrorIs(t, err, ErrValidation)

	require.NoError(t, env.records.DeleteRecord(ctx, alice, bobRecord))
	_, err = env.records.GetRecord(ctx, bob, bobRecord.ID)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordService_SystemAdminUnknownFamily(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	root := testutil.CreateUser(t, env.db, "admin", "Root", models.RoleSystemAdmin)

	_, err := env.records.CreateRecord(ctx, root, CreateRecordInput{
		FamilyID: uint64Ptr(9999),
		Type:     models.RecordTypeIncome,
		Category: "工资",
		Amount:   decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, ErrFamilyNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.AccountRecord{}).Count(&count).Error)
	assert.Zero(t, count)

	_, _, err = env.records.ListRecords(ctx, root, ListRecordsInput{FamilyID: uint64Ptr(9999)})
	require.ErrorIs(t, err, ErrFamilyNotFound)

	_, err = env.statistics.Statistics(ctx, root, uint64Ptr(9999))
	require.ErrorIs(t, err, ErrFamilyNotFound)
}
