package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/testutil"
)

func TestFamilyService_CreateFamily(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)

	family, err := env.families.CreateFamily(ctx, alice, CreateFamilyInput{Name: " Smiths ", Description: "home"})
	require.NoError(t, err)
	assert.Equal(t, "Smiths", family.Name)
	assert.Equal(t, alice.ID, family.CreatedBy)

	member, err := env.membership.ActiveFamilyOf(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, family.ID, member.FamilyID)
	assert.True(t, member.IsAdmin())

	_, err = env.families.CreateFamily(ctx, alice, CreateFamilyInput{Name: "Second"})
	require.ErrorIs(t, err, ErrAlreadyInFamily)

	_, err = env.families.CreateFamily(ctx, alice, CreateFamilyInput{Name: ""})
	require.ErrorIs(t, err, ErrValidation)
}

func TestFamilyService_QuickCreateFamily(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)

	family, err := env.families.QuickCreateFamily(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice的家庭", family.Name)
	assert.Equal(t, "Alice创建的家庭", family.Description)

	got, members, err := env.families.MyFamily(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, family.ID, got.ID)
	require.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].User.Name)
}

func TestFamilyService_MyFamilyWithoutFamily(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	loner := testutil.CreateUser(t, env.db, "13800000001", "Loner", models.RoleFamilyMember)

	_, _, err := env.families.MyFamily(ctx, loner)
	require.ErrorIs(t, err, ErrNoFamily)

	members, err := env.families.ListMyFamilyMembers(ctx, loner)
	require.NoError(t, err)
	assert.Empty(t, members)
	assert.NotNil(t, members)
}

func TestFamilyService_AddMember(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	bob := testutil.CreateUser(t, env.db, "13800000002", "Bob", models.RoleFamilyMember)
	carol := testutil.CreateUser(t, env.db, "13800000003", "Carol", models.RoleFamilyMember)
	family, _ := testutil.CreateFamily(t, env.db, "Smiths", alice)

	member, err := env.families.AddMember(ctx, alice, AddMemberInput{Phone: bob.Phone})
	require.NoError(t, err)
	assert.Equal(t, family.ID, member.FamilyID)
	assert.Equal(t, models.RoleFamilyMember, member.Role)
	assert.Equal(t, "Bob", member.User.Name)
	assert.Equal(t, "Smiths", member.Family.Name)

	_, err = env.families.AddMember(ctx, alice, AddMemberInput{UserID: bob.ID})
	require.ErrorIs(t, err, ErrAlreadyInFamily)

	// Plain members cannot add others.
	_, err = env.families.AddMember(ctx, bob, AddMemberInput{UserID: carol.ID})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = env.families.AddMember(ctx, alice, AddMemberInput{Phone: "13899999999"})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.families.AddMember(ctx, alice, AddMemberInput{UserID: carol.ID, Role: models.RoleSystemAdmin})
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.families.AddMember(ctx, alice, AddMemberInput{})
	require.ErrorIs(t, err, ErrValidation)

	members, err := env.families.ListMyFamilyMembers(ctx, bob)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Smiths", members[0].Family.Name)
}

func TestFamilyService_AddMemberAcrossFamilies(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	root := testutil.CreateUser(t, env.db, "admin", "Root", models.RoleSystemAdmin)
	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	bob := testutil.CreateUser(t, env.db, "13800000002", "Bob", models.RoleFamilyMember)
	carol := testutil.CreateUser(t, env.db, "13800000003", "Carol", models.RoleFamilyMember)
	familyA, _ := testutil.CreateFamily(t, env.db, "A", alice)
	familyB, _ := testutil.CreateFamily(t, env.db, "B", bob)

	_, err := env.families.AddMember(ctx, alice, AddMemberInput{FamilyID: uint64Ptr(familyB.ID), UserID: carol.ID})
	require.ErrorIs(t, err, ErrFamilyAccessDenied)

	member, err := env.families.AddMember(ctx, root, AddMemberInput{FamilyID: uint64Ptr(familyB.ID), UserID: carol.ID})
	require.NoError(t, err)
	assert.Equal(t, familyB.ID, member.FamilyID)
	assert.NotEqual(t, familyA.ID, member.FamilyID)
}

func TestFamilyService_RemoveMember(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	bob := testutil.CreateUser(t, env.db, "13800000002", "Bob", models.RoleFamilyMember)
	dave := testutil.CreateUser(t, env.db, "13800000004", "Dave", models.RoleFamilyMember)
	family, aliceMember := testutil.CreateFamily(t, env.db, "Smiths", alice)
	bobMember := testutil.AddMember(t, env.db, family, bob, models.RoleFamilyMember)
	testutil.CreateFamily(t, env.db, "Others", dave)

	require.ErrorIs(t, env.families.RemoveMember(ctx, alice, aliceMember.ID), ErrCannotRemoveSelf)
	require.ErrorIs(t, env.families.RemoveMember(ctx, bob, aliceMember.ID), ErrNotFamilyAdmin)
	require.ErrorIs(t, env.families.RemoveMember(ctx, dave, bobMember.ID), ErrFamilyAccessDenied)
	require.ErrorIs(t, env.families.RemoveMember(ctx, alice, 9999), ErrMemberNotFound)

	require.NoError(t, env.families.RemoveMember(ctx, alice, bobMember.ID))

	_, err := env.membership.ActiveFamilyOf(ctx, bob.ID)
	require.ErrorIs(t, err, ErrNoFamily)

	// Removing twice is a not found.
	require.ErrorIs(t, env.families.RemoveMember(ctx, alice, bobMember.ID), ErrMemberNotFound)

	// A removed member may found a new family.
	_, err = env.families.CreateFamily(ctx, bob, CreateFamilyInput{Name: "Bobs"})
	require.NoError(t, err)
}

func TestFamilyService_RemoveSystemAdminMember(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	root := testutil.CreateUser(t, env.db, "admin", "Root", models.RoleSystemAdmin)
	family, _ := testutil.CreateFamily(t, env.db, "Smiths", alice)
	rootMember := testutil.AddMember(t, env.db, family, root, models.RoleFamilyMember)

	require.ErrorIs(t, env.families.RemoveMember(ctx, alice, rootMember.ID), ErrCannotRemoveAdmin)
}

func TestFamilyService_GetAndUpdateFamily(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	root := testutil.CreateUser(t, env.db, "admin", "Root", models.RoleSystemAdmin)
	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	bob := testutil.CreateUser(t, env.db, "13800000002", "Bob", models.RoleFamilyMember)
	carol := testutil.CreateUser(t, env.db, "13800000003", "Carol", models.RoleFamilyMember)
	familyA, _ := testutil.CreateFamily(t, env.db, "A", alice)
	testutil.AddMember(t, env.db, familyA, carol, models.RoleFamilyMember)
	testutil.CreateFamily(t, env.db, "B", bob)

	_, _, err := env.families.GetFamily(ctx, bob, familyA.ID)
	require.ErrorIs(t, err, ErrFamilyAccessDenied)

	family, members, err := env.families.GetFamily(ctx, root, familyA.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", family.Name)
	assert.Len(t, members, 2)

	_, _, err = env.families.GetFamily(ctx, root, 9999)
	require.ErrorIs(t, err, ErrFamilyNotFound)

	name := "A renamed"
	_, err = env.families.UpdateFamily(ctx, carol, familyA.ID, UpdateFamilyInput{Name: &name})
	require.ErrorIs(t, err, ErrNotFamilyAdmin)

	updated, err := env.families.UpdateFamily(ctx, alice, familyA.ID, UpdateFamilyInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "A renamed", updated.Name)

	blank := " "
	_, err = env.families.UpdateFamily(ctx, alice, familyA.ID, UpdateFamilyInput{Name: &blank})
	require.ErrorIs(t, err, ErrValidation)
}

func TestFamilyService_CleanupTestMembers(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	tester := testutil.CreateUser(t, env.db, "test-13800000009", "Tester", models.RoleFamilyMember)
	family, _ := testutil.CreateFamily(t, env.db, "Smiths", alice)
	member := testutil.AddMember(t, env.db, family, tester, models.RoleFamilyMember)
	require.NoError(t, env.families.RemoveMember(ctx, alice, member.ID))

	_, err := env.families.CleanupTestMembers(ctx, tester)
	require.ErrorIs(t, err, ErrForbidden)

	deleted, err := env.families.CleanupTestMembers(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining int64
	require.NoError(t, env.db.Model(&models.FamilyMember{}).Where("user_id = ?", tester.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
