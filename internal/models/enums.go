package models

// Role is the closed set of roles a user or a membership can carry.
type Role string

const (
	RoleSystemAdmin  Role = "system_admin"
	RoleFamilyAdmin  Role = "family_admin"
	RoleFamilyMember Role = "family_member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleFamilyAdmin, RoleFamilyMember:
		return true
	default:
		return false
	}
}

// ValidMembershipRole reports whether r can be held inside a family.
// System administration is a global role and never a membership role.
func (r Role) ValidMembershipRole() bool {
	switch r {
	case RoleFamilyAdmin, RoleFamilyMember:
		return true
	case RoleSystemAdmin:
		return false
	default:
		return false
	}
}

// RecordType distinguishes income from expense.
type RecordType string

const (
	RecordTypeIncome  RecordType = "income"
	RecordTypeExpense RecordType = "expense"
)

// RecordTypes lists every record type in display order.
var RecordTypes = []RecordType{RecordTypeIncome, RecordTypeExpense}

func (t RecordType) Valid() bool {
	switch t {
	case RecordTypeIncome, RecordTypeExpense:
		return true
	default:
		return false
	}
}

// Lifecycle is the soft-delete state shared by users, families, memberships and categories.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleInactive Lifecycle = "inactive"
)
