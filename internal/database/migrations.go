package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

type indexDef struct {
	table   string
	name    string
	columns string
	unique  bool
	// where makes the index partial; skipped on dialects without partial indexes.
	where string
}

var indexes = []indexDef{
	// Record filtering and sorting
	{table: "account_records", name: "idx_records_family_date", columns: "family_id, record_date"},
	{table: "account_records", name: "idx_records_family_type_category", columns: "family_id, type, category"},

	// Membership lookups
	{table: "family_members", name: "idx_family_members_family_status", columns: "family_id, status"},
	{table: "family_members", name: "ux_family_members_active_user", columns: "user_id", unique: true, where: "status = 'active'"},

	// Category lookups and uniqueness among active rows
	{table: "categories", name: "idx_categories_family_type", columns: "family_id, type"},
	{table: "categories", name: "ux_categories_active_name", columns: "family_id, name, type", unique: true, where: "status = 'active'"},
}

// AddIndexes adds composite and partial unique indexes that struct tags cannot describe portably.
func AddIndexes(db *gorm.DB) error {
	partialSupported := supportsPartialIndexes(db)

	for _, idx := range indexes {
		if idx.where != "" && !partialSupported {
			slog.Warn("Partial indexes unsupported, relying on service checks",
				"index", idx.name, "dialect", db.Dialector.Name())
			continue
		}

		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		if err := db.Exec(createIndexSQL(idx)).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		slog.Info("Created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}

func createIndexSQL(idx indexDef) string {
	kind := "INDEX"
	if idx.unique {
		kind = "UNIQUE INDEX"
	}
	sql := fmt.Sprintf("CREATE %s %s ON %s (%s)", kind, idx.name, idx.table, idx.columns)
	if idx.where != "" {
		sql += " WHERE " + idx.where
	}
	return sql
}

func supportsPartialIndexes(db *gorm.DB) bool {
	switch db.Dialector.Name() {
	case "postgres", "sqlite":
		return true
	default:
		return false
	}
}
