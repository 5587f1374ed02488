package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/services"
)

// SystemStatsDTO represents global counters
type SystemStatsDTO struct {
	TotalUsers    int64           `json:"total_users"`
	TotalFamilies int64           `json:"total_families"`
	TotalRecords  int64           `json:"total_records"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// DataExportDTO is a full snapshot of the ledger
type DataExportDTO struct {
	ExportedAt time.Time         `json:"exported_at"`
	Users      []UserDTO         `json:"users"`
	Families   []FamilyDTO       `json:"families"`
	Members    []FamilyMemberDTO `json:"members"`
	Categories []CategoryDTO     `json:"categories"`
	Records    []RecordDTO       `json:"records"`
}

// ToSystemStatsDTO converts system stats to DTO
func ToSystemStatsDTO(stats services.SystemStats) SystemStatsDTO {
	return SystemStatsDTO{
		TotalUsers:    stats.TotalUsers,
		TotalFamilies: stats.TotalFamilies,
		TotalRecords:  stats.TotalRecords,
		TotalAmount:   stats.TotalAmount,
	}
}

// ToDataExportDTO converts an export snapshot to DTO
func ToDataExportDTO(export services.DataExport) DataExportDTO {
	return DataExportDTO{
		ExportedAt: export.ExportedAt,
		Users:      ToUserDTOs(export.Users),
		Families:   ToFamilyDTOs(export.Families),
		Members:    ToFamilyMemberDTOs(export.Members),
		Categories: ToCategoryDTOs(export.Categories),
		Records:    ToRecordDTOs(export.Records),
	}
}
