package dto

import (
	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/services"
)

// StatisticsDTO represents family statistics
type StatisticsDTO struct {
	TotalIncome       decimal.Decimal   `json:"total_income"`
	TotalExpense      decimal.Decimal   `json:"total_expense"`
	Balance           decimal.Decimal   `json:"balance"`
	IncomeTrend       decimal.Decimal   `json:"income_trend"`
	ExpenseTrend      decimal.Decimal   `json:"expense_trend"`
	BalanceTrend      decimal.Decimal   `json:"balance_trend"`
	IncomeByCategory  []CategoryStatDTO `json:"income_by_category"`
	ExpenseByCategory []CategoryStatDTO `json:"expense_by_category"`
	TrendData         []MonthlyTrendDTO `json:"trend_data"`
	FamilyRanking     []MemberStatDTO   `json:"family_ranking"`
}

// CategoryStatDTO is one category's share of its record type
type CategoryStatDTO struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// MonthlyTrendDTO holds the totals of one month
type MonthlyTrendDTO struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// MemberStatDTO is one member's activity in the family
type MemberStatDTO struct {
	UserID      uint64          `json:"user_id"`
	Name        string          `json:"name"`
	RecordCount int64           `json:"record_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ToStatisticsDTO converts computed statistics to DTO
func ToStatisticsDTO(stats services.FamilyStatistics) StatisticsDTO {
	dto := StatisticsDTO{
		TotalIncome:       stats.TotalIncome,
		TotalExpense:      stats.TotalExpense,
		Balance:           stats.Balance,
		IncomeTrend:       stats.IncomeTrend,
		ExpenseTrend:      stats.ExpenseTrend,
		BalanceTrend:      stats.BalanceTrend,
		IncomeByCategory:  toCategoryStatDTOs(stats.IncomeByCategory),
		ExpenseByCategory: toCategoryStatDTOs(stats.ExpenseByCategory),
		TrendData:         make([]MonthlyTrendDTO, 0, len(stats.TrendData)),
		FamilyRanking:     make([]MemberStatDTO, 0, len(stats.FamilyRanking)),
	}

	for _, t := range stats.TrendData {
		dto.TrendData = append(dto.TrendData, MonthlyTrendDTO{
			Month:   t.Month,
			Income:  t.Income,
			Expense: t.Expense,
		})
	}
	for _, m := range stats.FamilyRanking {
		dto.FamilyRanking = append(dto.FamilyRanking, MemberStatDTO{
			UserID:      m.UserID,
			Name:        m.Name,
			RecordCount: m.RecordCount,
			TotalAmount: m.TotalAmount,
		})
	}
	return dto
}

func toCategoryStatDTOs(stats []services.CategoryStat) []CategoryStatDTO {
	dtos := make([]CategoryStatDTO, 0, len(stats))
	for _, s := range stats {
		dtos = append(dtos, CategoryStatDTO{
			Category:   s.Category,
			Amount:     s.Amount,
			Percentage: s.Percentage,
		})
	}
	return dtos
}
