package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/constants"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// FamilyStatistics aggregates a family's records.
type FamilyStatistics struct {
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	Balance           decimal.Decimal
	IncomeTrend       decimal.Decimal
	ExpenseTrend      decimal.Decimal
	BalanceTrend      decimal.Decimal
	IncomeByCategory  []CategoryStat
	ExpenseByCategory []CategoryStat
	TrendData         []MonthlyTrend
	FamilyRanking     []MemberStat
}

// CategoryStat is one category's share of its record type.
type CategoryStat struct {
	Category   string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// MonthlyTrend holds one calendar month's totals. Month is formatted YYYY-MM.
type MonthlyTrend struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// MemberStat is one member's activity in the family.
type MemberStat struct {
	UserID      uint64
	Name        string
	RecordCount int64
	TotalAmount decimal.Decimal
}

// StatisticsService computes family statistics.
type StatisticsService struct {
	statsRepo  repository.StatisticsRepository
	membership *MembershipService
	now        func() time.Time
}

// NewStatisticsService creates a new StatisticsService.
func NewStatisticsService(statsRepo repository.StatisticsRepository, membership *MembershipService) *StatisticsService {
	return &StatisticsService{
		statsRepo:  statsRepo,
		membership: membership,
		now:        time.Now,
	}
}

// WithClock replaces the time source that anchors the monthly trend.
func (s *StatisticsService) WithClock(now func() time.Time) *StatisticsService {
	s.now = now
	return s
}

// Statistics returns statistics for the caller's family. System admins may name any family.
func (s *StatisticsService) Statistics(ctx context.Context, user *models.User, familyID *uint64) (*FamilyStatistics, error) {
	resolved, err := s.membership.ResolveFamilyID(ctx, user, familyID)
	if err != nil {
		return nil, err
	}
	return s.FamilyStatistics(ctx, resolved, s.now())
}

// FamilyStatistics computes totals, category breakdowns, a monthly trend ending
// at now's month and the member ranking.
func (s *StatisticsService) FamilyStatistics(ctx context.Context, familyID uint64, now time.Time) (*FamilyStatistics, error) {
	totals, err := s.statsRepo.TotalsByType(ctx, familyID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sum records: %w", err)
	}
	income, expense := splitTotals(totals)

	stats := &FamilyStatistics{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}

	if stats.IncomeByCategory, err = s.categoryStats(ctx, familyID, models.RecordTypeIncome, income); err != nil {
		return nil, err
	}
	if stats.ExpenseByCategory, err = s.categoryStats(ctx, familyID, models.RecordTypeExpense, expense); err != nil {
		return nil, err
	}

	if stats.TrendData, err = s.monthlyTrend(ctx, familyID, now); err != nil {
		return nil, err
	}
	current := stats.TrendData[len(stats.TrendData)-1]
	previous := stats.TrendData[len(stats.TrendData)-2]
	stats.IncomeTrend = percentChange(current.Income, previous.Income)
	stats.ExpenseTrend = percentChange(current.Expense, previous.Expense)
	stats.BalanceTrend = percentChange(current.Income.Sub(current.Expense), previous.Income.Sub(previous.Expense))

	ranks, err := s.statsRepo.MemberRanking(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to rank members: %w", err)
	}
	stats.FamilyRanking = make([]MemberStat, 0, len(ranks))
	for _, rank := range ranks {
		stats.FamilyRanking = append(stats.FamilyRanking, MemberStat{
			UserID:      rank.UserID,
			Name:        rank.Name,
			RecordCount: rank.RecordCount,
			TotalAmount: rank.TotalAmount.Round(2),
		})
	}

	return stats, nil
}

func (s *StatisticsService) categoryStats(ctx context.Context, familyID uint64, recordType models.RecordType, typeTotal decimal.Decimal) ([]CategoryStat, error) {
	totals, err := s.statsRepo.CategoryTotals(ctx, familyID, recordType)
	if err != nil {
		return nil, fmt.Errorf("failed to sum %s categories: %w", recordType, err)
	}

	result := make([]CategoryStat, 0, len(totals))
	for _, total := range totals {
		percentage := decimal.Zero
		if typeTotal.IsPositive() {
			percentage = total.Total.Div(typeTotal).Mul(hundred).Round(2)
		}
		result = append(result, CategoryStat{
			Category:   total.Category,
			Amount:     total.Total.Round(2),
			Percentage: percentage,
		})
	}
	return result, nil
}

// monthlyTrend sums each of the last TrendMonths calendar months in UTC using
// half-open [start, nextStart) windows.
func (s *StatisticsService) monthlyTrend(ctx context.Context, familyID uint64, now time.Time) ([]MonthlyTrend, error) {
	now = now.UTC()
	trend := make([]MonthlyTrend, 0, constants.TrendMonths)

	for i := constants.TrendMonths - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)

		totals, err := s.statsRepo.TotalsByType(ctx, familyID, &start, &end)
		if err != nil {
			return nil, fmt.Errorf("failed to sum month %s: %w", start.Format("2006-01"), err)
		}
		income, expense := splitTotals(totals)

		trend = append(trend, MonthlyTrend{
			Month:   start.Format("2006-01"),
			Income:  income,
			Expense: expense,
		})
	}
	return trend, nil
}

func splitTotals(totals []repository.TypeTotal) (income, expense decimal.Decimal) {
	for _, total := range totals {
		switch total.Type {
		case models.RecordTypeIncome:
			income = income.Add(total.Total)
		case models.RecordTypeExpense:
			expense = expense.Add(total.Total)
		}
	}
	return income.Round(2), expense.Round(2)
}

// percentChange is (current - previous) / |previous| * 100, or 0 without a baseline.
func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(hundred).Round(2)
}
