package report

import (
	"sort"

	"floatflow-backend/internal/models"
)

type FloatTotals struct {
	TotalFloats     int     `json:"totalFloats"`
	TotalValue      float64 `json:"totalValue"`
	TotalUsed       float64 `json:"totalUsed"`
	TotalBalance    float64 `json:"totalBalance"`
	UtilizationRate float64 `json:"utilizationRate"`
}

type CategoryStat struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
}

type LocationStat struct {
	Location string  `json:"location"`
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
}

type TrendPoint struct {
	Month string  `json:"month"` // "2006-01"
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type DashboardStats struct {
	Floats            FloatTotals    `json:"floats"`
	PendingApprovals  int            `json:"pendingApprovals"`
	PolicyViolations  int            `json:"policyViolations"`
	CategoryBreakdown []CategoryStat `json:"categoryBreakdown"`
	LocationBreakdown []LocationStat `json:"locationBreakdown"`
	MonthlyTrend      []TrendPoint   `json:"monthlyTrend"`
}

// Summarize derives dashboard statistics from a snapshot of floats and
// expenses. Read-only and recomputed on demand. Empty inputs yield zeroed
// totals and empty (non-nil) breakdowns; percentage math never divides by
// zero. Category and location keys are exact, case-sensitive strings.
func Summarize(floats []models.Float, expenses []models.Expense) DashboardStats {
	stats := DashboardStats{
		CategoryBreakdown: []CategoryStat{},
		LocationBreakdown: []LocationStat{},
		MonthlyTrend:      []TrendPoint{},
	}

	for _, f := range floats {
		if !f.IsActive {
			continue
		}
		stats.Floats.TotalFloats++
		stats.Floats.TotalValue += f.InitialAmount
		stats.Floats.TotalUsed += f.UsedAmount
		stats.Floats.TotalBalance += f.Balance
	}
	stats.Floats.UtilizationRate = UtilizationRate(stats.Floats.TotalUsed, stats.Floats.TotalValue)

	byCategory := map[string]*CategoryStat{}
	byLocation := map[string]*LocationStat{}
	byMonth := map[string]*TrendPoint{}

	for i := range expenses {
		e := &expenses[i]

		if e.Status == models.ExpensePending {
			stats.PendingApprovals++
		}
		if e.PolicyViolation {
			stats.PolicyViolations++
		}

		// Breakdown sums only count committed spend.
		if e.Status != models.ExpenseApproved && e.Status != models.ExpensePaid {
			continue
		}
		base := e.BaseAmount()

		cs, ok := byCategory[e.Category]
		if !ok {
			cs = &CategoryStat{Category: e.Category}
			byCategory[e.Category] = cs
		}
		cs.Count++
		cs.Total += base

		ls, ok := byLocation[e.Location]
		if !ok {
			ls = &LocationStat{Location: e.Location}
			byLocation[e.Location] = ls
		}
		ls.Count++
		ls.Total += base

		month := e.Date.Format("2006-01")
		tp, ok := byMonth[month]
		if !ok {
			tp = &TrendPoint{Month: month}
			byMonth[month] = tp
		}
		tp.Count++
		tp.Total += base
	}

	for _, cs := range byCategory {
		stats.CategoryBreakdown = append(stats.CategoryBreakdown, *cs)
	}
	sort.Slice(stats.CategoryBreakdown, func(i, j int) bool {
		return stats.CategoryBreakdown[i].Category < stats.CategoryBreakdown[j].Category
	})

	for _, ls := range byLocation {
		stats.LocationBreakdown = append(stats.LocationBreakdown, *ls)
	}
	sort.Slice(stats.LocationBreakdown, func(i, j int) bool {
		return stats.LocationBreakdown[i].Location < stats.LocationBreakdown[j].Location
	})

	for _, tp := range byMonth {
		stats.MonthlyTrend = append(stats.MonthlyTrend, *tp)
	}
	sort.Slice(stats.MonthlyTrend, func(i, j int) bool {
		return stats.MonthlyTrend[i].Month < stats.MonthlyTrend[j].Month
	})

	return stats
}

// UtilizationRate is the used/initial percentage, 0 when initial is 0.
func UtilizationRate(used, initial float64) float64 {
	if initial <= 0 {
		return 0
	}
	return used / initial * 100
}
