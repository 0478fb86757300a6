package report

import (
	"fmt"
	"time"

	"floatflow-backend/internal/auth"
	"floatflow-backend/internal/authz"
	"floatflow-backend/internal/database"
	"floatflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/reports/dashboard - summary statistics over the snapshot the
// caller's role may see. Branch actors get their location; everyone else the
// whole data set.
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		floatRows, expenseRows, err := loadSnapshot(actor)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load report data")
		}

		stats := Summarize(floatRows, expenseRows)

		// Last five submissions.
		recent := make([]fiber.Map, 0, 5)
		for i := 0; i < len(expenseRows) && i < 5; i++ {
			e := expenseRows[i]
			recent = append(recent, fiber.Map{
				"code":        e.Code,
				"date":        e.Date.Format("2006-01-02"),
				"description": e.Description,
				"amount":      e.Amount,
				"currency":    e.Currency,
				"status":      e.Status,
			})
		}

		return c.JSON(fiber.Map{
			"stats":          stats,
			"recentExpenses": recent,
		})
	}
}

type expenseReportRow struct {
	Code         string  `json:"code"`
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	ExchangeRate float64 `json:"exchange_rate"`
	AmountKES    float64 `json:"amount_kes"`
	FloatCode    string  `json:"float_code"`
	Location     string  `json:"location"`
	Status       string  `json:"status"`
}

// GET /api/reports/expenses?start_date=&end_date=&category=&location=&status=
func ExpenseReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		rows, err := queryExpenseReport(c, actor)
		if err != nil {
			return err
		}

		report := make([]expenseReportRow, 0, len(rows))
		var total float64
		for _, e := range rows {
			kes := e.BaseAmount()
			total += kes
			report = append(report, expenseReportRow{
				Code:         e.Code,
				Date:         e.Date.Format("2006-01-02"),
				Description:  e.Description,
				Category:     e.Category,
				Amount:       e.Amount,
				Currency:     e.Currency,
				ExchangeRate: e.ExchangeRate,
				AmountKES:    kes,
				FloatCode:    e.Float.Code,
				Location:     e.Location,
				Status:       string(e.Status),
			})
		}

		return c.JSON(fiber.Map{
			"expenses": report,
			"summary": fiber.Map{
				"totalExpenses": len(report),
				"totalAmount":   total,
				"currency":      "KES",
			},
		})
	}
}

// GET /api/reports/expenses/export - same filters as the JSON report, as XLSX.
func ExpenseReportExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		rows, err := queryExpenseReport(c, actor)
		if err != nil {
			return err
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := "Expenses"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Code", "Date", "Description", "Category", "Amount", "Currency", "Exchange Rate", "Amount (KES)", "Float", "Location", "Status"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		var total float64
		for r, e := range rows {
			kes := e.BaseAmount()
			total += kes
			values := []interface{}{
				e.Code, e.Date.Format("2006-01-02"), e.Description, e.Category,
				e.Amount, e.Currency, e.ExchangeRate, kes, e.Float.Code, e.Location, string(e.Status),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				f.SetCellValue(sheet, cell, v)
			}
		}
		totalCell, _ := excelize.CoordinatesToCellName(8, len(rows)+3)
		labelCell, _ := excelize.CoordinatesToCellName(7, len(rows)+3)
		f.SetCellValue(sheet, labelCell, "Total (KES)")
		f.SetCellValue(sheet, totalCell, total)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
		}

		filename := fmt.Sprintf("expense-report-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(buf.Bytes())
	}
}

type floatReportRow struct {
	Code            string  `json:"code"`
	Description     string  `json:"description"`
	Location        string  `json:"location"`
	InitialAmount   float64 `json:"initial_amount"`
	UsedAmount      float64 `json:"used_amount"`
	Balance         float64 `json:"balance"`
	Status          string  `json:"status"`
	ExpenseCount    int     `json:"expense_count"`
	TotalExpenses   float64 `json:"total_expenses"`
	UtilizationRate float64 `json:"utilization_rate"`
}

// GET /api/reports/floats
func FloatReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		floatRows, expenseRows, err := loadSnapshot(actor)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load report data")
		}

		counts := map[uint]int{}
		totals := map[uint]float64{}
		for _, e := range expenseRows {
			counts[e.FloatID]++
			if e.Status == models.ExpenseApproved || e.Status == models.ExpensePaid {
				totals[e.FloatID] += e.BaseAmount()
			}
		}

		report := make([]floatReportRow, 0, len(floatRows))
		var totalInitial, totalUsed, totalBalance float64
		for _, f := range floatRows {
			totalInitial += f.InitialAmount
			totalUsed += f.UsedAmount
			totalBalance += f.Balance
			report = append(report, floatReportRow{
				Code:            f.Code,
				Description:     f.Description,
				Location:        f.Location,
				InitialAmount:   f.InitialAmount,
				UsedAmount:      f.UsedAmount,
				Balance:         f.Balance,
				Status:          string(f.Status),
				ExpenseCount:    counts[f.ID],
				TotalExpenses:   totals[f.ID],
				UtilizationRate: UtilizationRate(f.UsedAmount, f.InitialAmount),
			})
		}

		return c.JSON(fiber.Map{
			"floats": report,
			"summary": fiber.Map{
				"totalFloats":            len(report),
				"totalInitialAmount":     totalInitial,
				"totalUsedAmount":        totalUsed,
				"totalBalance":           totalBalance,
				"overallUtilizationRate": UtilizationRate(totalUsed, totalInitial),
			},
		})
	}
}

func loadSnapshot(actor models.Actor) ([]models.Float, []models.Expense, error) {
	floatQ := database.DB.Model(&models.Float{}).Where("is_active = ?", true)
	expenseQ := database.DB.Model(&models.Expense{}).Preload("Float")
	if loc := authz.VisibleLocation(actor); loc != "" {
		floatQ = floatQ.Where("location = ?", loc)
		expenseQ = expenseQ.Where("location = ?", loc)
	}

	var floatRows []models.Float
	if err := floatQ.Order("created_at DESC").Find(&floatRows).Error; err != nil {
		return nil, nil, err
	}
	var expenseRows []models.Expense
	if err := expenseQ.Order("created_at DESC").Find(&expenseRows).Error; err != nil {
		return nil, nil, err
	}
	return floatRows, expenseRows, nil
}

func queryExpenseReport(c *fiber.Ctx, actor models.Actor) ([]models.Expense, error) {
	dbq := database.DB.Model(&models.Expense{}).Preload("Float")

	if loc := authz.VisibleLocation(actor); loc != "" {
		dbq = dbq.Where("location = ?", loc)
	} else if loc := c.Query("location"); loc != "" {
		dbq = dbq.Where("location = ?", loc)
	}

	if s := c.Query("start_date"); s != "" {
		from, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "start_date must be 'YYYY-MM-DD'")
		}
		dbq = dbq.Where("date >= ?", from)
	}
	if s := c.Query("end_date"); s != "" {
		to, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "end_date must be 'YYYY-MM-DD'")
		}
		dbq = dbq.Where("date <= ?", to)
	}
	if cat := c.Query("category"); cat != "" {
		dbq = dbq.Where("category = ?", cat)
	}
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}

	var rows []models.Expense
	if err := dbq.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not generate report")
	}
	return rows, nil
}
