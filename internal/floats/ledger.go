package floats

import (
	"floatflow-backend/internal/faults"
	"floatflow-backend/internal/models"
)

// A float turns "low" once its balance drops under 20% of the initial amount.
const lowBalanceRatio = 0.20

// StatusFor derives the float status from its amounts. Status is never stored
// independently of the amounts; every write path recomputes it here.
func StatusFor(initialAmount, usedAmount float64) models.FloatStatus {
	balance := initialAmount - usedAmount
	switch {
	case balance <= 0:
		return models.FloatExhausted
	case balance < initialAmount*lowBalanceRatio:
		return models.FloatLow
	default:
		return models.FloatActive
	}
}

// Recompute returns the float with balance and status re-derived from the
// amounts.
func Recompute(f models.Float) models.Float {
	f.Balance = f.InitialAmount - f.UsedAmount
	f.Status = StatusFor(f.InitialAmount, f.UsedAmount)
	return f
}

// CanAfford reports whether the float's balance covers the amount. This is an
// informational check only: submission is not hard-blocked on it unless the
// deployment opts in via config.
func CanAfford(f models.Float, amount float64) bool {
	return amount <= f.Balance
}

// Debit returns a copy of the float with the amount added to UsedAmount and
// balance/status recomputed. It fails with an OutOfRange fault if the debit
// would push UsedAmount past InitialAmount; a negative balance is never
// produced.
func Debit(f models.Float, amount float64) (models.Float, error) {
	if amount < 0 {
		return f, faults.Validation("debit amount must not be negative, got %.2f", amount)
	}
	if f.UsedAmount+amount > f.InitialAmount {
		return f, faults.OutOfRange(
			"debit of %.2f exceeds remaining balance %.2f on float %s",
			amount, f.Balance, f.Code)
	}
	f.UsedAmount += amount
	return Recompute(f), nil
}
