package floats

import (
	"testing"

	"floatflow-backend/internal/faults"
	"floatflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFloat(initial, used float64) models.Float {
	return Recompute(models.Float{
		Code:          "FLT-NBO-01",
		Location:      "ENGINEERING INSTALLATIONS - NAIROBI",
		Currency:      "KES",
		InitialAmount: initial,
		UsedAmount:    used,
		IsActive:      true,
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name    string
		initial float64
		used    float64
		want    models.FloatStatus
	}{
		{"untouched", 50000, 0, models.FloatActive},
		{"36 percent remaining", 50000, 32000, models.FloatActive},
		{"exactly 20 percent remaining", 50000, 40000, models.FloatActive},
		{"just under 20 percent", 50000, 40001, models.FloatLow},
		{"2 percent remaining", 50000, 49000, models.FloatLow},
		{"zero balance", 50000, 50000, models.FloatExhausted},
		{"zero initial amount", 0, 0, models.FloatExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.initial, tt.used))
		})
	}
}

func TestRecompute_DerivesBalanceAndStatus(t *testing.T) {
	f := testFloat(50000, 32000)

	assert.Equal(t, 18000.0, f.Balance)
	assert.Equal(t, models.FloatActive, f.Status)
}

func TestDebit_MovesToLow(t *testing.T) {
	f := testFloat(50000, 32000)

	got, err := Debit(f, 17000)

	require.NoError(t, err)
	assert.Equal(t, 49000.0, got.UsedAmount)
	assert.Equal(t, 1000.0, got.Balance)
	assert.Equal(t, models.FloatLow, got.Status)
	// Original value untouched.
	assert.Equal(t, 32000.0, f.UsedAmount)
}

func TestDebit_ToExactlyZeroIsExhausted(t *testing.T) {
	f := testFloat(50000, 32000)

	got, err := Debit(f, 18000)

	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Balance)
	assert.Equal(t, models.FloatExhausted, got.Status)
}

func TestDebit_OverdraftFailsOutOfRange(t *testing.T) {
	f := testFloat(50000, 32000)

	_, err := Debit(f, 18001)

	require.Error(t, err)
	kind, ok := faults.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, faults.KindOutOfRange, kind)
	assert.Contains(t, err.Error(), "FLT-NBO-01")
}

func TestDebit_NegativeAmountFailsValidation(t *testing.T) {
	f := testFloat(50000, 0)

	_, err := Debit(f, -1)

	require.Error(t, err)
	kind, _ := faults.KindOf(err)
	assert.Equal(t, faults.KindValidation, kind)
}

func TestDebit_BalanceInvariantHolds(t *testing.T) {
	f := testFloat(10000, 0)
	for _, amount := range []float64{2500, 2500, 2500, 2500} {
		var err error
		f, err = Debit(f, amount)
		require.NoError(t, err)
		assert.Equal(t, f.InitialAmount-f.UsedAmount, f.Balance)
		assert.GreaterOrEqual(t, f.Balance, 0.0)
	}
	assert.Equal(t, models.FloatExhausted, f.Status)
}

func TestCanAfford(t *testing.T) {
	f := testFloat(50000, 32000)

	assert.True(t, CanAfford(f, 18000))
	assert.False(t, CanAfford(f, 18001))
}
