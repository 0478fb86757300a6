package expense

import (
	"testing"
	"time"

	"floatflow-backend/internal/faults"
	"floatflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	nairobi = "ENGINEERING INSTALLATIONS - NAIROBI"
	mombasa = "ENGINEERING INSTALLATIONS - MOMBASA"
)

var now = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

func branchActor(location string) models.Actor {
	return models.Actor{ID: 3, Role: models.RoleBranch, BranchLocation: location, FullName: "Branch Manager"}
}

func financeActor() models.Actor {
	return models.Actor{ID: 4, Role: models.RoleFinance, FullName: "Finance Officer"}
}

func adminActor() models.Actor {
	return models.Actor{ID: 1, Role: models.RoleAdmin, FullName: "Head Admin"}
}

func newCandidate() models.Expense {
	return models.Expense{
		Date:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:  "Taxi to site",
		Category:     "Travel",
		Amount:       1200,
		Currency:     "USD",
		ExchangeRate: 150,
		FloatID:      1,
		Location:     nairobi,
	}
}

func pendingExpense() models.Expense {
	e := newCandidate()
	e.ID = 10
	e.Code = "EXP010"
	e.Status = models.ExpensePending
	e.SubmittedBy = 3
	return e
}

func requireKind(t *testing.T, err error, want faults.Kind) {
	t.Helper()
	require.Error(t, err)
	kind, ok := faults.KindOf(err)
	require.True(t, ok, "error is not a fault: %v", err)
	assert.Equal(t, want, kind)
}

func TestSubmit_EntersPending(t *testing.T) {
	got, err := Submit(newCandidate(), branchActor(nairobi), nil, now)

	require.NoError(t, err)
	assert.Equal(t, models.ExpensePending, got.Status)
	assert.Equal(t, uint(3), got.SubmittedBy)
	assert.Nil(t, got.ApprovedBy)
}

func TestSubmit_PolicyViolationIsAttachedNotBlocking(t *testing.T) {
	cap := 1000.0
	policies := []models.Policy{{
		Name: "Travel Policy", Category: "Travel", AmountLimit: &cap, Currency: "KES", IsActive: true,
	}}

	got, err := Submit(newCandidate(), branchActor(nairobi), policies, now)

	require.NoError(t, err)
	assert.Equal(t, models.ExpensePending, got.Status)
	assert.True(t, got.PolicyViolation)
	assert.Contains(t, got.ViolationReason, "Travel Policy")
}

func TestSubmit_AdminEntersApprovedWithApproverRecorded(t *testing.T) {
	got, err := Submit(newCandidate(), adminActor(), nil, now)

	require.NoError(t, err)
	assert.Equal(t, models.ExpenseApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, uint(1), *got.ApprovedBy)
	require.NotNil(t, got.ApprovedAt)
	assert.Equal(t, now, *got.ApprovedAt)
}

func TestSubmit_AuditorDenied(t *testing.T) {
	auditor := models.Actor{ID: 9, Role: models.RoleAuditor}

	_, err := Submit(newCandidate(), auditor, nil, now)

	requireKind(t, err, faults.KindUnauthorized)
}

func TestSubmit_BranchCannotSubmitForOtherLocation(t *testing.T) {
	_, err := Submit(newCandidate(), branchActor(mombasa), nil, now)

	requireKind(t, err, faults.KindUnauthorized)
}

func TestSubmit_DefaultsExchangeRateAndCurrency(t *testing.T) {
	c := newCandidate()
	c.Currency = ""
	c.ExchangeRate = 0

	got, err := Submit(c, financeActor(), nil, now)

	require.NoError(t, err)
	assert.Equal(t, 1.0, got.ExchangeRate)
	assert.Equal(t, "KES", got.Currency)
}

func TestSubmit_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Expense)
	}{
		{"empty description", func(e *models.Expense) { e.Description = " " }},
		{"empty category", func(e *models.Expense) { e.Category = "" }},
		{"zero amount", func(e *models.Expense) { e.Amount = 0 }},
		{"negative amount", func(e *models.Expense) { e.Amount = -5 }},
		{"negative exchange rate", func(e *models.Expense) { e.ExchangeRate = -1 }},
		{"missing float", func(e *models.Expense) { e.FloatID = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCandidate()
			tt.mutate(&c)
			_, err := Submit(c, financeActor(), nil, now)
			requireKind(t, err, faults.KindValidation)
		})
	}
}

func TestApprove_FromPending(t *testing.T) {
	got, err := Approve(pendingExpense(), financeActor(), now)

	require.NoError(t, err)
	assert.Equal(t, models.ExpenseApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, uint(4), *got.ApprovedBy)
}

func TestApprove_CrossLocationBranchUnauthorized(t *testing.T) {
	_, err := Approve(pendingExpense(), branchActor(mombasa), now)

	requireKind(t, err, faults.KindUnauthorized)
}

func TestApprove_AlreadyApprovedIsInvalidTransition(t *testing.T) {
	e := pendingExpense()
	e.Status = models.ExpenseApproved

	_, err := Approve(e, financeActor(), now)

	requireKind(t, err, faults.KindInvalidTransition)
	assert.Contains(t, err.Error(), "approved")
}

func TestApprove_TerminalStatesStayTerminal(t *testing.T) {
	for _, status := range []models.ExpenseStatus{models.ExpenseRejected, models.ExpensePaid} {
		e := pendingExpense()
		e.Status = status
		_, err := Approve(e, adminActor(), now)
		requireKind(t, err, faults.KindInvalidTransition)
	}
}

func TestReject_RequiresReason(t *testing.T) {
	e := pendingExpense()

	_, err := Reject(e, financeActor(), "   ", now)

	requireKind(t, err, faults.KindValidation)
	// The caller's copy is untouched; nothing is persisted on failure.
	assert.Equal(t, models.ExpensePending, e.Status)
}

func TestReject_FromPending(t *testing.T) {
	got, err := Reject(pendingExpense(), branchActor(nairobi), "duplicate claim", now)

	require.NoError(t, err)
	assert.Equal(t, models.ExpenseRejected, got.Status)
	assert.Equal(t, "duplicate claim", got.RejectionReason)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, uint(3), *got.ApprovedBy)
}

func TestReject_NonPendingIsInvalidTransition(t *testing.T) {
	e := pendingExpense()
	e.Status = models.ExpenseApproved

	_, err := Reject(e, financeActor(), "too late", now)

	requireKind(t, err, faults.KindInvalidTransition)
}

func TestMarkPaid_FromApproved(t *testing.T) {
	e := pendingExpense()
	e.Status = models.ExpenseApproved

	got, err := MarkPaid(e, financeActor(), now)

	require.NoError(t, err)
	assert.Equal(t, models.ExpensePaid, got.Status)
	require.NotNil(t, got.PaidBy)
	assert.Equal(t, uint(4), *got.PaidBy)
}

func TestMarkPaid_OnPendingNamesBothStates(t *testing.T) {
	_, err := MarkPaid(pendingExpense(), financeActor(), now)

	requireKind(t, err, faults.KindInvalidTransition)
	assert.Contains(t, err.Error(), "pending")
	assert.Contains(t, err.Error(), "paid")
}

func TestMarkPaid_BranchDenied(t *testing.T) {
	e := pendingExpense()
	e.Status = models.ExpenseApproved

	_, err := MarkPaid(e, branchActor(nairobi), now)

	requireKind(t, err, faults.KindUnauthorized)
}

// No path ever revisits pending: every transition out of a non-pending state
// either fails or moves forward to paid.
func TestLifecycle_StatusSequence(t *testing.T) {
	submitted, err := Submit(newCandidate(), branchActor(nairobi), nil, now)
	require.NoError(t, err)

	approved, err := Approve(submitted, financeActor(), now)
	require.NoError(t, err)

	paid, err := MarkPaid(approved, financeActor(), now)
	require.NoError(t, err)
	assert.Equal(t, models.ExpensePaid, paid.Status)

	_, err = Approve(paid, adminActor(), now)
	requireKind(t, err, faults.KindInvalidTransition)
	_, err = Reject(paid, adminActor(), "no", now)
	requireKind(t, err, faults.KindInvalidTransition)
	_, err = MarkPaid(paid, adminActor(), now)
	requireKind(t, err, faults.KindInvalidTransition)
}
