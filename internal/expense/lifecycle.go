package expense

import (
	"strings"
	"time"

	"floatflow-backend/internal/authz"
	"floatflow-backend/internal/faults"
	"floatflow-backend/internal/models"
	"floatflow-backend/internal/policy"
)

// The lifecycle is pending -> approved|rejected, approved -> paid.
// Rejected and paid are terminal; nothing ever returns to pending.
// Every function here is pure over values: the handler persists the result
// with a compare-and-swap on the version stamp.

// Submit admits a candidate into the machine as pending. The policy evaluator
// runs here and its verdict is attached as metadata; a violation does not
// block submission. An admin's own submission enters already approved, with
// the approver recorded.
func Submit(candidate models.Expense, actor models.Actor, policies []models.Policy, now time.Time) (models.Expense, error) {
	if !authz.CanAct(actor, authz.ActionCreate, &candidate) {
		return candidate, faults.Unauthorized("role %s may not create expenses for location %s", actor.Role, candidate.Location)
	}
	if err := validateCandidate(&candidate); err != nil {
		return candidate, err
	}

	if candidate.ExchangeRate == 0 {
		candidate.ExchangeRate = 1
	}
	if candidate.Currency == "" {
		candidate.Currency = "KES"
	}

	eval := policy.Evaluate(&candidate, policies)
	candidate.PolicyViolation = eval.Violated
	candidate.ViolationReason = eval.Reason

	candidate.SubmittedBy = actor.ID
	candidate.Status = models.ExpensePending

	if actor.Role == models.RoleAdmin {
		actorID := actor.ID
		at := now
		candidate.Status = models.ExpenseApproved
		candidate.ApprovedBy = &actorID
		candidate.ApprovedAt = &at
	}

	return candidate, nil
}

// Approve moves a pending expense to approved and records the approver. The
// caller debits the float afterwards; approval is the point committed spend
// reduces the balance.
func Approve(e models.Expense, actor models.Actor, now time.Time) (models.Expense, error) {
	if !authz.CanAct(actor, authz.ActionApprove, &e) {
		return e, approveDenied(actor, "approve")
	}
	if e.Status != models.ExpensePending {
		return e, faults.InvalidTransition(string(e.Status), string(models.ExpenseApproved))
	}

	actorID := actor.ID
	at := now
	e.Status = models.ExpenseApproved
	e.ApprovedBy = &actorID
	e.ApprovedAt = &at
	return e, nil
}

// Reject moves a pending expense to rejected. The reason is mandatory; an
// empty one fails validation and leaves the expense pending.
func Reject(e models.Expense, actor models.Actor, reason string, now time.Time) (models.Expense, error) {
	if !authz.CanAct(actor, authz.ActionReject, &e) {
		return e, approveDenied(actor, "reject")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return e, faults.Validation("rejection reason is required")
	}
	if e.Status != models.ExpensePending {
		return e, faults.InvalidTransition(string(e.Status), string(models.ExpenseRejected))
	}

	actorID := actor.ID
	at := now
	e.Status = models.ExpenseRejected
	e.ApprovedBy = &actorID
	e.ApprovedAt = &at
	e.RejectionReason = reason
	e.ViolationReason = reason
	return e, nil
}

// MarkPaid settles an approved expense. Finance and admin only.
func MarkPaid(e models.Expense, actor models.Actor, now time.Time) (models.Expense, error) {
	if !authz.CanAct(actor, authz.ActionMarkPaid, &e) {
		return e, faults.Unauthorized("role %s may not mark expenses paid", actor.Role)
	}
	if e.Status != models.ExpenseApproved {
		return e, faults.InvalidTransition(string(e.Status), string(models.ExpensePaid))
	}

	actorID := actor.ID
	at := now
	e.Status = models.ExpensePaid
	e.PaidBy = &actorID
	e.PaidAt = &at
	return e, nil
}

func validateCandidate(e *models.Expense) error {
	switch {
	case strings.TrimSpace(e.Description) == "":
		return faults.Validation("description is required")
	case strings.TrimSpace(e.Category) == "":
		return faults.Validation("category is required")
	case strings.TrimSpace(e.Location) == "":
		return faults.Validation("location is required")
	case e.Amount <= 0:
		return faults.Validation("amount must be greater than zero, got %.2f", e.Amount)
	case e.ExchangeRate < 0:
		return faults.Validation("exchange rate must not be negative, got %.4f", e.ExchangeRate)
	case e.FloatID == 0:
		return faults.Validation("float reference is required")
	}
	return nil
}

func approveDenied(actor models.Actor, verb string) error {
	if actor.Role == models.RoleBranch {
		return faults.Unauthorized("cannot %s expenses from other branches", verb)
	}
	return faults.Unauthorized("role %s may not %s expenses", actor.Role, verb)
}
