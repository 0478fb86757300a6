package policy

import (
	"fmt"

	"floatflow-backend/internal/models"
)

type Evaluation struct {
	Violated bool   `json:"violated"`
	Reason   string `json:"reason,omitempty"`
}

// Evaluate checks a candidate expense against the active policy set. It is
// pure and idempotent: same inputs, same result, no side effects. A violation
// is informational only; submission is never blocked by it.
func Evaluate(candidate *models.Expense, policies []models.Policy) Evaluation {
	match := Match(candidate.Category, candidate.Location, policies)
	if match == nil || match.AmountLimit == nil {
		return Evaluation{}
	}

	baseAmount := candidate.BaseAmount()
	if baseAmount > *match.AmountLimit {
		return Evaluation{
			Violated: true,
			Reason: fmt.Sprintf("Exceeds %s limit of %.2f %s for %s",
				match.Name, *match.AmountLimit, match.Currency, candidate.Category),
		}
	}
	return Evaluation{}
}

// Match selects the single policy the candidate is compared against.
// Only active policies with the same category are considered; a policy with a
// location scope applies only to that location. When several match, a
// location-scoped policy beats a category-wide one, and among equally specific
// policies the lowest amount limit wins (unlimited policies sort last).
func Match(category, location string, policies []models.Policy) *models.Policy {
	var best *models.Policy
	for i := range policies {
		p := &policies[i]
		if !p.IsActive || p.Category != category {
			continue
		}
		if p.Location != "" && p.Location != location {
			continue
		}
		if best == nil || morePrecise(p, best) {
			best = p
		}
	}
	return best
}

func morePrecise(a, b *models.Policy) bool {
	if (a.Location != "") != (b.Location != "") {
		return a.Location != ""
	}
	if a.AmountLimit == nil {
		return false
	}
	if b.AmountLimit == nil {
		return true
	}
	return *a.AmountLimit < *b.AmountLimit
}
