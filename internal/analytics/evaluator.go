package analytics

import (
	"strings"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// Evaluator compares time-to-resolution against a priority budget.
type Evaluator struct {
	budgets BudgetTable
}

// NewEvaluator builds an Evaluator for the given budget table.
func NewEvaluator(budgets BudgetTable) *Evaluator {
	return &Evaluator{budgets: budgets}
}

// Evaluate returns the SLA verdict. A missing or unmatched priority gives an
// Unknown verdict with zero breach.
func (e *Evaluator) Evaluate(priority *string, timeToResolution int64) domain.Verdict {
	if priority == nil || strings.TrimSpace(*priority) == "" {
		return domain.Verdict{Status: domain.SLAStatusUnknown}
	}
	rule, ok := e.budgets.Lookup(*priority)
	if !ok {
		return domain.Verdict{Status: domain.SLAStatusUnknown}
	}
	budget := rule.Minutes
	if timeToResolution > budget {
		return domain.Verdict{
			Status:        domain.SLAStatusBreached,
			BudgetMinutes: &budget,
			BreachMinutes: timeToResolution - budget,
		}
	}
	return domain.Verdict{Status: domain.SLAStatusMet, BudgetMinutes: &budget}
}
