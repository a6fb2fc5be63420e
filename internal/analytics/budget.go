package analytics

import (
	"fmt"
	"strconv"
	"strings"
)

// BudgetRule maps a priority token to its SLA budget in minutes.
type BudgetRule struct {
	Token   string
	Minutes int64
}

// BudgetTable is an ordered list of budget rules. Lookup tests rules in
// order, so a token that is a substring of another (HIGH in HIGHEST, LOW in
// LOWEST) must come after it.
type BudgetTable struct {
	rules []BudgetRule
}

// NewBudgetTable validates and freezes the given rules. A rule that can never
// match because an earlier token is contained in it is rejected.
func NewBudgetTable(rules ...BudgetRule) (BudgetTable, error) {
	frozen := make([]BudgetRule, 0, len(rules))
	for _, r := range rules {
		token := strings.ToUpper(strings.TrimSpace(r.Token))
		if token == "" {
			return BudgetTable{}, fmt.Errorf("budget rule has empty token")
		}
		if r.Minutes < 0 {
			return BudgetTable{}, fmt.Errorf("budget for %s is negative", token)
		}
		for _, prev := range frozen {
			if strings.Contains(token, prev.Token) {
				return BudgetTable{}, fmt.Errorf("budget rule %s is shadowed by earlier rule %s", token, prev.Token)
			}
		}
		frozen = append(frozen, BudgetRule{Token: token, Minutes: r.Minutes})
	}
	return BudgetTable{rules: frozen}, nil
}

// DefaultBudgetTable returns the incident SLA policy, most urgent first
// except that LOWEST is tested before LOW.
func DefaultBudgetTable() BudgetTable {
	t, _ := NewBudgetTable(
		BudgetRule{Token: "HIGHEST", Minutes: 2 * 60},
		BudgetRule{Token: "HIGH", Minutes: 4 * 60},
		BudgetRule{Token: "MEDIUM", Minutes: 24 * 60},
		BudgetRule{Token: "LOWEST", Minutes: 60 * 60},
		BudgetRule{Token: "LOW", Minutes: 48 * 60},
	)
	return t
}

// ParseBudgetTable reads a comma separated list of TOKEN=MINUTES pairs,
// keeping their order.
func ParseBudgetTable(raw string) (BudgetTable, error) {
	var rules []BudgetRule
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		token, minutes, ok := strings.Cut(part, "=")
		if !ok {
			return BudgetTable{}, fmt.Errorf("invalid budget rule %q: want TOKEN=MINUTES", part)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(minutes), 10, 64)
		if err != nil {
			return BudgetTable{}, fmt.Errorf("invalid budget minutes in %q: %w", part, err)
		}
		rules = append(rules, BudgetRule{Token: token, Minutes: n})
	}
	if len(rules) == 0 {
		return BudgetTable{}, fmt.Errorf("budget table is empty")
	}
	return NewBudgetTable(rules...)
}

// Lookup returns the first rule whose token is contained in priority.
func (t BudgetTable) Lookup(priority string) (BudgetRule, bool) {
	upper := strings.ToUpper(priority)
	for _, r := range t.rules {
		if strings.Contains(upper, r.Token) {
			return r, true
		}
	}
	return BudgetRule{}, false
}

// Rules returns a copy of the rules in lookup order.
func (t BudgetTable) Rules() []BudgetRule {
	return append([]BudgetRule(nil), t.rules...)
}
