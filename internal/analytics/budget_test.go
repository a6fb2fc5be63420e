package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-sla/internal/analytics"
	"github.com/spec-kit/ticket-sla/internal/domain"
)

func TestDefaultBudgetLookup(t *testing.T) {
	table := analytics.DefaultBudgetTable()

	cases := []struct {
		priority string
		token    string
		minutes  int64
	}{
		{"Highest", "HIGHEST", 120},
		{"P1 - Highest", "HIGHEST", 120},
		{"High", "HIGH", 240},
		{"medium", "MEDIUM", 1440},
		{"Low", "LOW", 2880},
		{"Lowest", "LOWEST", 3600},
	}
	for _, tc := range cases {
		t.Run(tc.priority, func(t *testing.T) {
			rule, ok := table.Lookup(tc.priority)
			require.True(t, ok)
			assert.Equal(t, tc.token, rule.Token)
			assert.Equal(t, tc.minutes, rule.Minutes)
		})
	}

	_, ok := table.Lookup("Blocker")
	assert.False(t, ok)
}

func TestParseBudgetTableKeepsOrder(t *testing.T) {
	table, err := analytics.ParseBudgetTable(" highest=120, HIGH = 240 ,,medium=1440")
	require.NoError(t, err)

	assert.Equal(t, []analytics.BudgetRule{
		{Token: "HIGHEST", Minutes: 120},
		{Token: "HIGH", Minutes: 240},
		{Token: "MEDIUM", Minutes: 1440},
	}, table.Rules())
}

func TestParseBudgetTableErrors(t *testing.T) {
	for _, raw := range []string{"", "HIGH", "HIGH=abc", "=10", "HIGH=-5", "HIGH=240,HIGHEST=120"} {
		_, err := analytics.ParseBudgetTable(raw)
		assert.Error(t, err, raw)
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	table := analytics.DefaultBudgetTable()
	rules := table.Rules()
	rules[0].Minutes = 1

	rule, _ := table.Lookup("Highest")
	assert.Equal(t, int64(120), rule.Minutes)
}

func TestEvaluateHighestPrecedence(t *testing.T) {
	evaluator := analytics.NewEvaluator(analytics.DefaultBudgetTable())

	verdict := evaluator.Evaluate(strPtr("Highest"), 200)
	assert.Equal(t, domain.SLAStatusBreached, verdict.Status)
	assert.Equal(t, int64(80), verdict.BreachMinutes)
}

func TestEvaluateMonotonic(t *testing.T) {
	evaluator := analytics.NewEvaluator(analytics.DefaultBudgetTable())
	priority := strPtr("High")

	breached := false
	for ttr := int64(0); ttr <= 600; ttr++ {
		verdict := evaluator.Evaluate(priority, ttr)
		if breached {
			require.Equal(t, domain.SLAStatusBreached, verdict.Status, "ttr=%d", ttr)
		}
		if verdict.Status == domain.SLAStatusBreached {
			breached = true
			require.Equal(t, ttr-240, verdict.BreachMinutes)
		} else {
			require.Equal(t, domain.SLAStatusMet, verdict.Status)
			require.Zero(t, verdict.BreachMinutes)
		}
	}
	assert.True(t, breached)
	assert.Equal(t, domain.SLAStatusMet, evaluator.Evaluate(priority, 240).Status)
}

func TestEvaluateUnknown(t *testing.T) {
	evaluator := analytics.NewEvaluator(analytics.DefaultBudgetTable())

	for _, p := range []*string{nil, strPtr(""), strPtr("Blocker")} {
		verdict := evaluator.Evaluate(p, 100000)
		assert.Equal(t, domain.SLAStatusUnknown, verdict.Status)
		assert.Zero(t, verdict.BreachMinutes)
	}
}
