// Package policy evaluates review rules over processed callback outcomes.
// Rules are govaluate expressions compiled once at construction and evaluated
// in priority order; the first matching rule decides.
package policy

import (
	"fmt"
	"sort"

	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
)

// PolicyDecision represents the outcome of a policy evaluation.
type PolicyDecision struct {
	EscalateManual bool   `yaml:"escalate_manual" json:"escalate_manual"` // Whether this payment needs manual review
	Reason         string `yaml:"reason" json:"reason,omitempty"`
	RuleID         string `yaml:"-" json:"rule_id,omitempty"`
}

// PolicyRule is a single review rule.
type PolicyRule struct {
	ID         string         `yaml:"id"`
	Expression string         `yaml:"expression"`
	Priority   int            `yaml:"priority"` // lower runs first
	Decision   PolicyDecision `yaml:"decision"`
}

type compiledRule struct {
	PolicyRule
	expr *govaluate.EvaluableExpression
}

// PaymentPolicyEnforcer evaluates review rules.
type PaymentPolicyEnforcer struct {
	rules []compiledRule
}

// NewPaymentPolicyEnforcer compiles rules and orders them by priority.
func NewPaymentPolicyEnforcer(rules []PolicyRule) (*PaymentPolicyEnforcer, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if r.Expression == "" {
			return nil, fmt.Errorf("policy rule ID '%s' has an empty expression", r.ID)
		}
		expr, err := govaluate.NewEvaluableExpression(r.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule ID '%s': %w", r.ID, err)
		}
		compiled = append(compiled, compiledRule{PolicyRule: r, expr: expr})
	}
	sort.SliceStable(compiled, func(i, j int) bool { return compiled[i].Priority < compiled[j].Priority })
	return &PaymentPolicyEnforcer{rules: compiled}, nil
}

// Parameters builds the variables available to rule expressions:
// order_amount, authorized_amount, order_currency, authorized_currency,
// payment_status, callback_state and provider.
func Parameters(provider string, order adapter.Order, orderCurrency, authCurrency string, result adapter.CallbackResult) map[string]interface{} {
	params := map[string]interface{}{
		"provider":            provider,
		"order_amount":        order.TransactionAmount.InexactFloat64(),
		"order_currency":      orderCurrency,
		"authorized_currency": authCurrency,
		"callback_state":      string(result.State),
		"authorized_amount":   decimal.Zero.InexactFloat64(),
		"payment_status":      "",
	}
	if info := result.TransactionInfo; info != nil {
		params["authorized_amount"] = info.AmountAuthorized.InexactFloat64()
		params["payment_status"] = string(info.PaymentStatus)
	}
	return params
}

// Evaluate returns the decision of the first matching rule, or a zero decision.
func (ppe *PaymentPolicyEnforcer) Evaluate(params map[string]interface{}) (PolicyDecision, error) {
	for _, r := range ppe.rules {
		out, err := r.expr.Evaluate(params)
		if err != nil {
			return PolicyDecision{}, fmt.Errorf("evaluating rule ID '%s': %w", r.ID, err)
		}
		matched, ok := out.(bool)
		if !ok {
			return PolicyDecision{}, fmt.Errorf("rule ID '%s' returned %T, want bool", r.ID, out)
		}
		if matched {
			d := r.Decision
			d.RuleID = r.ID
			return d, nil
		}
	}
	return PolicyDecision{}, nil
}

// DefaultRules flag completed payments whose authorized amount or currency
// differs from what the order asked for.
func DefaultRules() []PolicyRule {
	return []PolicyRule{
		{
			ID:         "amount_mismatch",
			Expression: "callback_state == 'completed' && authorized_amount != order_amount",
			Priority:   1,
			Decision:   PolicyDecision{EscalateManual: true, Reason: "authorized amount differs from order amount"},
		},
		{
			ID:         "currency_mismatch",
			Expression: "callback_state == 'completed' && authorized_currency != '' && authorized_currency != order_currency",
			Priority:   2,
			Decision:   PolicyDecision{EscalateManual: true, Reason: "authorized currency differs from order currency"},
		},
	}
}
