package decision

import (
	"context"
	"fmt"
	"math"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"github.com/google/cel-go/cel"
)

const (
	DefaultSendRule    = `cart_value >= 20.0`
	DefaultPercentRule = `cart_value >= 100.0 ? 15 : (inactivity_seconds > 600 ? 10 : 5)`
)

// RuleStrategy evaluates two CEL expressions over the profile: a boolean
// send rule and an integer percentage rule. Available variables are
// inactivity_seconds (int), cart_value (double), categories (list of
// string) and item_count (int).
type RuleStrategy struct {
	sendRule    string
	percentRule string
	send        cel.Program
	percent     cel.Program
}

func NewRuleStrategy(sendRule, percentRule string) (*RuleStrategy, error) {
	env, err := cel.NewEnv(
		cel.Variable("inactivity_seconds", cel.IntType),
		cel.Variable("cart_value", cel.DoubleType),
		cel.Variable("categories", cel.ListType(cel.StringType)),
		cel.Variable("item_count", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	send, err := compile(env, sendRule)
	if err != nil {
		return nil, fmt.Errorf("send rule: %w", err)
	}
	percent, err := compile(env, percentRule)
	if err != nil {
		return nil, fmt.Errorf("percent rule: %w", err)
	}

	return &RuleStrategy{
		sendRule:    sendRule,
		percentRule: percentRule,
		send:        send,
		percent:     percent,
	}, nil
}

func compile(env *cel.Env, expr string) (cel.Program, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast, cel.CostLimit(10000))
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return prg, nil
}

func (r *RuleStrategy) Name() string {
	return "rules"
}

func (r *RuleStrategy) Evaluate(_ context.Context, profile *domain.Profile) (domain.Decision, error) {
	input := map[string]any{
		"inactivity_seconds": profile.InactivitySeconds,
		"cart_value":         profile.TotalValue.InexactFloat64(),
		"categories":         profile.Categories,
		"item_count":         profile.ItemCount(),
	}

	out, _, err := r.send.Eval(input)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("eval send rule: %w", err)
	}
	send, ok := out.Value().(bool)
	if !ok {
		return domain.Decision{}, fmt.Errorf("send rule returned %T, want bool", out.Value())
	}
	if !send {
		return domain.NoDiscount(fmt.Sprintf("rule %q not matched", r.sendRule)), nil
	}

	out, _, err = r.percent.Eval(input)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("eval percent rule: %w", err)
	}
	var pct int
	switch v := out.Value().(type) {
	case int64:
		pct = int(v)
	case uint64:
		pct = int(v)
	case float64:
		pct = int(math.Round(v))
	default:
		return domain.Decision{}, fmt.Errorf("percent rule returned %T, want number", out.Value())
	}

	return domain.Decision{
		ShouldSend: true,
		Percentage: pct,
		Reason: fmt.Sprintf("inactive for %ds with cart worth %s",
			profile.InactivitySeconds, profile.TotalValue.StringFixed(2)),
	}, nil
}
