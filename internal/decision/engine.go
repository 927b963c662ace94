// Package decision turns an enriched cart into a discount verdict.
//
// The engine itself never fails: whatever goes wrong inside a strategy
// (error, timeout, panic) becomes a "do not send" decision. Gating on
// inactivity happens in the caller before Decide is reached.
package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"go.uber.org/zap"
)

const (
	ReasonStrategyFailed  = "decision unavailable"
	ReasonStrategyTimeout = "decision timed out"
)

// Strategy produces a decision for a profile that already passed the
// inactivity gate.
type Strategy interface {
	Name() string
	Evaluate(ctx context.Context, profile *domain.Profile) (domain.Decision, error)
}

type Engine struct {
	strategy Strategy
	timeout  time.Duration
	log      *zap.Logger
}

func NewEngine(strategy Strategy, timeout time.Duration, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{strategy: strategy, timeout: timeout, log: log}
}

type result struct {
	decision domain.Decision
	err      error
}

// Decide runs the strategy within the engine timeout.
func (e *Engine) Decide(ctx context.Context, profile *domain.Profile) domain.Decision {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("strategy panicked: %v", r)}
			}
		}()
		d, err := e.strategy.Evaluate(ctx, profile)
		done <- result{decision: d, err: err}
	}()

	log := e.log.With(zap.String("user_id", profile.UserID), zap.String("strategy", e.strategy.Name()))
	select {
	case res := <-done:
		if res.err != nil {
			log.Warn("decision strategy failed, not sending", zap.Error(res.err))
			return domain.NoDiscount(ReasonStrategyFailed)
		}
		return normalize(res.decision)
	case <-ctx.Done():
		log.Warn("decision strategy timed out, not sending", zap.Error(ctx.Err()))
		return domain.NoDiscount(ReasonStrategyTimeout)
	}
}

// normalize clamps the percentage to 0..100 and never lets a 0% offer out.
func normalize(d domain.Decision) domain.Decision {
	if d.Percentage < 0 {
		d.Percentage = 0
	}
	if d.Percentage > 100 {
		d.Percentage = 100
	}
	if !d.ShouldSend {
		d.Percentage = 0
		return d
	}
	if d.Percentage == 0 {
		return domain.NoDiscount("zero percent discount")
	}
	return d
}
