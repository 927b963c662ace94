// Package candidates supplies the set of users the scheduler visits on each tick.
package candidates

import (
	"context"
	"strings"
)

type Source interface {
	Candidates(ctx context.Context) ([]string, error)
}

// Static is a fixed candidate list.
type Static struct {
	users []string
}

// NewStatic keeps the first occurrence of every non-blank id, in order.
func NewStatic(users ...string) *Static {
	seen := make(map[string]struct{}, len(users))
	out := make([]string, 0, len(users))
	for _, u := range users {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return &Static{users: out}
}

// ParseList builds a static source from a comma separated list such as "42,43".
func ParseList(list string) *Static {
	return NewStatic(strings.Split(list, ",")...)
}

func (s *Static) Candidates(context.Context) ([]string, error) {
	out := make([]string, len(s.users))
	copy(out, s.users)
	return out, nil
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context) ([]string, error)

func (f Func) Candidates(ctx context.Context) ([]string, error) {
	return f(ctx)
}
