package decision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"github.com/fjod/go_cart/cart-recovery-service/pkg/circuitbreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// AnalysisRequest is the body posted to the behaviour analysis model.
type AnalysisRequest struct {
	UserID            string   `json:"user_id"`
	InactivitySeconds int64    `json:"inactivity_seconds"`
	CartValue         string   `json:"cart_value"`
	Categories        []string `json:"categories"`
	// ItemCount is the number of units in the cart, not the number of lines.
	ItemCount         int64    `json:"item_count"`
}

// AnalysisResponse is what the model answers with.
type AnalysisResponse struct {
	ShouldSendDiscount bool   `json:"should_send_discount"`
	DiscountPercentage int    `json:"discount_percentage"`
	Reason             string `json:"reason"`
}

// RemoteStrategy asks an external model over HTTP. Calls go through a
// circuit breaker so a failing model is not hammered every tick.
type RemoteStrategy struct {
	url        string
	httpClient *http.Client
	breaker    *circuitbreaker.Breaker[domain.Decision]
}

func NewRemoteStrategy(url string, breaker circuitbreaker.Config, log *zap.Logger) *RemoteStrategy {
	return &RemoteStrategy{
		url: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: circuitbreaker.New[domain.Decision](breaker, log),
	}
}

func (r *RemoteStrategy) Name() string {
	return "remote"
}

func (r *RemoteStrategy) Evaluate(ctx context.Context, profile *domain.Profile) (domain.Decision, error) {
	return r.breaker.Execute(func() (domain.Decision, error) {
		return r.analyze(ctx, profile)
	})
}

func (r *RemoteStrategy) analyze(ctx context.Context, profile *domain.Profile) (domain.Decision, error) {
	if r.url == "" {
		return domain.Decision{}, fmt.Errorf("analysis model url not configured")
	}

	body, err := json.Marshal(AnalysisRequest{
		UserID:            profile.UserID,
		InactivitySeconds: profile.InactivitySeconds,
		CartValue:         profile.TotalValue.StringFixed(2),
		Categories:        profile.Categories,
		ItemCount:         profile.ItemCount(),
	})
	if err != nil {
		return domain.Decision{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return domain.Decision{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Decision{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result AnalysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.Decision{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.Decision{
		ShouldSend: result.ShouldSendDiscount,
		Percentage: result.DiscountPercentage,
		Reason:     result.Reason,
	}, nil
}
