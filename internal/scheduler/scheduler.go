// Package scheduler drives the periodic abandoned-cart sweep: every tick it
// visits each candidate user, updates the inactivity tracker and, for carts
// that have sat untouched long enough, asks for a discount decision and
// delivers the resulting offer.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/cart-recovery-service/internal/candidates"
	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"github.com/fjod/go_cart/cart-recovery-service/internal/notifier"
	"github.com/fjod/go_cart/cart-recovery-service/internal/tracker"
	"github.com/fjod/go_cart/cart-recovery-service/pkg/logger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fjod/go_cart/cart-recovery-service/internal/scheduler"

const (
	DefaultInterval        = 30 * time.Second
	DefaultThreshold       = 60 * time.Second
	DefaultRecipientDomain = "example.com"
)

type CartSource interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
}

type Enricher interface {
	Enrich(ctx context.Context, cart *domain.Cart) (*domain.Profile, error)
}

type Decider interface {
	Decide(ctx context.Context, profile *domain.Profile) domain.Decision
}

type Notifier interface {
	Notify(ctx context.Context, email string, decision domain.Decision) (*notifier.Ack, error)
}

type Scheduler struct {
	store    *tracker.Store
	carts    CartSource
	users    candidates.Source
	enricher Enricher
	decider  Decider
	notifier Notifier

	interval        time.Duration
	threshold       time.Duration
	recipientDomain string
	now             func() time.Time
	log             *zap.Logger

	tracer   trace.Tracer
	ticks    metric.Int64Counter
	outcomes metric.Int64Counter

	mu       sync.Mutex
	stopping bool
	inflight sync.WaitGroup
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithThreshold sets the inactivity a cart must exceed before a decision is made.
func WithThreshold(d time.Duration) Option {
	return func(s *Scheduler) { s.threshold = d }
}

func WithRecipientDomain(domain string) Option {
	return func(s *Scheduler) {
		if domain != "" {
			s.recipientDomain = domain
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) { s.log = logger.OrNop(log) }
}

func New(store *tracker.Store, carts CartSource, users candidates.Source, enricher Enricher,
	decider Decider, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:           store,
		carts:           carts,
		users:           users,
		enricher:        enricher,
		decider:         decider,
		notifier:        notifier,
		interval:        DefaultInterval,
		threshold:       DefaultThreshold,
		recipientDomain: DefaultRecipientDomain,
		now:             time.Now,
		log:             zap.NewNop(),
		tracer:          otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}

	meter := otel.Meter(instrumentationName)
	var err error
	if s.ticks, err = meter.Int64Counter("cart_recovery.ticks",
		metric.WithDescription("Completed scheduler ticks")); err != nil {
		s.log.Warn("failed to create tick counter", zap.Error(err))
	}
	if s.outcomes, err = meter.Int64Counter("cart_recovery.user_outcomes",
		metric.WithDescription("Per-user tick outcomes")); err != nil {
		s.log.Warn("failed to create outcome counter", zap.Error(err))
	}
	return s
}

// RecipientFor derives the delivery address for a user.
func RecipientFor(userID, domain string) string {
	return fmt.Sprintf("user-%s@%s", userID, domain)
}

// Run ticks every interval until ctx is cancelled, then waits for in-flight
// ticks to finish. Ticks already started are not cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.inflight.Wait()
	defer s.stop()

	s.log.Info("scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("threshold", s.threshold))

	for {
		select {
		case <-ticker.C:
			s.Trigger(ctx)
		case <-ctx.Done():
			s.log.Info("scheduler stopping, waiting for in-flight ticks")
			return nil
		}
	}
}

// Trigger starts a tick in the background and returns immediately. It
// reports false, starting nothing, once Run has begun stopping.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopping {
		return false
	}

	tickCtx := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.Tick(tickCtx)
	}()
	return true
}

// stop refuses further ticks so the in-flight count can only go down.
func (s *Scheduler) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopping = true
}

// Wait blocks until every tick started so far has finished.
func (s *Scheduler) Wait() {
	s.inflight.Wait()
}

// Tick processes every candidate user concurrently and returns once all of
// them have finished.
func (s *Scheduler) Tick(ctx context.Context) Report {
	report := Report{TickID: uuid.NewString()}
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "scheduler.Tick",
		trace.WithAttributes(attribute.String("tick.id", report.TickID)))
	defer span.End()
	log := logger.WithTrace(ctx, s.log).With(zap.String("tick_id", report.TickID))

	users, err := s.listCandidates(ctx)
	if err != nil {
		log.Error("failed to list candidate users", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "candidates unavailable")
		report.CandidatesFailed = true
		return report
	}

	results := make([]outcome, len(users))
	var wg sync.WaitGroup
	for i, userID := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.processUser(ctx, log, userID)
		}()
	}
	wg.Wait()

	for _, o := range results {
		report.add(o)
		if s.outcomes != nil {
			s.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", o.String())))
		}
	}
	if s.ticks != nil {
		s.ticks.Add(ctx, 1)
	}

	span.SetAttributes(
		attribute.Int("tick.users", report.Users),
		attribute.Int("tick.notified", report.Notified))
	log.Info("tick finished",
		zap.Int("users", report.Users),
		zap.Int("empty", report.Empty),
		zap.Int("cart_failed", report.CartFailed),
		zap.Int("enrich_failed", report.EnrichFailed),
		zap.Int("below_threshold", report.BelowThreshold),
		zap.Int("declined", report.Declined),
		zap.Int("notified", report.Notified),
		zap.Int("notify_failed", report.NotifyFailed),
		zap.Int("panicked", report.Panicked),
		zap.Duration("took", time.Since(start)))
	return report
}

func (s *Scheduler) listCandidates(ctx context.Context) (users []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("candidate source panicked: %v", r)
		}
	}()
	return s.users.Candidates(ctx)
}

func (s *Scheduler) processUser(ctx context.Context, log *zap.Logger, userID string) (result outcome) {
	ctx, span := s.tracer.Start(ctx, "scheduler.processUser",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	log = log.With(zap.String("user_id", userID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while processing user", zap.Any("panic", r), zap.Stack("stack"))
			span.SetStatus(codes.Error, "panic")
			result = outcomePanicked
		}
	}()

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		log.Warn("failed to fetch cart", zap.Error(err))
		span.RecordError(err)
		return outcomeCartFailed
	}

	if cart.IsEmpty() {
		s.store.RecordCartEmpty(userID)
		return outcomeEmpty
	}

	inactivity := s.store.RecordCartActive(userID, s.now())

	profile, err := s.enricher.Enrich(ctx, cart)
	if err != nil {
		log.Warn("failed to enrich cart", zap.Error(err))
		span.RecordError(err)
		return outcomeEnrichFailed
	}
	profile.UserID = userID
	profile.InactivitySeconds = inactivity
	span.SetAttributes(attribute.Int64("cart.inactivity_seconds", inactivity))

	if inactivity <= int64(s.threshold/time.Second) {
		return outcomeBelowThreshold
	}

	decision := s.decider.Decide(ctx, profile)
	if !decision.ShouldSend {
		log.Debug("no discount", zap.String("reason", decision.Reason))
		return outcomeDeclined
	}

	email := RecipientFor(userID, s.recipientDomain)
	ack, err := s.notifier.Notify(ctx, email, decision)
	if err != nil {
		log.Error("failed to send discount offer", zap.Error(err))
		span.RecordError(err)
		return outcomeNotifyFailed
	}

	messageID := ""
	if ack != nil {
		messageID = ack.MessageID
	}
	log.Info("discount offer sent",
		zap.String("recipient", email),
		zap.Int("percentage", decision.Percentage),
		zap.String("total", profile.TotalValue.StringFixed(2)),
		zap.Int64("inactivity_seconds", inactivity),
		zap.String("message_id", messageID))
	return outcomeNotified
}
