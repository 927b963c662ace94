package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/go_cart/cart-recovery-service/internal/cache"
	"github.com/fjod/go_cart/cart-recovery-service/internal/candidates"
	"github.com/fjod/go_cart/cart-recovery-service/internal/clients"
	"github.com/fjod/go_cart/cart-recovery-service/internal/config"
	"github.com/fjod/go_cart/cart-recovery-service/internal/decision"
	"github.com/fjod/go_cart/cart-recovery-service/internal/enricher"
	h "github.com/fjod/go_cart/cart-recovery-service/internal/http"
	"github.com/fjod/go_cart/cart-recovery-service/internal/notifier"
	"github.com/fjod/go_cart/cart-recovery-service/internal/repository"
	"github.com/fjod/go_cart/cart-recovery-service/internal/scheduler"
	"github.com/fjod/go_cart/cart-recovery-service/internal/tracker"
	"github.com/fjod/go_cart/cart-recovery-service/pkg/circuitbreaker"
	"github.com/fjod/go_cart/cart-recovery-service/pkg/logger"
	pb "github.com/fjod/go_cart/cart-recovery-service/pkg/proto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cart-recovery: %v\n", err)
		os.Exit(1)
	}
}

// closers run in reverse order on shutdown.
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) closeAll() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func run() error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cleanup closers
	defer cleanup.closeAll()

	var mongoCarts *repository.MongoCarts
	if cfg.UsesMongo() {
		db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return err
		}
		mongoCarts = repository.NewMongoCarts(db)
		cleanup.add(func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := mongoCarts.Close(shutdownCtx); err != nil {
				log.Warn("failed to disconnect from MongoDB", zap.Error(err))
			}
		})
		log.Info("connected to MongoDB", zap.String("database", cfg.MongoDBName))
	}

	var users candidates.Source = candidates.ParseList(cfg.CandidateUsers)
	if cfg.CandidateSource == "mongo" {
		users = mongoCarts
	}

	var carts scheduler.CartSource
	if cfg.CartSource == "mongo" {
		carts = mongoCarts
	} else {
		conn, err := clients.Dial(cfg.CartServiceAddr)
		if err != nil {
			return err
		}
		cleanup.add(func() { _ = conn.Close() })
		carts = clients.NewCartClient(pb.NewCartServiceClient(conn), cfg.RequestTimeout)
	}

	products, err := buildProductSource(cfg, log, &cleanup)
	if err != nil {
		return err
	}

	strategy, err := buildStrategy(cfg, log)
	if err != nil {
		return err
	}

	channel, err := buildChannel(cfg, log, &cleanup)
	if err != nil {
		return err
	}

	store := tracker.New()
	sched := scheduler.New(store, carts, users, enricher.New(products),
		decision.NewEngine(strategy, cfg.DecisionTimeout, log),
		notifier.New(channel, cfg.DeliveryRate),
		scheduler.WithInterval(cfg.PollInterval),
		scheduler.WithThreshold(cfg.InactivityThreshold),
		scheduler.WithRecipientDomain(cfg.RecipientDomain),
		scheduler.WithLogger(log))

	srv := h.NewServer(cfg.HTTPAddr, h.NewRouter(store, sched, nil, log))

	log.Info("cart recovery service starting",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("candidates", cfg.CandidateSource),
		zap.String("products", cfg.ProductSource),
		zap.String("strategy", strategy.Name()),
		zap.String("channel", channel.Name()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	// manually triggered ticks may still be running
	sched.Wait()
	log.Info("cart recovery service stopped")
	return nil
}

func buildProductSource(cfg *config.Config, log *zap.Logger, cleanup *closers) (enricher.ProductSource, error) {
	var source cache.ProductSource
	switch cfg.ProductSource {
	case "sqlite":
		catalog, err := repository.NewCatalog(cfg.CatalogDBPath)
		if err != nil {
			return nil, err
		}
		cleanup.add(func() { _ = catalog.Close() })
		if err := catalog.RunMigrations(cfg.MigrationsPath); err != nil {
			return nil, err
		}
		source = catalog
	default:
		conn, err := clients.Dial(cfg.CatalogServiceAddr)
		if err != nil {
			return nil, err
		}
		cleanup.add(func() { _ = conn.Close() })
		source = clients.NewCatalogClient(pb.NewProductCatalogServiceClient(conn), cfg.RequestTimeout)
	}

	if cfg.RedisAddr == "" {
		return source, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	cleanup.add(func() { _ = rdb.Close() })
	log.Info("product cache enabled", zap.String("redis_addr", cfg.RedisAddr))
	return cache.NewCachedSource(source, cache.NewRedisCache(rdb, cfg.ProductCacheTTL), log), nil
}

func buildStrategy(cfg *config.Config, log *zap.Logger) (decision.Strategy, error) {
	if cfg.DecisionStrategy == "remote" {
		return decision.NewRemoteStrategy(cfg.DecisionModelURL, circuitbreaker.DefaultConfig("decision-model"), log), nil
	}
	rules, err := decision.NewRuleStrategy(cfg.SendRule(), cfg.PercentRule())
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func buildChannel(cfg *config.Config, log *zap.Logger, cleanup *closers) (notifier.Channel, error) {
	switch cfg.DeliveryChannel {
	case "grpc":
		conn, err := clients.Dial(cfg.EmailServiceAddr)
		if err != nil {
			return nil, err
		}
		cleanup.add(func() { _ = conn.Close() })
		return notifier.NewGRPCChannel(pb.NewEmailServiceClient(conn), cfg.RequestTimeout), nil
	case "resend":
		return notifier.NewResendChannel(cfg.ResendAPIKey, cfg.EmailFrom), nil
	case "kafka":
		ch := notifier.NewKafkaChannel(cfg.KafkaTopic, cfg.KafkaBrokers...)
		cleanup.add(func() {
			if err := ch.Close(); err != nil {
				log.Warn("failed to close kafka writer", zap.Error(err))
			}
		})
		return ch, nil
	default:
		return notifier.NewLogChannel(log), nil
	}
}
