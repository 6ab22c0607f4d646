// Package app wires the catalog, services, chat router and HTTP surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ia-papeleria/internal/ai"
	"ia-papeleria/internal/chatbot"
	"ia-papeleria/internal/config"
	"ia-papeleria/internal/kafka"
	"ia-papeleria/internal/repository"
	"ia-papeleria/internal/service"
	"ia-papeleria/internal/transcript"
	"ia-papeleria/internal/ws"
	"ia-papeleria/pkg/database"
	"ia-papeleria/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second
	notifyTimeout   = 5 * time.Second
)

type App struct {
	cfg *config.Config
	db  *gorm.DB

	Hub        *ws.Hub
	Gateway    *ai.Gateway
	Router     *chatbot.Router
	Transcript transcript.Store
	Tokens     *jwt.Manager

	Inventory service.InventoryService
	Sales     service.SalesService
	Forecast  service.ForecastService
	Dashboard service.DashboardService

	Fiber *fiber.App

	stopHub  context.CancelFunc
	notifier *service.AsyncNotifier
	closers  []func() error
}

type Option func(*options)

type options struct {
	httpClient *http.Client
	redis      redis.UniversalClient
	providers  []ai.Provider
}

// WithHTTPClient sets the client used to reach the AI providers.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithRedis uses an existing client for the transcript instead of dialing REDIS_ADDR.
func WithRedis(c redis.UniversalClient) Option {
	return func(o *options) { o.redis = c }
}

// WithProviders replaces the configured AI providers.
func WithProviders(p ...ai.Provider) Option {
	return func(o *options) { o.providers = p }
}

// Open connects to the configured database and migrates it.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// New builds every layer on top of db. Close releases what New opened.
func New(cfg *config.Config, db *gorm.DB, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, db: db, Tokens: jwt.NewManager(cfg.JWTSecret)}
	loc := cfg.Location()

	// Live feed
	hubCtx, stop := context.WithCancel(context.Background())
	a.Hub = ws.NewHub()
	a.stopHub = stop
	go a.Hub.Run(hubCtx)

	fanout := service.MultiNotifier{a.Hub}
	if len(cfg.Kafka.Brokers) > 0 {
		pub := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.SalesTopic)
		fanout = append(fanout, pub)
		a.closers = append(a.closers, pub.Close)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.SalesTopic).Msg("Kafka sale events enabled")
	}

	a.notifier = service.NewAsyncNotifier(fanout, notifyTimeout)

	a.Transcript = a.openTranscript(o.redis)

	// Repositories and services
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	store := repository.NewCatalogStore(db, productRepo, saleRepo)
	matcher := service.NewProductMatcher()

	a.Inventory = service.NewInventoryService(productRepo, db, a.notifier)
	a.Sales = service.NewSalesService(store, matcher, a.notifier, loc)
	a.Forecast = service.NewForecastService(store, saleRepo)
	a.Dashboard = service.NewDashboardService(saleRepo, loc)

	aiCfg := GatewayConfig(cfg.AI)
	if o.providers != nil {
		a.Gateway = ai.NewGatewayWithProviders(aiCfg, o.providers...)
	} else {
		a.Gateway = ai.NewGateway(aiCfg, o.httpClient)
	}
	if !a.Gateway.Configured() {
		log.Warn().Msg("No AI provider configured; open questions get a canned reply")
	}

	a.Router = chatbot.NewRouter(chatbot.Deps{
		Store:      store,
		Matcher:    matcher,
		Sales:      a.Sales,
		Forecast:   a.Forecast,
		AI:         a.Gateway,
		Transcript: a.Transcript,
	})

	a.Fiber = a.routes()
	return a, nil
}

func (a *App) openTranscript(client redis.UniversalClient) transcript.Store {
	size, ttl := a.cfg.Transcript.Size, a.cfg.Transcript.TTL
	if client == nil && a.cfg.Redis.Addr != "" {
		c := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", a.cfg.Redis.Addr).Msg("Redis unreachable; keeping transcripts in memory")
			_ = c.Close()
		} else {
			client = c
			a.closers = append(a.closers, c.Close)
		}
	}
	if client == nil {
		return transcript.NewMemoryStore(size)
	}
	log.Info().Msg("Transcripts stored in Redis")
	return transcript.NewRedisStore(client, size, ttl)
}

// GatewayConfig maps the loaded settings onto the AI gateway.
func GatewayConfig(c config.AIConfig) ai.Config {
	return ai.Config{
		Preferred:   c.Provider,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
		Fallthrough: c.Fallthrough,
		OpenAI:      ai.ProviderConfig(c.OpenAI),
		Grok:        ai.ProviderConfig(c.Grok),
		Anthropic:   ai.ProviderConfig(c.Anthropic),
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", a.cfg.Server.Port).Msg("PapelBot listening")
		errCh <- a.Fiber.Listen(":" + a.cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		_ = a.Close()
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownErr := a.Fiber.ShutdownWithTimeout(shutdownTimeout)
	if err := a.Close(); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}
	if shutdownErr != nil {
		return shutdownErr
	}
	log.Info().Msg("Server exited")
	return nil
}

// Close waits for pending sale and stock events, stops the live feed and
// releases Kafka and Redis clients.
func (a *App) Close() error {
	if a.notifier != nil {
		a.notifier.Wait()
	}
	if a.stopHub != nil {
		a.stopHub()
	}
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
