package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"matchbook/internal/api"
	"matchbook/internal/auth"
	"matchbook/internal/book"
	"matchbook/internal/config"
	"matchbook/internal/db"
	"matchbook/internal/feed"
	"matchbook/internal/stream"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Main entry point: wires the book, trade journal, trade publisher,
// synthetic feed and the market-data HTTP/WebSocket server.
func main() {
	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ob := book.New(cfg.Symbol)

	// Trade journal is optional: without a database the book still runs,
	// it just keeps trades in memory only.
	var journal *db.DB
	if cfg.DatabaseURL != "" {
		journal, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer journal.Close()
		logger.Info("trade journal enabled")
	}

	var publisher *stream.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = stream.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		logger.Info("trade publisher enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	}

	keyHash := cfg.APIKeyHash
	if keyHash == "" {
		// Dev fallback so the server starts out of the box.
		logger.Warn("MB_API_KEY_HASH not set, accepting api key \"local-dev-key\"")
		if keyHash, err = auth.HashKey("local-dev-key"); err != nil {
			logger.Fatal("failed to hash dev key", zap.Error(err))
		}
	}
	authService := auth.NewService(cfg.AuthSecret, keyHash, 24*time.Hour)

	var store api.TradeStore
	if journal != nil {
		store = journal
	}
	handler := api.NewHandler(ob, authService, store, logger)
	hub := api.NewHub(logger)

	// Synthetic order flow drives the book; executed trades fan out to
	// the journal and the Kafka topic.
	if cfg.FeedEnabled {
		feedCfg := feed.DefaultConfig()
		feedCfg.Interval = cfg.FeedInterval
		feedCfg.Seed = cfg.FeedSeed
		feeder := feed.New(ob, logger, feedCfg)
		feeder.OnTrades = func(trades []book.Trade) {
			if journal != nil {
				if err := journal.InsertTrades(ctx, trades); err != nil {
					logger.Error("failed to journal trades", zap.Error(err))
				}
			}
			if publisher != nil {
				if err := publisher.PublishTrades(ctx, trades); err != nil {
					logger.Error("failed to publish trades", zap.Error(err))
				}
			}
		}
		go feeder.Run(ctx)
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public market data.
	r.Post("/auth/login", handler.Login)
	r.Get("/depth", handler.GetDepth)
	r.Get("/trades", handler.GetTrades)
	r.Get("/ws", hub.ServeWS)

	// Private endpoints (require a session token).
	r.Group(func(r chi.Router) {
		r.Use(handler.AuthMiddleware)
		r.Get("/orders/{id}", handler.GetOrder)
		r.Get("/trades/history", handler.GetTradeHistory)
	})

	// Periodic depth broadcast to websocket subscribers.
	go func() {
		ticker := time.NewTicker(cfg.BroadcastInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				hub.Broadcast(map[string]interface{}{
					"symbol": ob.Symbol(),
					"bids":   ob.Bids(cfg.DepthLevels),
					"asks":   ob.Asks(cfg.DepthLevels),
				})
			}
		}
	}()

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("symbol", cfg.Symbol))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}
