package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"BidSentinel/internal/api"
	"BidSentinel/internal/budget"
	"BidSentinel/internal/config"
	"BidSentinel/internal/logging"
	"BidSentinel/internal/market"
	"BidSentinel/internal/notifier"
	"BidSentinel/internal/recorder"
	"BidSentinel/internal/scheduler"
	"BidSentinel/internal/session"
	"BidSentinel/internal/targets"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bidsentinel: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sess := session.New()
	logger = logger.With(zap.String("session", sess.ID))
	logger.Info("BidSentinel starting", zap.String("config", cfgPath))

	tracker, err := budget.NewTracker(cfg.Budget.StateFile, cfg.Budget.ActionLimit, cfg.Budget.Window, time.Now(), logger)
	if err != nil {
		return fmt.Errorf("init budget tracker: %w", err)
	}
	tl := targets.NewList(cfg.Trading.Targets)

	var client market.Client
	if cfg.UseSimulator() {
		sim := market.NewSimulator(cfg.Market.SimulatorBalance, nil)
		seed := uint64(time.Now().UnixNano())
		sim.Seed(cfg.Trading.Targets, 24, rand.New(rand.NewPCG(seed, seed>>1)))
		client = sim
	} else {
		client = market.NewHTTPClient(cfg.Market.BaseURL, cfg.Market.SessionToken, cfg.Market.Proxy)
	}
	logger.Info("marketplace client ready", zap.String("client", client.Name()), zap.Int("targets", tl.Len()))

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	var notify notifier.Notifier = notifier.NoopNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Market.Proxy, logger)
		notify = tn
	}

	sched := scheduler.New(scheduler.Config{
		Client:    client,
		Budget:    tracker,
		Targets:   tl,
		Session:   sess,
		Recorder:  rec,
		Notifier:  notify,
		Logger:    logger,
		Timing:    timingFrom(cfg),
		CoinLimit: cfg.Trading.CoinLimit,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sched.RegisterReports(ctx, cfg.Schedule.ReportCron); err != nil {
		return err
	}
	sched.StartReports()
	defer sched.StopReports()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := api.NewServer(cfg.API.Addr, api.NewRouter(sched, sess, tl, logger.Named("api")), cfg.API.AllowedOrigins)
	go func() {
		logger.Info("control API listening", zap.String("addr", cfg.API.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("control API failed", zap.Error(err))
		}
	}()

	if cfg.Trading.AutoStart {
		sess.Start()
	}
	logger.Info("BidSentinel is running. Press Ctrl+C to stop.")
	serveErr := sched.Serve(ctx)

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("control API shutdown", zap.Error(err))
	}
	if err := client.Logout(shutdownCtx); err != nil {
		logger.Warn("logout", zap.Error(err))
	}
	logger.Info("BidSentinel stopped")
	return serveErr
}

func timingFrom(cfg *config.Config) scheduler.Timing {
	t := cfg.Timing
	span := func(sp config.Span) scheduler.Span { return scheduler.Span{Min: sp.Min, Max: sp.Max} }
	return scheduler.Timing{
		CyclePause:         span(t.CyclePause),
		SweepPause:         span(t.SweepPause),
		BidPause:           span(t.BidPause),
		TargetPause:        span(t.TargetPause),
		BuyNowSearchPause:  span(t.BuyNowSearchPause),
		BuyNowMaxDuration:  t.BuyNowMaxDuration,
		BuyNowExpiryMargin: t.BuyNowExpiryMargin,
		BuyNowSearchLimit:  t.BuyNowSearchLimit,
		BuyNowRest:         t.BuyNowRest,
		WatchListAttempts:  t.WatchListAttempts,
		WatchListDelay:     t.WatchListDelay,
	}
}
