package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"meme-stock-dashboard/config"
	"meme-stock-dashboard/internal/alerts"
	"meme-stock-dashboard/internal/chart"
	"meme-stock-dashboard/internal/dashboard"
	"meme-stock-dashboard/internal/database"
	"meme-stock-dashboard/internal/metrics"
	"meme-stock-dashboard/internal/notify"
	"meme-stock-dashboard/internal/preferences"
	"meme-stock-dashboard/internal/redisstore"
	"meme-stock-dashboard/internal/server"
	"meme-stock-dashboard/internal/telegram"
	"meme-stock-dashboard/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/golang/freetype/truetype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func init() {
	config.InitConfig()
	setupLogging()
}

func main() {
	translation.Configure("locales", strings.ToLower(config.GetString("lang")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := database.InitDB(config.GetString("db_path"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	dashboardMetrics := metrics.New(prometheus.DefaultRegisterer)
	dashboardMetrics.LoadFromDB()

	kv, closeKV := newKV(ctx)
	defer closeKV()

	timeout := config.GetDuration("request_timeout")
	email := notify.NewEmailClient(config.GetString("email_url"), timeout)

	var backend dashboard.PreferencesBackend
	if url := config.GetString("preferences_url"); url != "" {
		backend = notify.NewPreferencesBackend(url, timeout)
	}

	svc := dashboard.New(dashboard.Deps{
		Source:     alerts.NewFetcher(config.GetString("alerts_url"), timeout),
		Dispatcher: notify.NewDispatcher(email),
		Store:      preferences.NewStore(kv),
		Email:      email,
		Backend:    backend,
		Metrics:    dashboardMetrics,
	}, dashboard.Options{
		Interval:    config.GetDuration("refresh_interval"),
		AutoRefresh: config.GetBool("auto_refresh"),
	})

	if token := config.GetString("telegram_bot_token"); token != "" {
		bot, err := telegram.NewBot(telegram.BotConfig{
			Token:          token,
			Debug:          config.GetBool("debug"),
			UpdatesTimeout: 60,
		}, svc)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}

		updates, err := bot.GetUpdatesChannel()
		if err != nil {
			log.Fatalf("Failed to get updates channel: %v", err)
		}
		go handleUpdates(ctx, bot, updates)
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				dashboardMetrics.SaveToDB()
			}
		}
	}()

	api := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.GetInt("http_port")),
		Handler: server.New(svc, chart.NewRenderer(loadChartFont())).Router(),
	}
	go func() {
		log.Infof("Launching dashboard API on %s", api.Addr)
		if err := api.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start dashboard API: %v", err)
		}
	}()

	go func() {
		if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
			log.Fatalf("Failed to start metrics and health server: %v", err)
		}
	}()

	if err := svc.Run(ctx); err != nil {
		log.Errorf("Dashboard stopped: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Failed to shut down dashboard API: %v", err)
	}

	dashboardMetrics.SaveToDB()
	log.Println("Metrics saved, shutting down...")
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting meme stock dashboard...")
}

// newKV selects the preference storage backend.
func newKV(ctx context.Context) (preferences.KV, func()) {
	switch backend := config.GetString("kv_backend"); backend {
	case "redis":
		kv, err := redisstore.New(ctx, redisstore.Config{
			Addr:     config.GetString("redis_addr"),
			Password: config.GetString("redis_password"),
			DB:       config.GetInt("redis_db"),
		})
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		return kv, func() { kv.Close() }
	case "sqlite", "":
		return database.KV{}, func() {}
	default:
		log.Fatalf("Unknown kv_backend %q", backend)
		return nil, nil
	}
}

func loadChartFont() *truetype.Font {
	path := config.GetString("chart_font")
	if path == "" {
		return nil
	}
	font, err := chart.LoadFont(path)
	if err != nil {
		log.Warnf("⚠️ Using default chart font: %v", err)
		return nil
	}
	return font
}

func handleUpdates(ctx context.Context, bot *telegram.Bot, updates tgbotapi.UpdatesChannel) {
	bot.ServeUpdates(ctx, updates, func(update tgbotapi.Update) {
		if update.Message == nil || !update.Message.IsCommand() {
			log.Debug("Received non-message or non-command")
			return
		}
		handleCommand(ctx, bot, update)
	})
}

func handleCommand(ctx context.Context, bot *telegram.Bot, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	for _, text := range bot.HandleUpdate(ctx, update) {
		err := bot.SendMessage(telegram.Message{
			ChatID:    update.Message.Chat.ID,
			Text:      text,
			MessageID: update.Message.MessageID,
		})
		if err != nil {
			log.Errorf("Failed to send message: %v", err)
		}
	}
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", server.HealthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}
