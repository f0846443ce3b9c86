// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bayup-finance/internal/auth"
	"bayup-finance/internal/bot"
	"bayup-finance/internal/config"
	"bayup-finance/internal/handler"
	"bayup-finance/internal/logger"
	"bayup-finance/internal/middleware"
	"bayup-finance/internal/money"
	"bayup-finance/internal/pricing"
	"bayup-finance/internal/render"
	"bayup-finance/internal/storage"
	"bayup-finance/internal/storage/memory"
	"bayup-finance/internal/storage/postgres"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter, err := money.New(money.Options{Locale: cfg.Locale, ThousandsSep: cfg.ThousandsSep})
	if err != nil {
		log.Error("Некорректная локаль", "error", err)
		os.Exit(1)
	}

	var store storage.Store
	if cfg.DBConn == "memory" {
		log.Warn("DATABASE_URL=memory, данные не сохраняются между запусками")
		store = memory.NewStorage()
	} else {
		pool, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			log.Error("Не удалось подключиться к БД", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		store = postgres.NewStorage(pool)
	}

	calc := pricing.NewCalculator(pricing.FeeSchedule{
		PlatformCommissionRate: cfg.PlatformCommissionRate,
		GatewayFeeRate:         cfg.GatewayFeeRate,
	}, cfg.MarginCacheTTL)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.Deps{
		Store:       store,
		Tokens:      auth.NewTokenService(cfg),
		Calculator:  calc,
		Formatter:   formatter,
		Renderer:    render.NewPDFRenderer(cfg.CompanyName),
		PageSize:    cfg.ReportPageSize,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:      log,
		LoginSecret: cfg.LoginSecret,
	})

	// Telegram webhook
	if cfg.TelegramBotToken != "" && cfg.WebhookBaseURL != "" {
		if cfg.TelegramWebhookSecret == "" {
			log.Error("TELEGRAM_WEBHOOK_SECRET обязателен для webhook")
			os.Exit(1)
		}
		api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Error("Не удалось инициализировать Telegram бота", "error", err)
			os.Exit(1)
		}
		if err := bot.SetWebhook(api, cfg.WebhookBaseURL, cfg.TelegramWebhookSecret); err != nil {
			log.Error("Не удалось установить webhook", "error", err)
			os.Exit(1)
		}
		router.POST("/telegram", bot.New(api, bot.NewCommands(store, calc, formatter)).Webhook(cfg.TelegramWebhookSecret))
		log.Info("Telegram webhook установлен", "url", cfg.WebhookBaseURL+"/telegram")
	}

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🚀 Сервер запущен", "addr", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Сервер завершил работу с ошибкой", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Ошибка при остановке сервера", "error", err)
	}
	log.Info("Сервер остановлен")
}
