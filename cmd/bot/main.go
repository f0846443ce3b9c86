// cmd/bot/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"bayup-finance/internal/bot"
	"bayup-finance/internal/config"
	"bayup-finance/internal/logger"
	"bayup-finance/internal/money"
	"bayup-finance/internal/pricing"
	"bayup-finance/internal/storage/postgres"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Init(cfg.LogLevel)

	if cfg.TelegramBotToken == "" {
		log.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pgxpool.New(ctx, cfg.DBConn)
	if err != nil {
		log.Error("Failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	formatter, err := money.New(money.Options{Locale: cfg.Locale, ThousandsSep: cfg.ThousandsSep})
	if err != nil {
		log.Error("Invalid locale", "error", err)
		os.Exit(1)
	}
	calc := pricing.NewCalculator(pricing.FeeSchedule{
		PlatformCommissionRate: cfg.PlatformCommissionRate,
		GatewayFeeRate:         cfg.GatewayFeeRate,
	}, cfg.MarginCacheTTL)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Error("Failed to start bot", "error", err)
		os.Exit(1)
	}
	// long polling не работает, пока у бота есть webhook
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		log.Warn("Failed to delete webhook", "error", err)
	}
	log.Info("Bot started", "username", api.Self.UserName)

	b := bot.New(api, bot.NewCommands(postgres.NewStorage(db), calc, formatter))
	if err := b.Poll(ctx, api); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("Bot stopped")
}
