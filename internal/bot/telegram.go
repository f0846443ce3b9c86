// internal/bot/telegram.go
package bot

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the bot writes to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api      Sender
	commands *Commands
}

func New(api Sender, commands *Commands) *Bot {
	return &Bot{api: api, commands: commands}
}

// Reply answers one update; updates without a text message are ignored.
func (b *Bot) Reply(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil || update.Message.From == nil || update.Message.Chat == nil {
		return nil
	}

	merchantID := update.Message.From.ID
	slog.Info("📥 Получено сообщение", "merchant_id", merchantID, "text", update.Message.Text)

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, b.commands.Handle(ctx, merchantID, update.Message.Text))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send reply to chat %d: %w", update.Message.Chat.ID, err)
	}
	return nil
}

// Poll reads updates by long polling until ctx is cancelled.
func (b *Bot) Poll(ctx context.Context, api *tgbotapi.BotAPI) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.Reply(ctx, update); err != nil {
				slog.Error("Telegram reply failed", "error", err)
			}
		}
	}
}

// SecretHeader carries the secret_token given to setWebhook on every push.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Webhook handles updates pushed by Telegram to POST /telegram.
// Requests without the matching secret header are rejected; an empty secret rejects everything.
func (b *Bot) Webhook(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(SecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			slog.Warn("Webhook без верного секрета", "ip", c.ClientIP())
			c.Status(http.StatusUnauthorized)
			return
		}

		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			slog.Error("Ошибка парсинга обновления", "error", err)
			c.Status(http.StatusBadRequest)
			return
		}
		if err := b.Reply(c.Request.Context(), update); err != nil {
			slog.Error("Telegram reply failed", "error", err)
		}
		// Telegram повторяет доставку на не-2xx, ответ уже отправлен или потерян
		c.Status(http.StatusOK)
	}
}

// SetWebhook points Telegram at baseURL + "/telegram" with the given secret_token.
// tgbotapi.WebhookConfig has no secret_token field, so the call is made by hand.
func SetWebhook(api *tgbotapi.BotAPI, baseURL, secret string) error {
	params := tgbotapi.Params{"url": baseURL + "/telegram"}
	params.AddNonEmpty("secret_token", secret)
	if _, err := api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}
