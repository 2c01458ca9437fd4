package telegramimpl

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/deface/internal/ratelimit"
	"github.com/orgball2608/deface/internal/telegram"
	"github.com/orgball2608/deface/pkg/config"
	"github.com/orgball2608/deface/pkg/formatter"
	"github.com/orgball2608/deface/pkg/logger"
	"github.com/orgball2608/deface/pkg/retry"
	"go.uber.org/fx"
)

// Sender is the part of the bot API the client uses
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	Bot     Sender
	Limiter ratelimit.Limiter
	Logger  logger.Logger
	User    int64
	Retry   retry.Config
}

func New(opts Opts) (*TelegramImpl, error) {
	bot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		opts.Logger.Error("Error creating bot", "Error", err)
		return nil, err
	}

	return &TelegramImpl{
		Bot:     bot,
		Limiter: ratelimit.NewInMemoryLimiter(1, opts.Config.Telegram.Every, opts.Config.Telegram.Burst),
		Logger:  opts.Logger.WithComponent("Telegram"),
		User:    opts.Config.Telegram.User,
		Retry:   sendRetry(),
	}, nil
}

func sendRetry() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.Permanent = rejected
	return cfg
}

// rejected reports API errors that resending cannot fix, such as a malformed
// message or a chat that blocked the bot. Rate limiting (429) is retried.
func rejected(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests
}

var _ telegram.Client = (*TelegramImpl)(nil)

// SendMessageToUser sends a text message to the configured user
func (tg *TelegramImpl) SendMessageToUser(ctx context.Context, text string) error {
	if err := tg.Limiter.Wait(ctx, tg.User); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	msg := tgbotapi.NewMessage(tg.User, formatter.EscapeMarkdownV2(text))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	err := retry.Do(ctx, tg.Logger, "send message", func() error {
		_, err := tg.Bot.Send(msg)
		return err
	}, tg.Retry)
	if err != nil {
		tg.Logger.Error("Error sending message to user", "userID", tg.User, "error", err)
		return fmt.Errorf("failed to send message: %w", err)
	}

	tg.Logger.Info("Message sent to user", "userID", tg.User)
	return nil
}
