package reporter

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/0x0BSoD/cryptoSentiment/internal/logger"
)

const prefix = "[crypto-sentiment] "

// Sender is the part of *tgbotapi.BotAPI the reporter needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Reporter sends short ingestion alerts to a Telegram admin chat.
// It is nil-safe: if adminID is 0 or the receiver is nil, Notify is a no-op.
type Reporter struct {
	bot     Sender
	adminID int64
}

func New(bot Sender, adminID int64) *Reporter {
	return &Reporter{bot: bot, adminID: adminID}
}

// NewTelegram connects to the Bot API with the given token.
func NewTelegram(token string, adminID int64) (*Reporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return New(bot, adminID), nil
}

func (r *Reporter) Notify(msg string) {
	if r == nil || r.bot == nil || r.adminID == 0 {
		return
	}
	if _, err := r.bot.Send(tgbotapi.NewMessage(r.adminID, prefix+msg)); err != nil {
		logger.Error("failed to send admin notification", zap.Int64("chat_id", r.adminID), zap.Error(err))
	}
}

// Enabled reports whether notifications will be delivered.
func (r *Reporter) Enabled() bool {
	return r != nil && r.bot != nil && r.adminID != 0
}
