package telegram

import (
	"context"
	"time"

	"meme-stock-dashboard/internal/dashboard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotConfig configuration of the bot
type BotConfig struct {
	Token          string
	Debug          bool
	UpdatesTimeout int
}

// Dashboard is what the bot reads alerts from.
type Dashboard interface {
	Snapshot() dashboard.State
	Refresh(ctx context.Context) dashboard.State
}

// Bot telegram interaction client
type Bot struct {
	Bot       *tgbotapi.BotAPI
	Config    BotConfig
	dashboard Dashboard
	now       func() time.Time
}

// Message a telegram message struct
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
}
