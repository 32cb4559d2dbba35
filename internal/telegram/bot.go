package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meme-stock-dashboard/internal/dashboard"
	"meme-stock-dashboard/internal/types"
	"meme-stock-dashboard/lib/helpers"
	"meme-stock-dashboard/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// maxMessageLength stays under Telegram's 4096 character limit.
const maxMessageLength = 4000

var priorityIcons = map[types.Priority]string{
	types.PriorityHigh:   "🔥",
	types.PriorityMedium: "⚡",
	types.PriorityLow:    "📈",
}

// NewBot creates new telegram bot
func NewBot(c BotConfig, d Dashboard) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:       bot,
		Config:    c,
		dashboard: d,
		now:       time.Now,
	}, nil
}

// GetUpdatesChannel gets new updates updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message: %v", m)
}

// ServeUpdates passes every update to handle until ctx is done, then stops
// long polling.
func (b *Bot) ServeUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel, handle func(tgbotapi.Update)) {
	for {
		select {
		case <-ctx.Done():
			b.Bot.StopReceivingUpdates()
			log.Debug("Stopped receiving telegram updates")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			handle(update)
		}
	}
}

// HandleUpdate answers a command with one or more MarkdownV2 messages.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) []string {
	log.Debugf("received command: %s", u.Message.Command())

	switch u.Message.Command() {
	case "alerts":
		return FormatAlerts(b.dashboard.Snapshot().Alerts, b.now())
	case "summary":
		return []string{FormatSummary(b.dashboard.Snapshot())}
	case "refresh":
		st := b.dashboard.Refresh(ctx)
		return []string{translation.Translate("refresh_done") + "\n\n" + FormatSummary(st)}
	}

	return []string{translation.Translate("bot_help")}
}

// FormatSummary renders the summary tiles and the last update time.
func FormatSummary(st dashboard.State) string {
	s := st.Summary()

	updated := translation.Translate("never_updated")
	if !st.LastUpdated.IsZero() {
		updated = fmt.Sprintf(
			translation.Translate("last_updated_format"),
			helpers.EscapeMarkdownV2(st.LastUpdated.Format("2006-01-02 15:04:05 MST")),
		)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s",
		translation.Translate("summary_header"),
		fmt.Sprintf(translation.Translate("summary_format"),
			s.High, s.Medium, s.Low,
			helpers.EscapeMarkdownV2(helpers.FormatMentions(s.TotalMentions)),
		),
		updated,
	)
}

// FormatCard renders one alert.
func FormatCard(a types.Alert, now time.Time) string {
	icon, ok := priorityIcons[a.Priority]
	if !ok {
		icon = "❔"
	}
	esc := helpers.EscapeMarkdownV2

	return fmt.Sprintf(translation.Translate("card_format"),
		icon,
		esc(a.Ticker),
		esc(strings.ToUpper(string(a.Priority))),
		esc(helpers.FormatPrice(a.CurrentPrice)),
		esc(helpers.FormatChange(a.PriceChange)),
		esc(helpers.FormatMentions(a.MentionCount)),
		esc(helpers.FormatRatio(a.VolumeRatio)),
		esc(helpers.FormatOptional(a.RSI, 1)),
		esc(helpers.FormatOptional(a.VolumeZScore, 2)),
		esc(helpers.FormatOptional(a.SentimentScore, 2)),
		esc(helpers.FormatDetected(a.DetectedAt, now)),
	)
}

// FormatAlerts renders every alert as a card, packing cards into as few
// messages as the length limit allows.
func FormatAlerts(alerts []types.Alert, now time.Time) []string {
	if len(alerts) == 0 {
		return []string{translation.Translate("no_active_alerts")}
	}

	var messages []string
	var current strings.Builder
	for _, a := range alerts {
		card := FormatCard(a, now)
		if current.Len() > 0 && current.Len()+len(card)+2 > maxMessageLength {
			messages = append(messages, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(card)
	}
	return append(messages, current.String())
}

var _ Dashboard = (*dashboard.Service)(nil)
