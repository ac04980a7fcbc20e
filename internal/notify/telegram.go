package notify

import (
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// TelegramNotifier sends notifications via the Telegram Bot API.
type TelegramNotifier struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	logger         *log.Logger
	maxRetries     int
	retryDelayBase time.Duration
}

// NewTelegramNotifier creates a Telegram-backed notifier.
func NewTelegramNotifier(botToken string, chatID int64, logger *log.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:            bot,
		chatID:         chatID,
		logger:         logger,
		maxRetries:     3,
		retryDelayBase: time.Second,
	}, nil
}

// Compile-time interface check.
var _ Notifier = (*TelegramNotifier)(nil)

func (n *TelegramNotifier) MarketListed(marketID, tokenAddress, symbol string) {
	text := fmt.Sprintf("🟢 *Market listed*\n`%s`\ntoken: `%s`\nsymbol: `%s`",
		escapeMarkdownV2(marketID), escapeMarkdownV2(tokenAddress), escapeMarkdownV2(symbol))
	n.send(text)
}

func (n *TelegramNotifier) CapReduced(marketID string, previous, current decimal.Decimal) {
	text := fmt.Sprintf("⚠️ *Cap reduced*\n`%s`\nprevious: `%s`\ncurrent: `%s`",
		escapeMarkdownV2(marketID), escapeMarkdownV2(previous.String()), escapeMarkdownV2(current.String()))
	n.send(text)
}

func (n *TelegramNotifier) SubmissionFailed(marketID string, err error) {
	text := fmt.Sprintf("🔴 *Submission failed*\n`%s`\n`%s`",
		escapeMarkdownV2(marketID), escapeMarkdownV2(err.Error()))
	n.send(text)
}

// send delivers a MarkdownV2 message with linear-backoff retry. Delivery
// failures are logged and swallowed.
func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < n.maxRetries; i++ {
		if _, err := n.bot.Send(msg); err == nil {
			return
		} else {
			lastErr = err
		}
		time.Sleep(n.retryDelayBase * time.Duration(i+1))
	}
	n.logger.Printf("telegram send failed after %d retries: %v", n.maxRetries, lastErr)
}

// escapeMarkdownV2 escapes the characters Telegram's MarkdownV2 parser treats
// as syntax.
func escapeMarkdownV2(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
		"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
		"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(s)
}
