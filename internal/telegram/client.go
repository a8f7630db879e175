// Package telegram provides a client for sending notifications via Telegram Bot API.
// It formats analysis summaries and project plan updates into MarkdownV2 messages
// and handles delivery with retry logic for reliability.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/tradeoracle/internal/models"
)

// maxPlanChars keeps plan excerpts well under Telegram's 4096 character message limit.
const maxPlanChars = 3000

// sender is the part of the bot API the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newClient(bot, chatID, maxRetries, retryDelayBase)
}

func newClient(bot sender, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// send delivers a MarkdownV2 message with linear backoff between attempts.
func (c *Client) send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// SendReport sends a summary of a finished analysis.
func (c *Client) SendReport(r *models.AnalysisReport) error {
	return c.send(formatReport(r))
}

// SendPlanUpdate sends the new plan content.
func (c *Client) SendPlanUpdate(path, content string, uiAgentTasks bool) error {
	return c.send(formatPlanUpdate(path, content, uiAgentTasks, time.Now()))
}

// SendError reports a failed analysis or monitoring cycle.
func (c *Client) SendError(err error) error {
	return c.send("⚠️ *Analysis failed*\n\n" + escapeMarkdownV2(err.Error()))
}

// SendRecovery reports that analysis works again after failures consecutive failed cycles.
func (c *Client) SendRecovery(failures int) error {
	return c.send(fmt.Sprintf("✅ *Analysis recovered* after %d failed cycle\\(s\\)", failures))
}

func pct(v float64) string {
	return escapeMarkdownV2(fmt.Sprintf("%.2f%%", v))
}

func money(v float64) string {
	return escapeMarkdownV2(fmt.Sprintf("$%.2f", v))
}

// formatReport formats a report into a Telegram message
func formatReport(r *models.AnalysisReport) string {
	var b strings.Builder

	title := "Investment Analysis"
	if r.Kind == models.KindRealistic {
		title = "Realistic Strategy Analysis"
	}
	fmt.Fprintf(&b, "📊 *%s*\n", title)
	fmt.Fprintf(&b, "📅 %s\n\n", escapeMarkdownV2(r.CreatedAt.Format("2006-01-02 15:04:05")))
	fmt.Fprintf(&b, "🎯 Target return: *%s*\n", pct(r.TargetReturn))
	if r.Ticker != "" {
		fmt.Fprintf(&b, "🏷 Top pick: *%s*\n", escapeMarkdownV2(r.Ticker))
	}

	if p := r.Probability; p != nil {
		fmt.Fprintf(&b, "\n🎲 Monte Carlo: %s → %s\n", money(p.CurrentPrice), money(p.TargetPrice))
		fmt.Fprintf(&b, "   Probability: *%s*\n", pct(p.Probability))
		fmt.Fprintf(&b, "   5%%–95%%: %s – %s\n", money(p.Percentile5), money(p.Percentile95))
	}
	if l := r.Ladder; l != nil {
		fmt.Fprintf(&b, "\n🎲 Monte Carlo: %s → %s\n", money(l.StockPrice), money(l.TargetPrice))
		fmt.Fprintf(&b, "   \\+10%%: *%s*  \\+5%%: %s  break\\-even: %s\n", pct(l.Prob10Pct), pct(l.Prob5Pct), pct(l.ProbBreakEven))
	}
	if o := r.OptionsStrategy; o != nil {
		fmt.Fprintf(&b, "\n📈 %d calls at %s, cost %s\n", o.Contracts, money(o.Strike), money(o.TotalCost))
	}
	for i, pl := range r.StrategyPlans {
		if i == 0 {
			b.WriteString("\n📈 Strategies:\n")
		}
		fmt.Fprintf(&b, "   %s: %d contracts, cost %s\n", escapeMarkdownV2(pl.Strategy), pl.Contracts, money(pl.TotalCost))
	}
	if p := r.Portfolio; p != nil {
		fmt.Fprintf(&b, "\n💼 Portfolio %s → %s\n", money(p.InitialCapital), money(p.Target))
		fmt.Fprintf(&b, "   Success: *%s*  Expected: %s\n", pct(p.ProbabilityOfSuccess), money(p.ExpectedFinalValue))
	}

	return b.String()
}

// formatPlanUpdate formats a plan change into a Telegram message
func formatPlanUpdate(path, content string, uiAgentTasks bool, at time.Time) string {
	var b strings.Builder
	b.WriteString("📝 *Project plan updated*\n")
	fmt.Fprintf(&b, "📅 %s\n", escapeMarkdownV2(at.Format("2006-01-02 15:04:05")))
	fmt.Fprintf(&b, "📄 %s\n", escapeMarkdownV2(path))
	if uiAgentTasks {
		b.WriteString("✅ Found tasks for UI Agent\n")
	}

	excerpt := content
	if r := []rune(excerpt); len(r) > maxPlanChars {
		excerpt = string(r[:maxPlanChars]) + "\n…"
	}
	fmt.Fprintf(&b, "\n%s", escapeMarkdownV2(excerpt))
	return b.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . ! \
	var b strings.Builder
	b.Grow(len(text))
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
