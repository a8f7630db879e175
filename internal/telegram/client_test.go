package telegram

import (
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/tradeoracle/internal/models"
	"github.com/rewired-gh/tradeoracle/internal/montecarlo"
)

type fakeBot struct {
	failures int
	sent     []tgbotapi.MessageConfig
	attempts int
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.attempts++
	if f.attempts <= f.failures {
		return tgbotapi.Message{}, errors.New("rate limited")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"plain", "plain"},
		{"16.49%", "16\\.49%"},
		{"a-b (c)", "a\\-b \\(c\\)"},
		{"UI Agent: [x]!", "UI Agent: \\[x\\]\\!"},
		{`C:\plan`, `C:\\plan`},
	}

	for _, tt := range tests {
		if got := escapeMarkdownV2(tt.in); got != tt.expected {
			t.Errorf("escapeMarkdownV2(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestSend_RetriesThenSucceeds(t *testing.T) {
	bot := &fakeBot{failures: 2}
	c, err := newClient(bot, "12345", 3, time.Millisecond)
	if err != nil {
		t.Fatalf("newClient failed: %v", err)
	}

	if err := c.SendError(errors.New("provider down")); err != nil {
		t.Fatalf("SendError failed: %v", err)
	}
	if bot.attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", bot.attempts)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(bot.sent))
	}
	msg := bot.sent[0]
	if msg.ChatID != 12345 || msg.ParseMode != tgbotapi.ModeMarkdownV2 {
		t.Errorf("Unexpected message config: chat %d mode %q", msg.ChatID, msg.ParseMode)
	}
}

func TestSend_GivesUp(t *testing.T) {
	bot := &fakeBot{failures: 10}
	c, err := newClient(bot, "1", 2, time.Millisecond)
	if err != nil {
		t.Fatalf("newClient failed: %v", err)
	}

	err = c.SendPlanUpdate("plan.txt", "Phase 1", false)
	if err == nil || !strings.Contains(err.Error(), "after 2 retries") {
		t.Errorf("Expected retry exhaustion error, got %v", err)
	}
}

func TestSendRecovery(t *testing.T) {
	bot := &fakeBot{}
	c, err := newClient(bot, "1", 1, time.Millisecond)
	if err != nil {
		t.Fatalf("newClient failed: %v", err)
	}

	if err := c.SendRecovery(3); err != nil {
		t.Fatalf("SendRecovery failed: %v", err)
	}
	if len(bot.sent) != 1 || !strings.Contains(bot.sent[0].Text, "after 3 failed cycle\\(s\\)") {
		t.Errorf("Unexpected recovery message: %+v", bot.sent)
	}
}

func TestNewClient_InvalidChatID(t *testing.T) {
	if _, err := newClient(&fakeBot{}, "not-a-number", 3, time.Second); err == nil {
		t.Error("Expected error for invalid chat ID")
	}
}

func TestFormatReport(t *testing.T) {
	rec := montecarlo.Record{CurrentPrice: 100, TargetPrice: 110, Probability: 16.49, Percentile5: 84.1, Percentile95: 118.9}
	msg := formatReport(&models.AnalysisReport{
		Kind:         models.KindInvestment,
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Ticker:       "BRK-B",
		TargetReturn: 43,
		Probability:  &rec,
	})

	for _, want := range []string{"*Investment Analysis*", "2025\\-01\\-02", "*BRK\\-B*", "*16\\.49%*", "$84\\.10"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected message to contain %q:\n%s", want, msg)
		}
	}
}

func TestFormatPlanUpdate(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	msg := formatPlanUpdate("project_plan.txt", "UI Agent: charts", true, at)
	if !strings.Contains(msg, "Found tasks for UI Agent") {
		t.Errorf("Expected UI agent flag:\n%s", msg)
	}
	if !strings.Contains(msg, "project\\_plan\\.txt") {
		t.Errorf("Expected escaped path:\n%s", msg)
	}

	long := strings.Repeat("x", maxPlanChars+100)
	msg = formatPlanUpdate("p", long, false, at)
	if strings.Count(msg, "x") != maxPlanChars {
		t.Errorf("Expected excerpt of %d chars, got %d", maxPlanChars, strings.Count(msg, "x"))
	}
}
