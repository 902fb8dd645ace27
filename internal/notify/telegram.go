package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
)

const telegramAPI = "https://api.telegram.org"

// TelegramNotifier posts order events to the admin chat.
type TelegramNotifier struct {
	client      *resty.Client
	botToken    string
	adminChatID string
	log         *zap.Logger
}

// NewTelegramNotifier creates a notifier. An empty baseURL selects the
// public Bot API.
func NewTelegramNotifier(baseURL, botToken, adminChatID string, log *zap.Logger) *TelegramNotifier {
	if baseURL == "" {
		baseURL = telegramAPI
	}
	return &TelegramNotifier{
		client:      resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
		botToken:    botToken,
		adminChatID: adminChatID,
		log:         log,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendToAdmin sends an HTML message to the admin chat. It is a no-op when
// the bot is not configured.
func (n *TelegramNotifier) SendToAdmin(ctx context.Context, text string) error {
	if n.botToken == "" || n.adminChatID == "" {
		n.log.Debug("telegram not configured, skipping message")
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(telegramMessage{ChatID: n.adminChatID, Text: text, ParseMode: "HTML"}).
		Post("/bot" + n.botToken + "/sendMessage")
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode())
	}
	return nil
}

// OrderPaid announces a settled order.
func (n *TelegramNotifier) OrderPaid(ctx context.Context, order *models.Order, user *models.User) error {
	message := fmt.Sprintf(`<b>✅ Order paid</b>
<b>Order:</b> %s
<b>User:</b> %s
<b>Phone:</b> %s
<b>Total:</b> %s
<b>Payment:</b> %s`,
		order.ID,
		user.Username,
		user.PhoneNumber,
		FormatPrice(order.TotalPrice),
		order.PaymentID,
	)
	return n.SendToAdmin(ctx, message)
}

// FormatPrice renders an amount with thousand separators.
func FormatPrice(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	str := fmt.Sprintf("%d", amount)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}
	return sign + result.String()
}
