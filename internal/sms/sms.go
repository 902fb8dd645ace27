package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

// New picks the HTTP gateway when a URL is configured and falls back to
// logging messages otherwise.
func New(gatewayURL, apiKey, from string, log *zap.Logger) Sender {
	if gatewayURL == "" {
		log.Warn("SMS gateway not configured, messages will only be logged")
		return NewLogSender(log)
	}
	return NewGatewaySender(gatewayURL, apiKey, from, log)
}

// GatewaySender posts messages to a JSON SMS gateway.
type GatewaySender struct {
	client *resty.Client
	from   string
	log    *zap.Logger
}

type gatewayMessage struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// NewGatewaySender does not retry. The gateway POST is not idempotent.
func NewGatewaySender(baseURL, apiKey, from string, log *zap.Logger) *GatewaySender {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &GatewaySender{client: client, from: from, log: log}
}

func (s *GatewaySender) Send(ctx context.Context, phone, text string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(gatewayMessage{From: s.from, To: phone, Text: text}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("sms gateway request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode())
	}
	s.log.Debug("sms sent", zap.String("phone", phone))
	return nil
}

// LogSender writes messages to the log instead of sending them.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, phone, text string) error {
	s.log.Info("sms (not sent)", zap.String("phone", phone), zap.String("text", text))
	return nil
}
