package service

import (
	"context"

	"github.com/example/academy/internal/models"
)

// CodeSender delivers OTP messages out of band.
type CodeSender interface {
	Send(ctx context.Context, phone, text string) error
}

// OrderNotifier is told about orders that reached the paid state.
type OrderNotifier interface {
	OrderPaid(ctx context.Context, order *models.Order, user *models.User) error
}
