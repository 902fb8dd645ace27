package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/repository"
)

type CheckoutService struct {
	repo     *repository.Repository
	notifier OrderNotifier
	bypass   bool
	now      func() time.Time
	log      *zap.Logger
}

// NewCheckoutService builds the checkout flow. With bypass set, orders are
// marked paid without touching balances.
func NewCheckoutService(repo *repository.Repository, notifier OrderNotifier, bypass bool, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		repo:     repo,
		notifier: notifier,
		bypass:   bypass,
		now:      time.Now,
		log:      log,
	}
}

type CheckoutResult struct {
	Order        *models.Order `json:"order"`
	NeedsPayment bool          `json:"needs_payment"`
}

// Checkout turns the active cart into an order and tries to settle it from
// the user's balance, all in one transaction. An insufficient balance
// leaves the order pending and is not an error.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID) (*CheckoutResult, error) {
	var (
		result *CheckoutResult
		user   *models.User
	)
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		user, err = tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.ActiveCartID == nil {
			return ErrEmptyCart
		}

		cart, err := tx.Carts.GetWithItems(ctx, *user.ActiveCartID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		moved, err := tx.Carts.Transition(ctx, cart.ID, models.CartCreated, models.CartPending)
		if err != nil {
			return err
		}
		if !moved {
			return ErrCheckoutInProgress
		}

		order := &models.Order{
			UserID:     user.ID,
			CartID:     cart.ID,
			TotalPrice: cart.Total(),
			Status:     models.OrderPending,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		// the cart is archived with its order; the next add opens a new one
		if err := tx.Users.ClearActiveCart(ctx, user.ID); err != nil {
			return err
		}

		paid, err := s.settle(ctx, tx, order)
		if err != nil {
			return err
		}
		result = &CheckoutResult{Order: order, NeedsPayment: !paid}
		return nil
	})
	if err != nil {
		s.logFailure("checkout failed", userID, err)
		return nil, err
	}

	s.finish(result, user)
	return result, nil
}

// PayOrder retries settlement of a pending order owned by the user.
func (s *CheckoutService) PayOrder(ctx context.Context, userID, orderID uuid.UUID) (*CheckoutResult, error) {
	var (
		result *CheckoutResult
		user   *models.User
	)
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		user, err = tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		order, err := tx.Orders.GetByIDForUser(ctx, orderID, userID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderPending {
			return ErrOrderNotPending
		}

		paid, err := s.settle(ctx, tx, order)
		if err != nil {
			return err
		}
		result = &CheckoutResult{Order: order, NeedsPayment: !paid}
		return nil
	})
	if err != nil {
		s.logFailure("order payment failed", userID, err)
		return nil, err
	}

	s.finish(result, user)
	return result, nil
}

// TopUp credits a user's balance and records the ledger entry.
func (s *CheckoutService) TopUp(ctx context.Context, userID uuid.UUID, amount int64, note string) (*models.User, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be positive"}
	}

	var user *models.User
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Users.Credit(ctx, userID, amount); err != nil {
			return err
		}
		entry := &models.WalletTransaction{
			UserID: userID,
			Kind:   models.WalletCredit,
			Amount: amount,
			Note:   note,
		}
		if err := tx.Wallet.Create(ctx, entry); err != nil {
			return err
		}
		var err error
		user, err = tx.Users.GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("balance topped up", zap.Stringer("user_id", userID), zap.Int64("amount", amount))
	return user, nil
}

// settle debits the balance (unless bypassed) and marks the order and its
// cart paid. It reports false, changing nothing, when the balance is short.
func (s *CheckoutService) settle(ctx context.Context, tx *repository.Repository, order *models.Order) (bool, error) {
	method := "bypass"
	if !s.bypass {
		debited, err := tx.Users.Debit(ctx, order.UserID, order.TotalPrice)
		if err != nil {
			return false, err
		}
		if !debited {
			return false, nil
		}
		entry := &models.WalletTransaction{
			UserID:  order.UserID,
			OrderID: &order.ID,
			Kind:    models.WalletDebit,
			Amount:  order.TotalPrice,
			Note:    "order payment",
		}
		if err := tx.Wallet.Create(ctx, entry); err != nil {
			return false, err
		}
		method = "balance"
	}

	now := s.now()
	paymentID := method + ":" + uuid.NewString()
	marked, err := tx.Orders.MarkPaid(ctx, order.ID, paymentID, now)
	if err != nil {
		return false, err
	}
	if !marked {
		return false, ErrOrderNotPending
	}

	moved, err := tx.Carts.Transition(ctx, order.CartID, models.CartPending, models.CartPaid)
	if err != nil {
		return false, err
	}
	if !moved {
		return false, fmt.Errorf("cart %s is not pending", order.CartID)
	}

	order.Status = models.OrderPaid
	order.PaymentID = paymentID
	order.PaidAt = &now
	return true, nil
}

func (s *CheckoutService) finish(result *CheckoutResult, user *models.User) {
	order := result.Order
	if result.NeedsPayment {
		s.log.Info("order awaiting payment",
			zap.Stringer("order_id", order.ID),
			zap.Int64("total", order.TotalPrice))
		return
	}

	s.log.Info("order paid",
		zap.Stringer("order_id", order.ID),
		zap.Int64("total", order.TotalPrice),
		zap.String("payment_id", order.PaymentID))

	if s.notifier == nil {
		return
	}
	snapshot := *order
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.OrderPaid(ctx, &snapshot, user); err != nil {
			s.log.Warn("order notification failed", zap.Stringer("order_id", snapshot.ID), zap.Error(err))
		}
	}()
}

func (s *CheckoutService) logFailure(msg string, userID uuid.UUID, err error) {
	switch {
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrCheckoutInProgress),
		errors.Is(err, ErrOrderNotPending),
		errors.Is(err, ErrNotFound):
		return
	}
	s.log.Error(msg, zap.Stringer("user_id", userID), zap.Error(err))
}
