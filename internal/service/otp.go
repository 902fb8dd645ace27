package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/repository"
	"github.com/example/academy/internal/utils"
)

const (
	otpMin = 12121
	otpMax = 98989
)

type OTPConfig struct {
	RegisterTTL time.Duration
	ResetTTL    time.Duration
}

// OTPService issues and verifies one-time codes. A code is deleted by the
// verification that uses it, inside the same transaction as the action it
// unlocks.
type OTPService struct {
	repo   *repository.Repository
	sender CodeSender
	cfg    OTPConfig
	now    func() time.Time
	code   func() (string, error)
	log    *zap.Logger
}

func NewOTPService(repo *repository.Repository, sender CodeSender, cfg OTPConfig, log *zap.Logger) *OTPService {
	return &OTPService{
		repo:   repo,
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
		code:   generateCode,
		log:    log,
	}
}

// Issue creates a fresh code for phone and purpose and dispatches it.
// Password-reset codes are refused with ErrResendCooldown while a previous
// one is still valid.
func (s *OTPService) Issue(ctx context.Context, phone string, purpose models.OTPPurpose) (*models.OTPCode, error) {
	var issued *models.OTPCode
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		issued, err = s.issueTx(ctx, tx, phone, purpose)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.deliver(issued)
	return issued, nil
}

func (s *OTPService) issueTx(ctx context.Context, tx *repository.Repository, phone string, purpose models.OTPPurpose) (*models.OTPCode, error) {
	ttl, cooldown, err := s.policy(purpose)
	if err != nil {
		return nil, err
	}
	now := s.now()

	existing, err := tx.OTP.Get(ctx, phone, purpose)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, err
	case cooldown && !existing.Expired(now):
		return nil, ErrResendCooldown
	default:
		if _, err := tx.OTP.DeleteFor(ctx, phone, purpose); err != nil {
			return nil, err
		}
	}

	code, err := s.code()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	otp := &models.OTPCode{
		Code:        code,
		PhoneNumber: phone,
		Purpose:     purpose,
		ExpireTime:  now.Add(ttl),
	}
	if err := tx.OTP.Create(ctx, otp); err != nil {
		// a concurrent request for the same phone inserted first
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrResendCooldown
		}
		return nil, err
	}
	return otp, nil
}

func (s *OTPService) policy(purpose models.OTPPurpose) (time.Duration, bool, error) {
	switch purpose {
	case models.OTPPurposeRegister:
		return s.cfg.RegisterTTL, false, nil
	case models.OTPPurposeForgotPassword:
		return s.cfg.ResetTTL, true, nil
	default:
		return 0, false, fmt.Errorf("unknown otp purpose %q", purpose)
	}
}

// Verify consumes a matching unexpired code and runs apply in the same
// transaction. Wrong and expired codes both yield ErrInvalidOrExpiredCode.
// If apply fails the code survives.
func (s *OTPService) Verify(ctx context.Context, phone string, purpose models.OTPPurpose, code string, apply func(tx *repository.Repository) error) error {
	if !utils.IsNumeric(code) {
		return ErrMalformedCode
	}

	return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		otp, err := tx.OTP.GetValid(ctx, phone, purpose, code, s.now())
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredCode
		}
		if err != nil {
			return err
		}

		consumed, err := tx.OTP.Consume(ctx, otp.ID)
		if err != nil {
			return err
		}
		if !consumed {
			return ErrInvalidOrExpiredCode
		}

		if apply == nil {
			return nil
		}
		return apply(tx)
	})
}

// deliver sends the code without blocking the request.
func (s *OTPService) deliver(otp *models.OTPCode) {
	if s.sender == nil || otp == nil {
		return
	}
	phone := otp.PhoneNumber
	text := fmt.Sprintf("Your verification code is %s", otp.Code)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.sender.Send(ctx, phone, text); err != nil {
			s.log.Error("otp delivery failed", zap.String("phone", phone), zap.Error(err))
		}
	}()
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}
