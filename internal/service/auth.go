package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/repository"
	"github.com/example/academy/internal/utils"
)

type AuthConfig struct {
	LoginAfterSignup         bool
	RedirectAfterSignupLogin string
}

type AuthService struct {
	repo     *repository.Repository
	otp      *OTPService
	tokens   *utils.TokenIssuer
	validate *validator.Validate
	cfg      AuthConfig
	log      *zap.Logger
}

func NewAuthService(repo *repository.Repository, otp *OTPService, tokens *utils.TokenIssuer, cfg AuthConfig, log *zap.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		otp:      otp,
		tokens:   tokens,
		validate: utils.NewValidator(),
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Username    string `json:"username" validate:"required,username"`
	Email       string `json:"email" validate:"required,email,max=254"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
}

// Register creates an inactive account and sends a registration code to
// its phone number.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		IsActive:     false,
	}

	var otp *models.OTPCode
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		field, err := tx.Users.Conflict(ctx, user)
		if err != nil {
			return err
		}
		if field != "" {
			return &ConflictError{Field: field}
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		otp, err = s.otp.issueTx(ctx, tx, user.PhoneNumber, models.OTPPurposeRegister)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.otp.deliver(otp)
	s.log.Info("user registered", zap.Stringer("user_id", user.ID))
	return user, nil
}

type ActivateInput struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Code        string `json:"code" validate:"required"`
}

// ActivationResult carries a session when login-after-signup is enabled.
type ActivationResult struct {
	User     *models.User `json:"user"`
	Token    string       `json:"token,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
}

// Activate consumes a registration code and marks the account active.
func (s *AuthService) Activate(ctx context.Context, in ActivateInput) (*ActivationResult, error) {
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.otp.Verify(ctx, in.PhoneNumber, models.OTPPurposeRegister, in.Code, func(tx *repository.Repository) error {
		n, err := tx.Users.Activate(ctx, in.PhoneNumber)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrInvalidOrExpiredCode
		}
		user, err = tx.Users.GetByIdentifier(ctx, in.PhoneNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	res := &ActivationResult{User: user}
	if s.cfg.LoginAfterSignup {
		token, err := s.tokens.Issue(user.ID)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		res.Token = token
		res.Redirect = s.cfg.RedirectAfterSignupLogin
	}
	return res, nil
}

type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Login accepts a username, email or phone number as the identifier.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	if err := validateInput(s.validate, in); err != nil {
		return nil, "", err
	}

	user, err := s.repo.Users.GetByIdentifier(ctx, normalizeIdentifier(in.Identifier))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.IsActive || !utils.CheckPassword(user.PasswordHash, in.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

type ForgotPasswordInput struct {
	Identifier string `json:"identifier" validate:"required"`
}

// ForgotPassword sends a reset code to the phone of the matching account
// and returns that phone number masked.
func (s *AuthService) ForgotPassword(ctx context.Context, in ForgotPasswordInput) (string, error) {
	if err := validateInput(s.validate, in); err != nil {
		return "", err
	}

	user, err := s.repo.Users.GetByIdentifier(ctx, normalizeIdentifier(in.Identifier))
	if err != nil {
		return "", err
	}

	if _, err := s.otp.Issue(ctx, user.PhoneNumber, models.OTPPurposeForgotPassword); err != nil {
		return "", err
	}
	return maskPhone(user.PhoneNumber), nil
}

type ResetPasswordInput struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// ResetPassword consumes a reset code and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := validateInput(s.validate, in); err != nil {
		return err
	}

	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.otp.Verify(ctx, in.PhoneNumber, models.OTPPurposeForgotPassword, in.Code, func(tx *repository.Repository) error {
		user, err := tx.Users.GetByIdentifier(ctx, in.PhoneNumber)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredCode
		}
		if err != nil {
			return err
		}
		return tx.Users.UpdatePassword(ctx, user.ID, hash)
	})
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput) error {
	if err := validateInput(s.validate, in); err != nil {
		return err
	}

	user, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.PasswordHash, in.OldPassword) {
		return &ValidationError{Field: "old_password", Message: "is incorrect"}
	}

	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Users.UpdatePassword(ctx, user.ID, hash)
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.Users.GetByID(ctx, userID)
}

type ProfileInput struct {
	Username  string `json:"username" validate:"required,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	About     string `json:"about" validate:"max=2000"`
}

// UpdateProfile rewrites the editable profile fields. Username and email
// must stay unique.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		user, err = tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		user.Username = in.Username
		user.Email = in.Email
		user.FirstName = in.FirstName
		user.LastName = in.LastName
		user.About = in.About

		probe := &models.User{Username: user.Username, Email: user.Email}
		probe.ID = user.ID
		field, err := tx.Users.Conflict(ctx, probe)
		if err != nil {
			return err
		}
		if field != "" {
			return &ConflictError{Field: field}
		}
		return tx.Users.UpdateProfile(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return strings.ToLower(identifier)
	}
	return identifier
}

func maskPhone(phone string) string {
	if len(phone) < 7 {
		return phone
	}
	return phone[:4] + strings.Repeat("*", len(phone)-7) + phone[len(phone)-3:]
}
