package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput() RegisterInput {
	return RegisterInput{
		Username:    "learner1",
		Email:       "Learner@Example.com",
		PhoneNumber: testPhone,
		Password:    "s3cretpass",
		FirstName:   "Ali",
	}
}

func TestRegisterActivateLogin(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	sender := &mockSender{}
	auth := newAuth(repo, newOTP(repo, sender, "12345"), AuthConfig{})

	user, err := auth.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.Equal(t, "learner@example.com", user.Email)

	_, _, err = auth.Login(ctx, LoginInput{Identifier: "learner1", Password: "s3cretpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Activate(ctx, ActivateInput{PhoneNumber: testPhone, Code: "54321"})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)

	res, err := auth.Activate(ctx, ActivateInput{PhoneNumber: testPhone, Code: "12345"})
	require.NoError(t, err)
	assert.True(t, res.User.IsActive)
	assert.Empty(t, res.Token)

	_, err = auth.Activate(ctx, ActivateInput{PhoneNumber: testPhone, Code: "12345"})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)

	for _, identifier := range []string{"learner1", "LEARNER@example.com", testPhone} {
		got, token, err := auth.Login(ctx, LoginInput{Identifier: identifier, Password: "s3cretpass"})
		require.NoError(t, err, identifier)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, token)
	}

	_, _, err = auth.Login(ctx, LoginInput{Identifier: "learner1", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Eventually(t, func() bool { return len(sender.Sent()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestActivateWithExpiredCode(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	otp := newOTP(repo, nil, "12345")
	auth := newAuth(repo, otp, AuthConfig{})

	_, err := auth.Register(ctx, registerInput())
	require.NoError(t, err)

	otp.now = func() time.Time { return baseTime.Add(5 * time.Minute) }
	_, err = auth.Activate(ctx, ActivateInput{PhoneNumber: testPhone, Code: "12345"})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)

	user, err := repo.Users.GetByIdentifier(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, user.IsActive)
}

func TestActivateLogsInAfterSignup(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	auth := newAuth(repo, newOTP(repo, nil, "12345"), AuthConfig{
		LoginAfterSignup:         true,
		RedirectAfterSignupLogin: "/courses",
	})

	_, err := auth.Register(ctx, registerInput())
	require.NoError(t, err)

	res, err := auth.Activate(ctx, ActivateInput{PhoneNumber: testPhone, Code: "12345"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "/courses", res.Redirect)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	auth := newAuth(repo, newOTP(repo, nil, "12345"), AuthConfig{})

	_, err := auth.Register(ctx, registerInput())
	require.NoError(t, err)

	dup := registerInput()
	dup.PhoneNumber = "09120000000"
	dup.Email = "other@example.com"
	_, err = auth.Register(ctx, dup)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	dup = registerInput()
	dup.Username = "learner2"
	dup.Email = "other@example.com"
	_, err = auth.Register(ctx, dup)
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "phone_number", conflict.Field)

	cases := map[string]func(in *RegisterInput){
		"phone_number": func(in *RegisterInput) { in.PhoneNumber = "08123456789" },
		"username":     func(in *RegisterInput) { in.Username = "1abcde" },
		"email":        func(in *RegisterInput) { in.Email = "not-an-email" },
		"password":     func(in *RegisterInput) { in.Password = "short" },
	}
	for field, mutate := range cases {
		in := registerInput()
		in.Username = "fresh1"
		in.Email = "fresh@example.com"
		in.PhoneNumber = "09129999999"
		mutate(&in)

		_, err := auth.Register(ctx, in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, field)
		assert.Equal(t, field, verr.Field)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	auth := newAuth(repo, newOTP(repo, nil, "24680"), AuthConfig{})
	user := createUser(t, repo, 0, false)

	masked, err := auth.ForgotPassword(ctx, ForgotPasswordInput{Identifier: user.Email})
	require.NoError(t, err)
	assert.Equal(t, user.PhoneNumber[:4]+"****"+user.PhoneNumber[8:], masked)

	_, err = auth.ForgotPassword(ctx, ForgotPasswordInput{Identifier: user.Username})
	assert.ErrorIs(t, err, ErrResendCooldown)

	err = auth.ResetPassword(ctx, ResetPasswordInput{PhoneNumber: user.PhoneNumber, Code: "13579", NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)

	err = auth.ResetPassword(ctx, ResetPasswordInput{PhoneNumber: user.PhoneNumber, Code: "24680", NewPassword: "brand-new-pass"})
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, LoginInput{Identifier: user.Username, Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, LoginInput{Identifier: user.Username, Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestForgotPasswordUnknownUser(t *testing.T) {
	repo := newRepo(t)
	auth := newAuth(repo, newOTP(repo, nil), AuthConfig{})

	_, err := auth.ForgotPassword(context.Background(), ForgotPasswordInput{Identifier: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	auth := newAuth(repo, newOTP(repo, nil), AuthConfig{})
	user := createUser(t, repo, 0, false)

	err := auth.ChangePassword(ctx, user.ID, ChangePasswordInput{OldPassword: "nope-nope", NewPassword: "another-pass"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "old_password", verr.Field)

	require.NoError(t, auth.ChangePassword(ctx, user.ID, ChangePasswordInput{OldPassword: "password123", NewPassword: "another-pass"}))
	_, _, err = auth.Login(ctx, LoginInput{Identifier: user.Email, Password: "another-pass"})
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	auth := newAuth(repo, newOTP(repo, nil), AuthConfig{})
	user := createUser(t, repo, 0, false)
	other := createUser(t, repo, 0, false)

	_, err := auth.UpdateProfile(ctx, user.ID, ProfileInput{Username: other.Username, Email: user.Email})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)

	updated, err := auth.UpdateProfile(ctx, user.ID, ProfileInput{
		Username:  "renamed1",
		Email:     user.Email,
		FirstName: "Sara",
		About:     "teaches go",
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed1", updated.Username)

	stored, err := auth.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed1", stored.Username)
	assert.Equal(t, "Sara", stored.FirstName)
	assert.Equal(t, "teaches go", stored.About)
	assert.Equal(t, user.PhoneNumber, stored.PhoneNumber)
	assert.Zero(t, stored.Balance)
}
