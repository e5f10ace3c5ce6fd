package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/priorly/priorly-server/internal/logger"
	"github.com/priorly/priorly-server/internal/model"
	"github.com/priorly/priorly-server/internal/security"
)

// Auth composes the credential store, the OTP ledger and the session
// registry into the account flows: signup, login, logout, password and
// email changes, account deletion. Business failures cross this
// boundary as typed model errors; storage failures are wrapped and
// logged by the transport layer as internal errors.
type Auth struct {
	users    model.UserStore
	todos    model.TodoStore
	otps     *OTP
	sessions *Session
	hasher   security.PasswordHasher
	mail     model.MailSender
	logger   *logger.Logger
}

func NewAuth(
	users model.UserStore,
	todos model.TodoStore,
	otps *OTP,
	sessions *Session,
	hasher security.PasswordHasher,
	mail model.MailSender,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:    users,
		todos:    todos,
		otps:     otps,
		sessions: sessions,
		hasher:   hasher,
		mail:     mail,
		logger:   logger,
	}
}

// RequestSignup validates the registration details, stashes them behind
// a SIGNUP code and mails the code. The user row is not created yet;
// that happens when the code is consumed.
func (a *Auth) RequestSignup(ctx context.Context, req model.SignupParams) error {
	a.logger.Debug("Auth service: starting signup", "email", req.Email)

	ve := model.NewValidationError()
	validateName(ve, "name", req.Name)
	validateEmail(ve, "email", req.Email)
	validatePasswordPair(ve, req.Password, req.ConfirmPassword)
	if !ve.Empty() {
		return ve
	}

	email := normalizeEmail(req.Email)

	_, err := a.users.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: signup for taken email", "email", email)
		return model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := a.otps.RequestCode(ctx, email, model.OTPOperationSignup, OTPPayload{
		Name:         req.Name,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}

	a.mail.Send(ctx, email, "Verify your Priorly account", model.MailTemplateSignupOTP, map[string]string{
		"otp": strconv.Itoa(code),
	})

	a.logger.Info("Auth service: signup code issued", "email", email)

	return nil
}

// CompleteSignup consumes the SIGNUP code, creates the user and issues
// the first session. If user creation fails after the code is consumed
// the code is gone and the user must sign up again; that window is a
// deliberate trade-off, not a bug to paper over here.
func (a *Auth) CompleteSignup(ctx context.Context, code int, email string) (model.User, model.Session, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Auth service: completing signup", "email", email)

	payload, err := a.otps.Consume(ctx, code, email, model.OTPOperationSignup)
	if err != nil {
		return model.User{}, model.Session{}, err
	}

	now := time.Now()
	user, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: payload.PasswordHash,
		Name:         payload.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		a.logger.Error("Auth service: user creation failed after otp consume",
			"email", email,
			"error", err.Error())
		return model.User{}, model.Session{}, err
	}

	session, err := a.sessions.Issue(ctx, user.ID)
	if err != nil {
		return model.User{}, model.Session{}, fmt.Errorf("failed to issue session: %w", err)
	}

	a.mail.Send(ctx, email, "Welcome to Priorly!", model.MailTemplateWelcome, nil)

	a.logger.Info("Auth service: signup completed",
		"email", email,
		"user_id", user.ID)

	return user, session, nil
}

// Login verifies credentials and issues a session. Unknown email and
// wrong password share ErrInvalidCredentials, and the unknown-email
// path still runs a hash verification so the two are not separable by
// timing either.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, model.Session, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Auth service: login attempt", "email", email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.hasher.Verify(security.DummyHash, password)
			return model.User{}, model.Session{}, model.ErrInvalidCredentials
		}
		return model.User{}, model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(user.PasswordHash, password) {
		return model.User{}, model.Session{}, model.ErrInvalidCredentials
	}

	session, err := a.sessions.Issue(ctx, user.ID)
	if err != nil {
		return model.User{}, model.Session{}, fmt.Errorf("failed to issue session: %w", err)
	}

	a.logger.Info("Auth service: login successful", "user_id", user.ID)

	return user, session, nil
}

// Logout revokes the presented token; idempotent.
func (a *Auth) Logout(ctx context.Context, token string) error {
	return a.sessions.Revoke(ctx, token)
}

// LogoutAll revokes every session of the user.
func (a *Auth) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return a.sessions.RevokeAll(ctx, userID, nil)
}

// RequestPasswordReset issues a FORGOT_PASSWORD code. Unknown emails
// succeed silently so the endpoint cannot be used to probe for
// registered addresses.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	_, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: password reset for unknown email", "email", email)
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	code, err := a.otps.RequestCode(ctx, email, model.OTPOperationForgotPassword, OTPPayload{})
	if err != nil {
		return err
	}

	a.mail.Send(ctx, email, "Reset your Priorly password", model.MailTemplateForgotOTP, map[string]string{
		"otp": strconv.Itoa(code),
	})

	a.logger.Info("Auth service: password reset code issued", "email", email)

	return nil
}

// CompletePasswordReset consumes the code, replaces the password hash
// and revokes every session of the user. The revocation is mandatory:
// a password reset must log the account out everywhere.
func (a *Auth) CompletePasswordReset(ctx context.Context, code int, email, password, confirmPassword string) error {
	email = normalizeEmail(email)

	ve := model.NewValidationError()
	validatePasswordPair(ve, password, confirmPassword)
	if !ve.Empty() {
		return ve
	}

	if _, err := a.otps.Consume(ctx, code, email, model.OTPOperationForgotPassword); err != nil {
		return err
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// the account vanished between code issue and consumption
			return model.ErrUnknownUser
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := a.sessions.RevokeAll(ctx, user.ID, nil); err != nil {
		return err
	}

	a.mail.Send(ctx, email, "Your Priorly password was changed", model.MailTemplatePasswordChanged, nil)

	a.logger.Info("Auth service: password reset completed", "user_id", user.ID)

	return nil
}

// ChangePassword replaces the password of an authenticated user after
// re-verifying the current one, then revokes every other session so
// only the tab performing the change stays logged in.
func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID, currentPassword, password, confirmPassword string) error {
	ve := model.NewValidationError()
	validatePasswordPair(ve, password, confirmPassword)
	if !ve.Empty() {
		return ve
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !a.hasher.Verify(user.PasswordHash, currentPassword) {
		return model.ErrInvalidCredentials
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := a.sessions.RevokeAll(ctx, userID, &sessionID); err != nil {
		return err
	}

	a.mail.Send(ctx, user.Email, "Your Priorly password was changed", model.MailTemplatePasswordChanged, nil)

	a.logger.Info("Auth service: password changed", "user_id", userID)

	return nil
}

// ChangeName validates and applies a display-name change.
func (a *Auth) ChangeName(ctx context.Context, userID uuid.UUID, newName string) (model.User, error) {
	ve := model.NewValidationError()
	validateName(ve, "newName", newName)
	if !ve.Empty() {
		return model.User{}, ve
	}

	if err := a.users.UpdateName(ctx, userID, newName); err != nil {
		return model.User{}, fmt.Errorf("failed to update name: %w", err)
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	a.logger.Info("Auth service: name changed", "user_id", userID)

	return user, nil
}

// RequestEmailChange starts the triple-gated email change: the caller
// is already authenticated, must re-confirm the password here, and the
// code is delivered to the new address to prove control of it. The
// ledger record stays bound to the account's current email.
func (a *Auth) RequestEmailChange(ctx context.Context, userID uuid.UUID, password, newEmail string) error {
	ve := model.NewValidationError()
	validateEmail(ve, "newEmail", newEmail)
	if !ve.Empty() {
		return ve
	}

	newEmail = normalizeEmail(newEmail)

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !a.hasher.Verify(user.PasswordHash, password) {
		return model.ErrInvalidCredentials
	}

	_, err = a.users.GetByEmail(ctx, newEmail)
	if err == nil {
		return model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	code, err := a.otps.RequestCode(ctx, user.Email, model.OTPOperationChangeEmail, OTPPayload{
		NewEmail: newEmail,
	})
	if err != nil {
		return err
	}

	a.mail.Send(ctx, newEmail, "Confirm your new Priorly email", model.MailTemplateEmailChangeOTP, map[string]string{
		"otp": strconv.Itoa(code),
	})

	a.logger.Info("Auth service: email change code issued",
		"user_id", userID,
		"new_email", newEmail)

	return nil
}

// CompleteEmailChange consumes the CHANGE_EMAIL code and applies the
// new address, notifying both mailboxes.
func (a *Auth) CompleteEmailChange(ctx context.Context, userID uuid.UUID, code int) (model.User, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	payload, err := a.otps.Consume(ctx, code, user.Email, model.OTPOperationChangeEmail)
	if err != nil {
		return model.User{}, err
	}

	if err := a.users.UpdateEmail(ctx, userID, payload.NewEmail); err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			// the address was claimed between request and consumption
			return model.User{}, model.ErrDuplicateEmail
		}
		return model.User{}, fmt.Errorf("failed to update email: %w", err)
	}

	a.mail.Send(ctx, user.Email, "Your Priorly email was changed", model.MailTemplateEmailChangedOld, map[string]string{
		"newEmail": payload.NewEmail,
	})
	a.mail.Send(ctx, payload.NewEmail, "Your Priorly email was changed", model.MailTemplateEmailChangedNew, nil)

	a.logger.Info("Auth service: email changed",
		"user_id", userID,
		"new_email", payload.NewEmail)

	user.Email = payload.NewEmail
	return user, nil
}

// Profile returns the account details for the authenticated user.
func (a *Auth) Profile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// DeleteAccount verifies the password and removes the account. Cleanup
// is spelled out step by step (todos, sessions, then the user row);
// the schema's cascading foreign keys back this up should a step be
// interrupted.
func (a *Auth) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !a.hasher.Verify(user.PasswordHash, password) {
		return model.ErrInvalidCredentials
	}

	if err := a.todos.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete todos: %w", err)
	}

	if err := a.sessions.RevokeAll(ctx, userID, nil); err != nil {
		return err
	}

	if err := a.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	a.mail.Send(ctx, user.Email, "Your Priorly account was deleted", model.MailTemplateGoodbye, nil)

	a.logger.Info("Auth service: account deleted", "user_id", userID)

	return nil
}
