package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/priorly/priorly-server/internal/logger"
	"github.com/priorly/priorly-server/internal/model"
)

// UserService defines the authenticated account operations.
type UserService interface {
	Profile(ctx context.Context, userID uuid.UUID) (model.User, error)
	ChangeName(ctx context.Context, userID uuid.UUID, newName string) (model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID, currentPassword, password, confirmPassword string) error
	RequestEmailChange(ctx context.Context, userID uuid.UUID, password, newEmail string) error
	CompleteEmailChange(ctx context.Context, userID uuid.UUID, code int) (model.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error
}

// User handles the authenticated account endpoints.
type User struct {
	service        UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewUser(service UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

type userDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func userResponse(user model.User) userDTO {
	return userDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

func (h *User) identity(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	user, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		h.logError(r, "profile", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile details", userResponse(user))
}

type changeNameRequest struct {
	NewName string `json:"newName"`
}

func (h *User) ChangeName(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req changeNameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.ChangeName(r.Context(), userID, req.NewName)
	if err != nil {
		h.logError(r, "change name", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Name updated", userResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *User) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	sessionID, ok := h.contextManager.GetSessionIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.service.ChangePassword(r.Context(), userID, sessionID, req.CurrentPassword, req.Password, req.ConfirmPassword)
	if err != nil {
		h.logError(r, "change password", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password updated", nil)
}

type changeEmailRequest struct {
	Password string `json:"password"`
	NewEmail string `json:"newEmail"`
}

func (h *User) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req changeEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.RequestEmailChange(r.Context(), userID, req.Password, req.NewEmail); err != nil {
		h.logError(r, "change email", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Verification code sent to the new email", nil)
}

type verifyEmailRequest struct {
	OTP int `json:"otp"`
}

func (h *User) VerifyChangeEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req verifyEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.CompleteEmailChange(r.Context(), userID, req.OTP)
	if err != nil {
		h.logError(r, "change email verification", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Email updated", userResponse(user))
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

func (h *User) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req deleteAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID, req.Password); err != nil {
		h.logError(r, "delete account", err)
		handleError(w, err)
		return
	}

	clearSessionCookie(w)
	writeSuccess(w, http.StatusOK, "Account deleted", nil)
}

func (h *User) logError(r *http.Request, op string, err error) {
	h.logger.Error("User handler: "+op+" failed",
		"path", r.URL.Path,
		"error", err.Error())
}
