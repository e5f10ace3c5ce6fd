package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/priorly/priorly-server/internal/logger"
	"github.com/priorly/priorly-server/internal/model"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "sid"

// AuthService defines the account flows the auth endpoints expose.
type AuthService interface {
	RequestSignup(ctx context.Context, req model.SignupParams) error
	CompleteSignup(ctx context.Context, code int, email string) (model.User, model.Session, error)
	Login(ctx context.Context, email, password string) (model.User, model.Session, error)
	Logout(ctx context.Context, token string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	RequestPasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, code int, email, password, confirmPassword string) error
}

// SessionResolver checks whether a presented token maps to a live
// session. The auth endpoints use it to turn away callers that are
// already logged in.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (model.Session, error)
}

// Auth handles the unauthenticated account endpoints plus logout.
type Auth struct {
	service        AuthService
	sessions       SessionResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuth(service AuthService, sessions SessionResolver, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		service:        service,
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

// ExtractToken pulls the session token from the sid cookie or the
// Authorization bearer header. Empty string when neither is present.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, session model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(model.SessionTTL / time.Second),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// rejectAuthenticated answers true and writes the response when the
// caller already holds a live session.
func (h *Auth) rejectAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	token := ExtractToken(r)
	if token == "" {
		return false
	}
	if _, err := h.sessions.Resolve(r.Context(), token); err != nil {
		return false
	}
	writeError(w, http.StatusBadRequest, "Already logged in")
	return true
}

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	if h.rejectAuthenticated(w, r) {
		return
	}

	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.service.RequestSignup(r.Context(), model.SignupParams{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.logError(r, "signup", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Verification code sent to your email", nil)
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   int    `json:"otp"`
}

func (h *Auth) VerifySignup(w http.ResponseWriter, r *http.Request) {
	if h.rejectAuthenticated(w, r) {
		return
	}

	var req verifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, session, err := h.service.CompleteSignup(r.Context(), req.OTP, req.Email)
	if err != nil {
		h.logError(r, "signup verification", err)
		handleError(w, err)
		return
	}

	setSessionCookie(w, session)
	writeSuccess(w, http.StatusCreated, "Account created", userResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if h.rejectAuthenticated(w, r) {
		return
	}

	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logError(r, "login", err)
		handleError(w, err)
		return
	}

	setSessionCookie(w, session)
	writeSuccess(w, http.StatusOK, "Logged in", userResponse(user))
}

func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	token := ExtractToken(r)
	if token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			h.logError(r, "logout", err)
			handleError(w, err)
			return
		}
	}

	clearSessionCookie(w)
	writeSuccess(w, http.StatusOK, "Logged out", nil)
}

func (h *Auth) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		h.logError(r, "logout all", err)
		handleError(w, err)
		return
	}

	clearSessionCookie(w)
	writeSuccess(w, http.StatusOK, "Logged out everywhere", nil)
}

type forgotRequest struct {
	Email string `json:"email"`
}

func (h *Auth) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logError(r, "forgot password", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "If this email is registered, a code is on its way", nil)
}

type resetRequest struct {
	Email           string `json:"email"`
	OTP             int    `json:"otp"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *Auth) VerifyForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.service.CompletePasswordReset(r.Context(), req.OTP, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		h.logError(r, "password reset", err)
		handleError(w, err)
		return
	}

	clearSessionCookie(w)
	writeSuccess(w, http.StatusOK, "Password reset, please log in again", nil)
}

func (h *Auth) logError(r *http.Request, op string, err error) {
	h.logger.Error("Auth handler: "+op+" failed",
		"path", r.URL.Path,
		"error", err.Error())
}
