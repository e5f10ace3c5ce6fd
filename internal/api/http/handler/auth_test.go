package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/priorly/priorly-server/internal/api/http/context"
	"github.com/priorly/priorly-server/internal/mocks"
	"github.com/priorly/priorly-server/internal/model"
	"github.com/priorly/priorly-server/internal/testutil"
)

func postJSON(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAuth_Signup_Success(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	sessions := mocks.NewSessionResolver(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("RequestSignup", mock.Anything, model.SignupParams{
		Name:            "Ann Lee",
		Email:           "ann@mail.co",
		Password:        "Sup3r-secret",
		ConfirmPassword: "Sup3r-secret",
	}).Return(nil)

	h := NewAuth(svc, sessions, cm, lg)

	req := postJSON(t, "/api/auth/signup", map[string]string{
		"name":            "Ann Lee",
		"email":           "ann@mail.co",
		"password":        "Sup3r-secret",
		"confirmPassword": "Sup3r-secret",
	})
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SUCCESS", decodeResponse(t, rec).Rescode)
}

func TestAuth_Signup_RejectsLoggedInCaller(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	sessions := mocks.NewSessionResolver(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	token := uuid.New()
	sessions.On("Resolve", mock.Anything, token.String()).Return(model.Session{ID: token, UserID: uuid.New()}, nil)

	h := NewAuth(svc, sessions, cm, lg)

	req := postJSON(t, "/api/auth/signup", map[string]string{"email": "ann@mail.co"})
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token.String()})
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "RequestSignup", mock.Anything, mock.Anything)
}

func TestAuth_Signup_ValidationErrorsInEnvelope(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	sessions := mocks.NewSessionResolver(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	ve := model.NewValidationError()
	ve.Add("email", "Please enter a valid email")
	svc.On("RequestSignup", mock.Anything, mock.Anything).Return(ve)

	h := NewAuth(svc, sessions, cm, lg)

	req := postJSON(t, "/api/auth/signup", map[string]string{"email": "bad"})
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "ERROR", resp.Rescode)
	assert.Contains(t, resp.Errors, "email")
}

func TestAuth_VerifySignup_SetsCookie(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	sessions := mocks.NewSessionResolver(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	session := model.Session{ID: uuid.New(), UserID: uuid.New()}
	svc.On("CompleteSignup", mock.Anything, 123456, "ann@mail.co").
		Return(model.User{ID: session.UserID, Email: "ann@mail.co"}, session, nil)

	h := NewAuth(svc, sessions, cm, lg)

	req := postJSON(t, "/api/auth/signup/verify", map[string]any{"email": "ann@mail.co", "otp": 123456})
	rec := httptest.NewRecorder()
	h.VerifySignup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, session.ID.String(), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuth_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	sessions := mocks.NewSessionResolver(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("Login", mock.Anything, "ann@mail.co", "wrong").
		Return(model.User{}, model.Session{}, model.ErrInvalidCredentials)

	h := NewAuth(svc, sessions, cm, lg)

	req := postJSON(t, "/api/auth/login", map[string]string{"email": "ann@mail.co", "password": "wrong"})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuth_Logout_ClearsCookieWithoutToken(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	sessions := mocks.NewSessionResolver(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	h := NewAuth(svc, sessions, cm, lg)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	svc.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
}

func TestAuth_Logout_RevokesBearerToken(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	sessions := mocks.NewSessionResolver(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	token := uuid.New().String()
	svc.On("Logout", mock.Anything, token).Return(nil)

	h := NewAuth(svc, sessions, cm, lg)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_ForgotPassword_AlwaysSucceedsForWellFormedRequest(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	sessions := mocks.NewSessionResolver(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("RequestPasswordReset", mock.Anything, "ghost@mail.co").Return(nil)

	h := NewAuth(svc, sessions, cm, lg)

	req := postJSON(t, "/api/auth/forgot", map[string]string{"email": "ghost@mail.co"})
	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_VerifyForgotPassword_InvalidCode(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	sessions := mocks.NewSessionResolver(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("CompletePasswordReset", mock.Anything, 123456, "ann@mail.co", "N3w-password!", "N3w-password!").
		Return(model.ErrInvalidOrExpiredOTP)

	h := NewAuth(svc, sessions, cm, lg)

	req := postJSON(t, "/api/auth/forgot/verify", map[string]any{
		"email":           "ann@mail.co",
		"otp":             123456,
		"password":        "N3w-password!",
		"confirmPassword": "N3w-password!",
	})
	rec := httptest.NewRecorder()
	h.VerifyForgotPassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
