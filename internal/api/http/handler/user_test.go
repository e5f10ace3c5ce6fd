package handler

import (
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

func TestUser_Me_Success(t *testing.T) {
	t.Parallel()

	svc := mocks.NewUserService(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	userID := uuid.New()
	svc.On("Profile", mock.Anything, userID).Return(model.User{ID: userID, Email: "ann@mail.co", Name: "Ann Lee"}, nil)

	h := NewUser(svc, cm, lg)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/user/me", nil), cm, userID)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ann@mail.co", data["email"])
	assert.NotContains(t, data, "passwordHash")
}

func TestUser_ChangePassword_RequiresSessionInContext(t *testing.T) {
	t.Parallel()

	svc := mocks.NewUserService(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	h := NewUser(svc, cm, lg)

	// user id present but no session id
	req := authedRequest(postJSON(t, "/api/user/password", map[string]string{}), cm, uuid.New())
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUser_ChangePassword_PassesCurrentSession(t *testing.T) {
	t.Parallel()

	svc := mocks.NewUserService(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	userID := uuid.New()
	sessionID := uuid.New()
	svc.On("ChangePassword", mock.Anything, userID, sessionID, "old", "N3w-password!", "N3w-password!").Return(nil)

	h := NewUser(svc, cm, lg)

	req := postJSON(t, "/api/user/password", map[string]string{
		"currentPassword": "old",
		"password":        "N3w-password!",
		"confirmPassword": "N3w-password!",
	})
	ctx := cm.SetUserIDToContext(req.Context(), userID)
	ctx = cm.SetSessionIDToContext(ctx, sessionID)
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUser_DeleteAccount_ClearsCookie(t *testing.T) {
	t.Parallel()

	svc := mocks.NewUserService(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	userID := uuid.New()
	svc.On("DeleteAccount", mock.Anything, userID, "Sup3r-secret").Return(nil)

	h := NewUser(svc, cm, lg)

	req := authedRequest(postJSON(t, "/api/user/delete", map[string]string{"password": "Sup3r-secret"}), cm, userID)
	rec := httptest.NewRecorder()
	h.DeleteAccount(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestUser_ChangeEmail_WrongPassword(t *testing.T) {
	t.Parallel()

	svc := mocks.NewUserService(t)
	cm := httpctx.NewManager()
	lg := testutil.MakeNoopLogger()

	userID := uuid.New()
	svc.On("RequestEmailChange", mock.Anything, userID, "wrong", "new@mail.co").Return(model.ErrInvalidCredentials)

	h := NewUser(svc, cm, lg)

	req := authedRequest(postJSON(t, "/api/user/email", map[string]string{
		"password": "wrong",
		"newEmail": "new@mail.co",
	}), cm, userID)
	rec := httptest.NewRecorder()
	h.ChangeEmail(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
