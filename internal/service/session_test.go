package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/priorly/priorly-server/internal/mocks"
	"github.com/priorly/priorly-server/internal/model"
)

func TestSession_Issue_Success(t *testing.T) {
	ctx := context.Background()
	users := &servermocks.UserStore{}
	store := &servermocks.SessionStore{}
	log := testLogger()

	userID := uuid.New()
	users.On("GetByID", mock.Anything, userID).Return(model.User{ID: userID}, nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(s model.Session) bool {
		return s.UserID == userID && s.ExpiresAt.Sub(s.CreatedAt) == model.SessionTTL
	})).Return(nil)

	s := NewSession(users, store, log)

	session, err := s.Issue(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.Equal(t, userID, session.UserID)
}

func TestSession_Issue_UnknownUser(t *testing.T) {
	ctx := context.Background()
	users := &servermocks.UserStore{}
	store := &servermocks.SessionStore{}
	log := testLogger()

	userID := uuid.New()
	users.On("GetByID", mock.Anything, userID).Return(model.User{}, model.ErrNotFound)

	s := NewSession(users, store, log)

	_, err := s.Issue(ctx, userID)
	assert.ErrorIs(t, err, model.ErrUnknownUser)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSession_Resolve_MalformedToken(t *testing.T) {
	ctx := context.Background()
	users := &servermocks.UserStore{}
	store := &servermocks.SessionStore{}
	log := testLogger()

	s := NewSession(users, store, log)

	_, err := s.Resolve(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, model.ErrNotFound)
	store.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_Resolve_Success(t *testing.T) {
	ctx := context.Background()
	users := &servermocks.UserStore{}
	store := &servermocks.SessionStore{}
	log := testLogger()

	sessionID := uuid.New()
	userID := uuid.New()
	store.On("GetByID", mock.Anything, sessionID, mock.AnythingOfType("time.Time")).
		Return(model.Session{ID: sessionID, UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}, nil)

	s := NewSession(users, store, log)

	session, err := s.Resolve(ctx, sessionID.String())
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
}

func TestSession_Revoke_MalformedTokenIsNoop(t *testing.T) {
	ctx := context.Background()
	users := &servermocks.UserStore{}
	store := &servermocks.SessionStore{}
	log := testLogger()

	s := NewSession(users, store, log)

	err := s.Revoke(ctx, "garbage")
	assert.NoError(t, err)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSession_RevokeAll_PassesException(t *testing.T) {
	ctx := context.Background()
	users := &servermocks.UserStore{}
	store := &servermocks.SessionStore{}
	log := testLogger()

	userID := uuid.New()
	current := uuid.New()
	store.On("DeleteAllByUser", mock.Anything, userID, &current).Return(nil)

	s := NewSession(users, store, log)

	err := s.RevokeAll(ctx, userID, &current)
	require.NoError(t, err)
	store.AssertExpectations(t)
}
