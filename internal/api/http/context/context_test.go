package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_UserIDRoundTrip(t *testing.T) {
	m := NewManager()
	uid := uuid.New()

	ctx := m.SetUserIDToContext(stdctx.Background(), uid)

	got, ok := m.GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, uid, got)
}

func TestManager_SessionIDRoundTrip(t *testing.T) {
	m := NewManager()
	sid := uuid.New()

	ctx := m.SetSessionIDToContext(stdctx.Background(), sid)

	got, ok := m.GetSessionIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, sid, got)
}

func TestManager_MissingValues(t *testing.T) {
	m := NewManager()

	_, ok := m.GetUserIDFromContext(stdctx.Background())
	assert.False(t, ok)

	_, ok = m.GetSessionIDFromContext(stdctx.Background())
	assert.False(t, ok)
}
