package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager moves the authenticated identity between the transport
// layer and handlers.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
	SetSessionIDToContext(ctx context.Context, sessionID uuid.UUID) context.Context
	GetSessionIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
