package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/priorly/priorly-server/internal/api/http/handler"
	"github.com/priorly/priorly-server/internal/logger"
	"github.com/priorly/priorly-server/internal/model"
)

// SessionResolver resolves a bare token into a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (model.Session, error)
}

// Authenticate resolves the session token and injects the user and
// session identities into the request context.
type Authenticate struct {
	sessions       SessionResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(sessions SessionResolver, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := handler.ExtractToken(r)
		if token == "" {
			m.unauthorized(w, "Not authenticated")
			return
		}

		session, err := m.sessions.Resolve(r.Context(), token)
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				m.logger.Error("Authenticate middleware: session resolution failed",
					"path", r.URL.Path,
					"error", err.Error())
			}
			m.unauthorized(w, "Session expired or invalid")
			return
		}

		ctx := m.contextManager.SetUserIDToContext(r.Context(), session.UserID)
		ctx = m.contextManager.SetSessionIDToContext(ctx, session.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Authenticate) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(handler.Response{
		Rescode: "ERROR",
		Message: message,
		Error:   message,
	})
}
