package router

import (
	"net/http"

	"github.com/priorly/priorly-server/internal/api/http/handler"
	"github.com/priorly/priorly-server/internal/api/http/middleware"
)

// New assembles the route table. The authenticate middleware guards
// everything under /api/user/ and /api/todo/ plus logout-everywhere;
// the remaining auth routes are public.
func New(
	auth *handler.Auth,
	user *handler.User,
	todo *handler.Todo,
	authenticate *middleware.Authenticate,
	logging *middleware.Logging,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", auth.Signup)
	mux.HandleFunc("POST /api/auth/signup/verify", auth.VerifySignup)
	mux.HandleFunc("POST /api/auth/login", auth.Login)
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.Handle("POST /api/auth/logout/all", authenticate.Handle(http.HandlerFunc(auth.LogoutAll)))
	mux.HandleFunc("POST /api/auth/forgot", auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/forgot/verify", auth.VerifyForgotPassword)

	mux.Handle("GET /api/user/me", authenticate.Handle(http.HandlerFunc(user.Me)))
	mux.Handle("POST /api/user/name", authenticate.Handle(http.HandlerFunc(user.ChangeName)))
	mux.Handle("POST /api/user/password", authenticate.Handle(http.HandlerFunc(user.ChangePassword)))
	mux.Handle("POST /api/user/email", authenticate.Handle(http.HandlerFunc(user.ChangeEmail)))
	mux.Handle("POST /api/user/email/verify", authenticate.Handle(http.HandlerFunc(user.VerifyChangeEmail)))
	mux.Handle("POST /api/user/delete", authenticate.Handle(http.HandlerFunc(user.DeleteAccount)))

	mux.Handle("POST /api/todo", authenticate.Handle(http.HandlerFunc(todo.Create)))
	mux.Handle("GET /api/todo/{id}", authenticate.Handle(http.HandlerFunc(todo.Get)))
	mux.Handle("POST /api/todo/all", authenticate.Handle(http.HandlerFunc(todo.List)))
	mux.Handle("POST /api/todo/count", authenticate.Handle(http.HandlerFunc(todo.Count)))
	mux.Handle("PATCH /api/todo/{id}", authenticate.Handle(http.HandlerFunc(todo.Update)))
	mux.Handle("DELETE /api/todo/{id}", authenticate.Handle(http.HandlerFunc(todo.Delete)))

	return logging.Handle(mux)
}
