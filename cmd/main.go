package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpctx "github.com/priorly/priorly-server/internal/api/http/context"
	"github.com/priorly/priorly-server/internal/api/http/handler"
	"github.com/priorly/priorly-server/internal/api/http/middleware"
	"github.com/priorly/priorly-server/internal/api/http/router"
	"github.com/priorly/priorly-server/internal/config"
	"github.com/priorly/priorly-server/internal/logger"
	"github.com/priorly/priorly-server/internal/mail"
	"github.com/priorly/priorly-server/internal/model"
	"github.com/priorly/priorly-server/internal/repository/postgres"
	"github.com/priorly/priorly-server/internal/security"
	"github.com/priorly/priorly-server/internal/server"
	"github.com/priorly/priorly-server/internal/service"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const sweepInterval = time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	otpRepo := postgres.NewOTPRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	todoRepo := postgres.NewTodoRepository(db)

	hasher := security.NewBcryptHasher()

	var sender model.MailSender
	if cfg.SMTP.Username != "" {
		sender = mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, cfg.Client.URI, logger)
	} else {
		logger.Info("no SMTP credentials configured, mail delivery disabled")
		sender = mail.NoopSender{}
	}

	otpService := service.NewOTP(otpRepo, logger)
	sessionService := service.NewSession(userRepo, sessionRepo, logger)
	authService := service.NewAuth(userRepo, todoRepo, otpService, sessionService, hasher, sender, logger)
	todoService := service.NewTodo(todoRepo, logger)

	ctxMgr := httpctx.NewManager()

	authHandler := handler.NewAuth(authService, sessionService, ctxMgr, logger)
	userHandler := handler.NewUser(authService, ctxMgr, logger)
	todoHandler := handler.NewTodo(todoService, ctxMgr, logger)

	authenticate := middleware.NewAuthenticate(sessionService, ctxMgr, logger)
	logging := middleware.NewLogging(logger)

	mux := router.New(authHandler, userHandler, todoHandler, authenticate, logging)
	httpServer := server.NewHTTPServer(mux, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runSweeper(ctx, otpService, sessionService)
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// runSweeper periodically removes expired verification codes and
// sessions. Expiry checks at read time stay authoritative; this only
// keeps the tables small.
func runSweeper(ctx context.Context, otps *service.OTP, sessions *service.Session) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			otps.Sweep(ctx)
			sessions.Sweep(ctx)
		}
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
