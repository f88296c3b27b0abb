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

	"github.com/mkazak/authgate/internal/api/http/router"
	httpServer "github.com/mkazak/authgate/internal/api/http/server"
	"github.com/mkazak/authgate/internal/config"
	"github.com/mkazak/authgate/internal/logger"
	"github.com/mkazak/authgate/internal/model"
	"github.com/mkazak/authgate/internal/notify"
	"github.com/mkazak/authgate/internal/repository/postgres"
	"github.com/mkazak/authgate/internal/server"
	"github.com/mkazak/authgate/internal/service"
	"github.com/mkazak/authgate/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

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
	tokenRepo := postgres.NewTokenRecordRepository(db)
	signer := token.NewJWT(cfg.JWT.Secret)
	rights := model.DefaultRights()

	notifier, err := notify.NewSMTPNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	if err != nil {
		logger.Fatal("failed to create smtp notifier", "error", err)
	}
	mailer := notify.NewEmailService(notifier, cfg.AppURL)

	tokenService := service.NewTokenService(signer, tokenRepo, service.TTLConfig{
		Access:        cfg.JWT.AccessTTL,
		Refresh:       cfg.JWT.RefreshTTL,
		ResetPassword: cfg.JWT.ResetPasswordTTL,
		VerifyEmail:   cfg.JWT.VerifyEmailTTL,
	}, logger)
	authService := service.NewAuth(userRepo, tokenService, mailer, logger)
	userService := service.NewUser(userRepo, logger)

	r := router.New(authService, userService, signer, userRepo, rights, logger)
	app := r.Register()
	srv := httpServer.NewHTTPServer(app, fmt.Sprintf(":%s", cfg.HTTP.Port))

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
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
