package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cdainvest/portal-system/internal/api"
	"github.com/cdainvest/portal-system/internal/core/ports"
	"github.com/cdainvest/portal-system/internal/core/service"
	"github.com/cdainvest/portal-system/internal/infrastructure/config"
	mongodb "github.com/cdainvest/portal-system/internal/infrastructure/db/mongo"
	redisdb "github.com/cdainvest/portal-system/internal/infrastructure/db/redis"
	"github.com/cdainvest/portal-system/internal/infrastructure/mail"
	"github.com/cdainvest/portal-system/pkg/logger"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Open(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Open(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories and stores ---
	userRepo := mongodb.NewUserRepository(db)
	docRepo := mongodb.NewDocumentRepository(db)
	contactRepo := mongodb.NewContactRepository(db)
	profileRepo := mongodb.NewProfileRepository(db)
	downloadRepo := mongodb.NewDownloadRepository(db)

	captchaStore := redisdb.NewCaptchaStore(rdb)
	otpStore := redisdb.NewOTPStore(rdb)
	denylist := redisdb.NewTokenDenylist(rdb)

	var mailer ports.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			From: cfg.SMTP.From,
		})
	} else {
		log.Warn().Msg("SMTP_HOST not set, OTP codes will only be logged")
		mailer = &mail.LogMailer{Log: log}
	}

	// --- Services ---
	otpService := service.NewOTPService(otpStore, mailer, log)
	captchaService := service.NewCaptchaService(captchaStore)
	authService := service.NewAuthService(userRepo, otpService, denylist, cfg.JWTSecret, cfg.TokenTTL)
	docService := service.NewDocumentService(docRepo, downloadRepo)
	engagementService := service.NewEngagementService(contactRepo, profileRepo, downloadRepo, docRepo, userRepo)

	e := api.NewRouter(api.Deps{
		Auth:       authService,
		Captcha:    captchaService,
		OTP:        otpService,
		Documents:  docService,
		Engagement: engagementService,
		Users:      userRepo,
		Denylist:   denylist,
		JWTSecret:  cfg.JWTSecret,
		Log:        log,
		Mongo:      db,
		Redis:      rdb,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("portal api listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
