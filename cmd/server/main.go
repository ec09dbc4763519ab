package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/fintrack/internal/api"
	"github.com/rongwang/fintrack/internal/auth"
	"github.com/rongwang/fintrack/internal/config"
	"github.com/rongwang/fintrack/internal/mailer"
	"github.com/rongwang/fintrack/internal/repository"
	"github.com/rongwang/fintrack/internal/service"
	"github.com/rongwang/fintrack/internal/storage"
	"github.com/rongwang/fintrack/internal/utils"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up database connection
	db, err := config.SetupDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewSQLRepository(db)

	if cfg.Database.SeedDefaults {
		created, err := repository.SeedDefaults(ctx, repo)
		if err != nil {
			return err
		}
		log.Info(ctx, "default types seeded", "created", created)
	}

	var mail mailer.Mailer = mailer.NewLogMailer(log)
	if cfg.Mail.AMQPURL != "" {
		amqpMailer, err := mailer.DialAMQP(cfg.Mail.AMQPURL, cfg.Mail.Exchange, cfg.Mail.Queue)
		if err != nil {
			return err
		}
		defer amqpMailer.Close()
		mail = amqpMailer
	}

	var presigner storage.Presigner
	if cfg.Storage.Bucket != "" {
		s3Presigner, err := storage.NewS3Presigner(ctx, storage.Options{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			TTL:       cfg.Storage.PresignTTL,
		})
		if err != nil {
			return err
		}
		presigner = s3Presigner
	} else {
		log.Warn(ctx, "S3_BUCKET not set, attachments disabled")
	}

	// Create service
	svc := service.NewDefaultService(repo, service.Dependencies{
		Tokens:        auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL),
		Mailer:        mail,
		Storage:       presigner,
		Logger:        log,
		ResetTokenTTL: cfg.Auth.ResetTokenTTL,
		MailFrom:      cfg.Mail.From,
	})

	// Set up Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.NewHandler(svc, log).SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		log.Info(shutdownCtx, "shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
