package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/auth"
	"github.com/toqasaad97/invoice/internal/config"
	"github.com/toqasaad97/invoice/internal/document"
	"github.com/toqasaad97/invoice/internal/email"
	"github.com/toqasaad97/invoice/internal/repository"
	"github.com/toqasaad97/invoice/internal/server"
	"github.com/toqasaad97/invoice/pkg/database"
	"github.com/toqasaad97/invoice/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// A missing .env is fine; the environment still applies.
	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting invoice API",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Fatal("Failed to create data directory", zap.Error(err))
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)

	authService := auth.NewService(userRepo, logger)
	if err := authService.SeedAdmin(cfg.Auth.AdminUser, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("Failed to seed admin user", zap.Error(err))
	}

	docGenerator := document.NewGenerator(cfg.Email.SenderName, logger)

	var mailer email.Sender
	if cfg.Email.SMTPHost != "" {
		mailer = email.NewSMTPSender(email.SMTPConfig{
			Host:       cfg.Email.SMTPHost,
			Port:       cfg.Email.SMTPPort,
			From:       cfg.Email.From,
			Password:   cfg.Email.Password,
			SenderName: cfg.Email.SenderName,
		}, logger)
	} else {
		logger.Warn("No SMTP host configured, outgoing mail will be logged only")
		mailer = email.NewLogSender(logger)
	}

	srv := server.New(server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, invoiceRepo, authService, docGenerator, mailer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
