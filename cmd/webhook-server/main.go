// cmd/webhook-server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"survey-subaccounts/internal/common/aws"
	"survey-subaccounts/internal/common/config"
	"survey-subaccounts/internal/common/ghl"
	"survey-subaccounts/internal/common/logger"
	"survey-subaccounts/internal/common/observability"
	"survey-subaccounts/internal/server"
	"survey-subaccounts/internal/webhooks/diagnostics"
	surveycompletion "survey-subaccounts/internal/webhooks/survey-completion"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	_ = bootLog.Sync()

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting survey webhook server",
		zap.String("account", cfg.App.AccountName),
		zap.String("locationId", cfg.GHL.LocationID),
		zap.Strings("allowedSources", cfg.GHL.AllowedLocationIDs()),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	crm := ghl.NewClient(ghl.ClientConfig{
		APIKey:     cfg.GHL.APIKey,
		BaseURL:    cfg.GHL.BaseURL,
		APIVersion: cfg.GHL.APIVersion,
		Timeout:    config.GetDuration(cfg.GHL.Timeout),
	})

	if cfg.GHL.VerifyOnStartup {
		verifyCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.GHL.Timeout))
		err := crm.VerifyCredentials(verifyCtx)
		cancel()
		if err != nil {
			zapLog.Fatal("GHL API key verification failed", zap.Error(err))
		}
		zapLog.Info("GHL API key is valid")
	} else {
		zapLog.Info("Skipping GHL API verification")
	}

	var notifier surveycompletion.Notifier
	if cfg.Notifications.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.SNS.Region, cfg.Notifications.SNS.TopicARN)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		notifier = surveycompletion.NewSNSNotifier(snsClient, log.Named("notifications"))
		zapLog.Info("Sub-account notifications enabled", zap.String("topicArn", cfg.Notifications.SNS.TopicARN))
	}

	surveyHandler, err := surveycompletion.NewHandler(surveycompletion.HandlerOptions{
		AppConfig:     cfg,
		Logger:        log,
		CRM:           crm,
		Notifier:      notifier,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("survey-completion handler init failed", zap.Error(err))
	}

	diag := diagnostics.NewHandler(diagnostics.Options{
		AccountName: cfg.App.AccountName,
		LocationID:  cfg.GHL.LocationID,
		Logger:      log,
	})

	srv := server.New(server.Options{
		Server:  cfg.Server,
		Metrics: cfg.Metrics,
		Logger:  log,
	}, surveyHandler, diag)

	zapLog.Info("Listening for survey completion webhooks",
		zap.String("endpoint", "http://"+cfg.Server.Address()+surveycompletion.Route),
		zap.String("test", "http://"+cfg.Server.Address()+diagnostics.TestRoute),
		zap.String("health", "http://"+cfg.Server.Address()+diagnostics.HealthRoute),
	)

	start := time.Now()
	if err := srv.Run(ctx); err != nil {
		zapLog.Fatal("server stopped with error", zap.Error(err))
	}

	zapLog.Info("Survey webhook server stopped gracefully", zap.Duration("uptime", time.Since(start)))
}
