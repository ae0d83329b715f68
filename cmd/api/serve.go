package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Cerezo_Blog/internal/config"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/repository/mysql"
	"Cerezo_Blog/internal/repository/redis"
	"Cerezo_Blog/internal/router"
	"Cerezo_Blog/internal/service"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(background(ctx), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, db, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer closeDB(db)

	// 开发阶段自动建表
	if !cfg.IsProduction() {
		if err = mysql.AutoMigrate(db); err != nil {
			return err
		}
	}

	rdb, err := redis.Init(ctx, redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	store, err := newBlobStore(cfg)
	if err != nil {
		return err
	}
	var mailer pkg.Mailer = pkg.NopMailer{}
	if cfg.MailEnabled() {
		mailer = pkg.NewSMTPMailer(pkg.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	if cfg.Outbox.Enabled {
		var sender service.Sender = service.LogSender
		if len(cfg.Kafka.Brokers) > 0 {
			producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
			if err != nil {
				return err
			}
			defer producer.Close()
			sender = service.KafkaSender(producer)
		}
		relayer := service.NewOutboxRelayer(&mysql.OutboxRepository{DB: db}, sender, cfg.Outbox.BatchSize, cfg.Outbox.Interval)
		go relayer.Run(ctx)
	}
	if cfg.Reconcile.Interval > 0 {
		reconciler := service.NewLikeCountReconciler(&mysql.LikeCountReconcilerRepo{DB: db}, cfg.Reconcile.BatchSize, cfg.Reconcile.Interval)
		go reconciler.Run(ctx)
	}

	r := router.InitRouter(router.Deps{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Store:  store,
		Mailer: mailer,
		Logger: logger,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newBlobStore(cfg *config.Config) (pkg.BlobStore, error) {
	if cfg.Cloudinary.CloudName == "" {
		slog.Warn("cloudinary is not configured, media uploads are disabled")
		return pkg.DisabledStore{}, nil
	}
	return pkg.NewCloudinaryStore(pkg.CloudinaryConfig{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		Folder:    cfg.Cloudinary.Folder,
	})
}
