package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grn-daily/internal/admin"
	"grn-daily/internal/blob"
	"grn-daily/internal/config"
	"grn-daily/internal/news"
	web "grn-daily/internal/server"
	"grn-daily/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "grnd",
	Short: "grnd - the GRN Daily news engine",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := config.Get()
		if err != nil {
			logger.Fatal("Failed to read config", zap.Error(err))
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Setup Signal Handling (Ctrl+C)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		st, err := store.NewMongoStore(conf.MongoDSN, conf.MongoDatabase)
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}
		defer st.Close(context.Background())

		sessions, err := admin.NewSessionStore(conf.RedisAddr, 12*time.Hour)
		if err != nil {
			logger.Fatal("Failed to init session store", zap.Error(err))
		}
		defer sessions.Close()

		var blobs blob.Store
		var media *blob.LocalStore
		switch conf.BlobBackend {
		case "s3":
			s3Store, err := blob.NewS3Store(ctx, conf.S3Region, conf.S3Bucket, conf.MediaBaseURL)
			if err != nil {
				logger.Fatal("Failed to init S3", zap.Error(err))
			}
			blobs = s3Store
		case "local":
			local, err := blob.OpenLocalStore(conf.BadgerPath, conf.MediaBaseURL)
			if err != nil {
				logger.Fatal("Failed to init local media store", zap.Error(err))
			}
			defer local.Close()
			blobs = local
			media = local
		default:
			logger.Fatal("Unknown blob backend", zap.String("backend", conf.BlobBackend))
		}

		repo := news.NewRepository(st, logger)
		subs := news.NewSubscribers(st, logger)
		adminSvc := admin.NewService(repo, blobs, logger)

		srv := web.NewServer(repo, subs, adminSvc, sessions, media, conf.AdminToken, logger)

		go func() {
			if err := srv.Start(conf.HTTPAddress); err != nil {
				logger.Error("Server stopped", zap.Error(err))
				cancel()
			}
		}()

		// Handle shutdown signals
		go func() {
			<-sigChan
			logger.Info("Shutting down...")
			cancel()
		}()

		// Block until shutdown
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Warn("Shutdown was not clean", zap.Error(err))
		}
		logger.Info("Goodbye!")
	},
}

var subscribersCmd = &cobra.Command{
	Use:   "subscribers",
	Short: "Print newsletter subscribers for the notification sender",
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := config.Get()
		if err != nil {
			logger.Fatal("Failed to read config", zap.Error(err))
		}

		st, err := store.NewMongoStore(conf.MongoDSN, conf.MongoDatabase)
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}
		defer st.Close(context.Background())

		subs := news.NewSubscribers(st, logger)
		all, err := subs.ListAll(context.Background())
		if err != nil {
			logger.Fatal("Failed to list subscribers", zap.Error(err))
		}
		for _, sub := range all {
			fmt.Println(sub.Email)
		}
	},
}

func main() {
	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(subscribersCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
