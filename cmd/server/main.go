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

	"github.com/spacesedan/sentify/config"
	"github.com/spacesedan/sentify/internal/analysis"
	"github.com/spacesedan/sentify/internal/clients"
	"github.com/spacesedan/sentify/internal/clients/kafka_client"
	"github.com/spacesedan/sentify/internal/dataset"
	"github.com/spacesedan/sentify/internal/db"
	"github.com/spacesedan/sentify/internal/logging"
	"github.com/spacesedan/sentify/internal/processing"
	"github.com/spacesedan/sentify/internal/sentiment"
	"github.com/spacesedan/sentify/internal/server"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

func main() {
	config.LoadEnv(config.Environment())
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := dataset.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		slog.Error("[Main] Failed to load product catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}
	loader := dataset.NewLoader(cfg.DatasetDir, catalog)

	var scorer analysis.TextScorer = sentiment.NewVaderScorer()
	if cfg.ValkeyAddress != "" {
		vc, err := clients.NewValkeyClient(clients.ValkeyConfig{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
		})
		if err != nil {
			slog.Warn("[Main] Score cache disabled", slog.String("error", err.Error()))
		} else {
			defer vc.Close()
			scorer = sentiment.NewCachedScorer(scorer, vc, cfg.ScoreCacheTTL)
		}
	}

	opts := []processing.Option{
		processing.WithWorkers(cfg.ScorerWorkers),
		processing.WithRule(analysis.NegativeShareRule(cfg.NegativeThreshold)),
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to open result store",
			slog.String("driver", cfg.StoreDriver),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	recorderDone := make(chan struct{})
	if store != nil {
		defer store.Close()
		recorder := db.NewRecorder(store)
		go func() {
			defer close(recorderDone)
			recorder.Run(ctx, db.RECORDER_FLUSH_TIMEOUT)
		}()
		opts = append(opts, processing.WithRecorder(recorder))
	} else {
		close(recorderDone)
	}

	if kafkaCfg := kafka_client.GetKafkaConfig(); kafkaCfg.Broker != "" {
		publisher, err := kafka_client.NewResultPublisher(kafkaCfg)
		if err != nil {
			slog.Warn("[Main] Result publishing disabled", slog.String("error", err.Error()))
		} else {
			defer publisher.Close()
			opts = append(opts, processing.WithPublisher(publisher))
		}
	}

	analyzer := processing.NewAnalyzer(loader, scorer, opts...)

	srv := server.NewServer(analyzer, store)

	go func() {
		if err := srv.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}
	<-recorderDone
}

// openStore returns nil when history is disabled.
func openStore(ctx context.Context, cfg config.Config) (db.ResultStore, error) {
	switch cfg.StoreDriver {
	case config.STORE_SQLITE:
		store, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.STORE_POSTGRES:
		store, err := db.OpenPostgres(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.STORE_OPENSEARCH:
		client, err := clients.NewOpenSearchClient(ctx, clients.OpenSearchConfig{
			Endpoint: cfg.OpenSearchEndpoint,
			Username: cfg.OpenSearchUsername,
			Password: cfg.OpenSearchPassword,
			SigV4:    cfg.OpenSearchSigV4,
			AWS:      clients.AWSConfig{Region: cfg.AWSRegion},
		})
		if err != nil {
			return nil, err
		}
		return db.NewOpenSearchStore(client, cfg.OpenSearchIndex), nil
	case config.STORE_DYNAMODB:
		client, err := clients.NewDynamoDBClient(ctx, clients.AWSConfig{
			Region:   cfg.AWSRegion,
			Endpoint: cfg.AWSEndpoint,
		})
		if err != nil {
			return nil, err
		}
		return db.NewDynamoStore(client, cfg.DynamoTable), nil
	default:
		return nil, nil
	}
}
