package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spacesedan/sentify/config"
	"github.com/spacesedan/sentify/internal/clients"
	"github.com/spacesedan/sentify/internal/clients/kafka_client"
	"github.com/spacesedan/sentify/internal/db"
	"github.com/spacesedan/sentify/internal/logging"
	"github.com/spacesedan/sentify/internal/streams"
)

// Lambda attached to the DynamoDB history table stream. It indexes each new
// analysis into OpenSearch and, when a broker is configured, publishes it.
func main() {
	config.LoadEnv(config.Environment())
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	ctx := context.Background()

	client, err := clients.NewOpenSearchClient(ctx, clients.OpenSearchConfig{
		Endpoint: cfg.OpenSearchEndpoint,
		Username: cfg.OpenSearchUsername,
		Password: cfg.OpenSearchPassword,
		SigV4:    cfg.OpenSearchSigV4,
		AWS:      clients.AWSConfig{Region: cfg.AWSRegion},
	})
	if err != nil {
		slog.Error("[Main] Failed to create OpenSearch client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sinks := []streams.RecordSink{db.NewOpenSearchStore(client, cfg.OpenSearchIndex)}

	if kafkaCfg := kafka_client.GetKafkaConfig(); kafkaCfg.Broker != "" {
		publisher, err := kafka_client.NewResultPublisher(kafkaCfg)
		if err != nil {
			slog.Error("[Main] Failed to create Kafka publisher", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer publisher.Close()
		sinks = append(sinks, streams.PublisherSink{Publisher: publisher})
	}

	slog.Info("[Main] Stream handler initialized", slog.Int("sinks", len(sinks)))
	lambda.Start(streams.NewHandler(sinks...).HandleRequest)
}
