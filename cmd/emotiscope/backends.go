package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/emotiscope/config"
	"github.com/spacesedan/emotiscope/internal/analysis"
	"github.com/spacesedan/emotiscope/internal/clients"
	"github.com/spacesedan/emotiscope/internal/clients/kafka_client"
	"github.com/spacesedan/emotiscope/internal/db"
	"github.com/spacesedan/emotiscope/internal/history"
)

// openHistoryBackend returns the backend named by cfg.Backend and a func
// releasing whatever it holds.
func openHistoryBackend(ctx context.Context, cfg config.AppConfig) (history.Backend, func(), error) {
	noop := func() {}

	switch cfg.History.Backend {
	case "file", "":
		path := cfg.History.FilePath
		if path == "" {
			var err error
			if path, err = history.DefaultFilePath(cfg.History.Key); err != nil {
				return nil, noop, err
			}
		}
		slog.Debug("[Main] Using file history", slog.String("path", path))
		return history.NewFileBackend(path), noop, nil

	case "valkey":
		client, err := clients.InitValkey(cfg.Valkey)
		if err != nil {
			return nil, noop, err
		}
		return clients.NewValkeyHistoryBackend(client, cfg.History.Key), clients.CloseValkey, nil

	case "dynamodb":
		client, err := clients.GetDynamoDBClient(ctx, cfg.AWS)
		if err != nil {
			return nil, noop, err
		}
		return db.NewHistoryTable(client, cfg.History.TableName, cfg.History.Key), noop, nil

	case "memory":
		return history.NewMemoryBackend(), noop, nil
	}

	return nil, noop, fmt.Errorf("[Main] unknown history backend %q", cfg.History.Backend)
}

// serviceOptions wires the Kafka results producer when publishing is on.
func serviceOptions(cfg config.AppConfig) ([]analysis.Option, func()) {
	if !cfg.PublishResults {
		return nil, func() {}
	}

	kafkaCfg := kafka_client.GetKafkaConfig()
	producer, err := kafka_client.NewResultProducer(kafkaCfg)
	if err != nil {
		slog.Warn("[Main] Results publishing disabled", slog.String("error", err.Error()))
		return nil, func() {}
	}
	opts := []analysis.Option{
		analysis.WithPublisher(producer),
		analysis.WithPublishTimeout(kafkaCfg.PublishTimeout),
	}
	return opts, producer.Close
}
