package clients

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/spacesedan/emotiscope/config"
)

var (
	awsCfg     aws.Config
	awsOnce    sync.Once
	awsInitErr error
	endpoint   string
)

func GetAWSConfig(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	awsOnce.Do(func() {
		slog.Info("[AWSClient] Initializing AWS Config...",
			slog.String("region", cfg.Region))
		loaded, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region))
		if err != nil {
			awsInitErr = fmt.Errorf("[AWSClient] failed to load AWS config: %w", err)
			return
		}

		awsCfg = loaded
		endpoint = cfg.Endpoint
		slog.Info("[AWSClient] AWS Config Initialized")
	})

	return awsCfg, awsInitErr
}

func GetDynamoDBClient(ctx context.Context, cfg config.AWSConfig) (*dynamodb.Client, error) {
	loaded, err := GetAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(loaded, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
