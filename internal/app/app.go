// Package app wires configuration into a ready handler. The Lambda and HTTP
// server entry points share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"portfolio-chat/handler"
	"portfolio-chat/internal/config"
	"portfolio-chat/internal/integrations/gemini"
	"portfolio-chat/internal/integrations/paramstore"
	"portfolio-chat/internal/portfolio"
	"portfolio-chat/internal/repository"
	"portfolio-chat/internal/usecase"
)

// AWSLoader returns the SDK configuration. It is only called when the
// parameter store or the portfolio table is configured.
type AWSLoader func(ctx context.Context) (aws.Config, error)

func DefaultAWSLoader(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx)
}

func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, loadAWS AWSLoader) (*handler.Handler, error) {
	if cfg == nil {
		return nil, errors.New("app: config must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if loadAWS == nil {
		loadAWS = DefaultAWSLoader
	}

	var awsCfg *aws.Config
	awsConfig := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		c, err := loadAWS(ctx)
		if err != nil {
			return aws.Config{}, fmt.Errorf("app: load AWS config: %w", err)
		}
		awsCfg = &c
		return c, nil
	}

	// ---- Generation endpoint ----
	opts := []gemini.Option{gemini.WithAPIKey(cfg.GoogleAPIKey)}
	if cfg.GeminiBaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(cfg.GeminiBaseURL))
	}
	if cfg.UseParamStore() {
		c, err := awsConfig()
		if err != nil {
			return nil, err
		}
		ps, err := paramstore.New(awsssm.NewFromConfig(c), cfg.ParamPrefix)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gemini.WithParamStore(ps, cfg.APIKeyParam))
		logger.Info("API key will be read from parameter store", "name", ps.Path(cfg.APIKeyParam))
	}
	llm := gemini.NewClient(opts...)

	chatOpts := []usecase.ChatOption{usecase.WithLogger(logger)}
	if len(cfg.Keywords) > 0 {
		chatOpts = append(chatOpts, usecase.WithKeywords(cfg.Keywords))
	}
	chat, err := usecase.NewChatService(llm, cfg.GeminiModel, cfg.Developer(), chatOpts...)
	if err != nil {
		return nil, err
	}

	// ---- Portfolio ----
	var store portfolio.Store = portfolio.NewMemoryStore()
	if cfg.PortfolioTable != "" {
		c, err := awsConfig()
		if err != nil {
			return nil, err
		}
		table, err := repository.New(awsdynamodb.NewFromConfig(c), cfg.PortfolioTable, cfg.PortfolioOwner)
		if err != nil {
			return nil, err
		}
		store = table
		logger.Info("portfolio items stored in DynamoDB", "table", cfg.PortfolioTable, "owner", cfg.PortfolioOwner)
	}
	assistant, err := portfolio.NewAssistant(store)
	if err != nil {
		return nil, err
	}

	return handler.NewHandler(chat, assistant, logger)
}
