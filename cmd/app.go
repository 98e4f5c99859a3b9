package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kotrzina/calassist/pkg/ai"
	"github.com/kotrzina/calassist/pkg/config"
	"github.com/kotrzina/calassist/pkg/extractor"
	"github.com/kotrzina/calassist/pkg/hook"
	"github.com/kotrzina/calassist/pkg/prometheus"
	"github.com/kotrzina/calassist/pkg/prompt"
	"github.com/kotrzina/calassist/pkg/store"
	"github.com/sirupsen/logrus"
)

// app holds everything the commands need
type app struct {
	conf      *config.Config
	logger    *logrus.Logger
	monitor   *prometheus.Monitor
	storage   store.Storage
	extractor *extractor.Extractor
}

func newApp(ctx context.Context) (*app, error) {
	conf := config.NewConfig()
	logger := createLogger(conf)
	logger.WithField("keys", conf.Defaults).Debug("Using default configuration values")

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	templates, err := prompt.Load(conf.PromptsFile)
	if err != nil {
		return nil, err
	}

	builder, err := templates.Builder(conf.PromptVariant)
	if err != nil {
		return nil, err
	}

	mon := prometheus.New()

	provider, err := ai.NewProvider(conf, mon, logger)
	if err != nil {
		return nil, err
	}

	storage, err := newStorage(ctx, conf, logger)
	if err != nil {
		return nil, err
	}

	var notifier extractor.Notifier
	if conf.DiscordWebhookURL != "" {
		notifier = hook.New(conf.DiscordWebhookURL)
	}

	ex, err := extractor.NewExtractor(conf, provider, builder, storage, notifier, mon, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		conf:      conf,
		logger:    logger,
		monitor:   mon,
		storage:   storage,
		extractor: ex,
	}, nil
}

func newStorage(ctx context.Context, conf *config.Config, logger *logrus.Logger) (store.Storage, error) {
	switch conf.Store {
	case config.StoreRedis:
		s := store.NewRedisStore(conf)
		if err := s.Ping(); err != nil {
			return nil, fmt.Errorf("could not connect to redis: %w", err)
		}
		logger.Infof("Using redis store at %s", conf.RedisAddr)
		return s, nil
	case config.StorePostgres:
		s, err := store.NewPostgresStore(ctx, conf.DBString)
		if err != nil {
			return nil, err
		}
		logger.Info("Using postgres store")
		return s, nil
	default:
		return store.NewFakeStore(), nil
	}
}

// createLogger logs to stderr so stdout carries only command output
func createLogger(conf *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if conf.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}
