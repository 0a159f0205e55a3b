package config

import (
	"context"
	"fmt"
	"log/slog"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

const (
	secretLLMAPIKey        = "llm-api-key"
	secretLLMEndpoint      = "llm-endpoint"
	secretLLMModel         = "llm-model"
	secretTelegramBotToken = "telegram-bot-token"
)

// SecretSource reads the latest version of a named secret.
type SecretSource interface {
	Access(ctx context.Context, project, name string) (string, error)
	Close() error
}

// newSecretSource is swapped in tests.
var newSecretSource = func(ctx context.Context) (SecretSource, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}
	return &secretManagerSource{client: client}, nil
}

type secretManagerSource struct {
	client *secretmanager.Client
}

func (s *secretManagerSource) Access(ctx context.Context, project, name string) (string, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", project, name),
	})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return string(resp.GetPayload().GetData()), nil
}

func (s *secretManagerSource) Close() error {
	return s.client.Close()
}

// resolveSecrets fills secrets the environment left empty. Lookup failures
// are logged and leave the field empty for Validate to report.
func resolveSecrets(ctx context.Context, cfg *Config) {
	targets := []struct {
		name  string
		field *string
	}{
		{secretLLMAPIKey, &cfg.LLMAPIKey},
		{secretLLMEndpoint, &cfg.LLMEndpoint},
		{secretLLMModel, &cfg.LLMModel},
		{secretTelegramBotToken, &cfg.TelegramBotToken},
	}

	var pending bool
	for _, t := range targets {
		if *t.field == "" {
			pending = true
			break
		}
	}
	if !pending {
		return
	}

	src, err := newSecretSource(ctx)
	if err != nil {
		slog.Warn("Secret Manager unavailable", "error", err)
		return
	}
	defer func() { _ = src.Close() }()

	for _, t := range targets {
		if *t.field != "" {
			continue
		}
		value, err := src.Access(ctx, cfg.GCPProject, t.name)
		if err != nil {
			slog.Debug("Secret not resolved", "secret", t.name, "error", err)
			continue
		}
		*t.field = value
	}
}
