// Package relaysecret provides AWS Secrets Manager integration for loading
// configuration secrets into Go structs.
package relaysecret

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/savaki/secrets"
)

// WebhookSecret is the shape of the secret holding the outbound webhook.
type WebhookSecret struct {
	DiscordWebhookURL string `json:"discord_webhook_url"`
}

func LoadSecret(s *session.Session, secretName string, data interface{}) error {
	api := secrets.WithSecretsManager(secretsmanager.New(s))
	manager, err := secrets.NewManager(api)
	if err != nil {
		return fmt.Errorf("failed to initialize secrets: %w", err)
	}

	if err := manager.Decode(secretName, data); err != nil {
		return fmt.Errorf("failed to load secret %v: %w", secretName, err)
	}
	return nil
}

// LoadWebhookURL reads the discord webhook url out of the named secret.
func LoadWebhookURL(s *session.Session, secretName string) (string, error) {
	var secret WebhookSecret
	if err := LoadSecret(s, secretName, &secret); err != nil {
		return "", err
	}
	url := strings.TrimSpace(secret.DiscordWebhookURL)
	if url == "" {
		return "", fmt.Errorf("secret %v has no discord_webhook_url", secretName)
	}
	return url, nil
}
