package sanction

import (
	"context"
	"fmt"

	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// LoadSecret reads the secret stored at secretURL, decrypting it with key
// (for example "blowfish://default").
func LoadSecret(ctx context.Context, secretURL, key string) ([]byte, error) {
	resource := scy.NewResource(nil, secretURL, key)
	secret, err := scy.New().Load(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load secret from %s: %w", secretURL, err)
	}
	value := secret.String()
	if value == "" {
		return nil, fmt.Errorf("secret at %s is empty", secretURL)
	}
	return []byte(value), nil
}

// StoreSecret encrypts value with key and writes it to secretURL.
func StoreSecret(ctx context.Context, secretURL, key string, value []byte) error {
	resource := scy.NewResource(nil, secretURL, key)
	if err := scy.New().Store(ctx, scy.NewSecret(string(value), resource)); err != nil {
		return fmt.Errorf("failed to store encrypted secret: %w", err)
	}
	return nil
}

func (c *AuthConfig) secret(ctx context.Context) ([]byte, error) {
	if c.Secret != "" {
		return []byte(c.Secret), nil
	}
	return LoadSecret(ctx, c.SecretURL, c.SecretKey)
}
