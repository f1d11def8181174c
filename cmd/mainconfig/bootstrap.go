package mainconfig

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/iereview/landinPage/internal/config"
	"github.com/iereview/landinPage/internal/guard"
	"github.com/iereview/landinPage/internal/notify"
	"github.com/iereview/landinPage/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, falling back to in-memory guard", "error", err)
		client.Close()
		return nil
	}
	return client
}

// BuildGuard returns the Redis-backed in-flight guard when a client is
// available and the in-memory guard otherwise.
func BuildGuard(client *redis.Client, cfg *appconfig.Config, logger *logging.Logger) guard.Guard {
	if client != nil {
		return guard.NewRedisGuard(client, cfg.InFlightTTL, logger)
	}
	return guard.NewMemoryGuard(cfg.InFlightTTL)
}

// BuildEmailSender picks the operator email transport from EMAIL_PROVIDER.
// It returns nil when notifications are disabled or misconfigured.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("EMAIL_PROVIDER=sendgrid but SENDGRID_API_KEY is empty; notifications disabled")
			return nil
		}
		return sender
	case "ses":
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("failed to load AWS config; notifications disabled", "error", err)
			return nil
		}
		sender := notify.NewSESSender(NewSESClient(awsCfg, cfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
		if sender == nil {
			logger.Warn("EMAIL_PROVIDER=ses but SES_FROM_EMAIL is empty; notifications disabled")
			return nil
		}
		return sender
	case "stub", "log":
		return notify.NewStubEmailSender(logger)
	default:
		return nil
	}
}
