package mainconfig

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/iereview/landinPage/internal/config"
	"github.com/iereview/landinPage/internal/guard"
	"github.com/iereview/landinPage/internal/notify"
	"github.com/iereview/landinPage/pkg/logging"
)

func TestBuildRedisClient(t *testing.T) {
	logger := logging.Discard()
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, logger, true))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logger, true)
	require.NotNil(t, client)
	client.Close()

	addr := mr.Addr()
	mr.Close()
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: addr}, logger, true))
}

func TestBuildGuard(t *testing.T) {
	cfg := &appconfig.Config{InFlightTTL: time.Minute}
	g := BuildGuard(nil, cfg, logging.Discard())
	_, ok := g.(*guard.MemoryGuard)
	assert.True(t, ok, "expected in-memory guard without redis")
}

func TestBuildEmailSender(t *testing.T) {
	ctx := context.Background()
	logger := logging.Discard()

	assert.Nil(t, BuildEmailSender(ctx, &appconfig.Config{EmailProvider: "none"}, logger))
	assert.Nil(t, BuildEmailSender(ctx, &appconfig.Config{EmailProvider: "sendgrid"}, logger))

	sg := BuildEmailSender(ctx, &appconfig.Config{EmailProvider: "sendgrid", SendGridAPIKey: "SG.test", SendGridFromEmail: "noreply@predicto.example"}, logger)
	_, ok := sg.(*notify.SendGridSender)
	assert.True(t, ok)

	stub := BuildEmailSender(ctx, &appconfig.Config{EmailProvider: "stub"}, logger)
	_, ok = stub.(*notify.StubEmailSender)
	assert.True(t, ok)

	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	noFrom := BuildEmailSender(ctx, &appconfig.Config{
		EmailProvider:      "ses",
		AWSRegion:          "ap-south-1",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
	}, logger)
	assert.Nil(t, noFrom)

	ses := BuildEmailSender(ctx, &appconfig.Config{
		EmailProvider:      "ses",
		SESFromEmail:       "noreply@predicto.example",
		AWSRegion:          "ap-south-1",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
	}, logger)
	_, ok = ses.(*notify.SESSender)
	assert.True(t, ok)
}
