package configs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	config, err := LoadConfig("../testdata/.env")
	require.Nil(t, err)

	require.Equal(t, "Main Store", config.App.StoreName)
	require.Equal(t, 8180, config.HTTPServer.Port)
	require.Equal(t, "291", config.PaynetGateway.EndpointId)
	require.Equal(t, "sandbox", config.PaynetGateway.GatewayMode)
	require.Equal(t, 30, config.PaynetGateway.Timeout)
	require.True(t, config.Scheduler.Enabled)
	require.Equal(t, 25, config.Scheduler.PendingBatchLimit)
	require.Equal(t, "orders", config.Mongo.Collection)
}
