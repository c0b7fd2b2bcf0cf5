package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("ADS_CONSUMER_KEY", "ck")
	t.Setenv("ADS_CONSUMER_SECRET", "cs")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("ADS_ACCESS_TOKEN", "")
	t.Setenv("ADS_ACCESS_TOKEN_SECRET", "")
	t.Setenv("ADS_API_HOST", "")
	t.Setenv("ADS_API_VERSION", "")
	t.Setenv("ADS_MAX_RETRIES", "")
	t.Setenv("ADS_BASE_BACKOFF", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ck", c.ConsumerKey)
	assert.Equal(t, "cs", c.ConsumerSecret)
	assert.Equal(t, "https://ads-api.twitter.com", c.APIHost)
	assert.Equal(t, "12", c.APIVersion)
	assert.Equal(t, 3, c.MaxRetries)
	assert.Equal(t, time.Second, c.BaseBackoff)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ADS_ACCESS_TOKEN", "tk")
	t.Setenv("ADS_ACCESS_TOKEN_SECRET", "ts")
	t.Setenv("ADS_API_VERSION", "1.1-beta")
	t.Setenv("ADS_MAX_RETRIES", "5")
	t.Setenv("ADS_BASE_BACKOFF", "250ms")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tk", c.AccessToken)
	assert.Equal(t, "ts", c.AccessTokenSecret)
	assert.Equal(t, "1.1-beta", c.APIVersion)

	bc := c.BridgeConfig()
	assert.Equal(t, 5, bc.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, bc.BaseBackoff)
	assert.True(t, bc.UseProviderLimits)
}

func TestLoad_ReportsAllErrors(t *testing.T) {
	t.Setenv("ADS_CONSUMER_KEY", "")
	t.Setenv("ADS_CONSUMER_SECRET", "")
	t.Setenv("ADS_MAX_RETRIES", "many")
	t.Setenv("ADS_BASE_BACKOFF", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing env: ADS_CONSUMER_KEY")
	assert.Contains(t, err.Error(), "missing env: ADS_CONSUMER_SECRET")
	assert.Contains(t, err.Error(), "invalid int for ADS_MAX_RETRIES")
	assert.Contains(t, err.Error(), "invalid duration for ADS_BASE_BACKOFF")
}
