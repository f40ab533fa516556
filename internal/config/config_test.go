package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RETAIL_ADMIN_PASSWORD", "secret")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", c.HTTPAddress)
	assert.Equal(t, "memory", c.StoreBackend)
	assert.Equal(t, 10, c.LowStockThreshold)
	assert.Equal(t, 7, c.ExpiryWarningDays)
	assert.Equal(t, 10, c.LoyaltyIncrement)

	logger, err := c.NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoad_RequiresPassword(t *testing.T) {
	t.Setenv("RETAIL_ADMIN_PASSWORD", "")
	require.NoError(t, os.Unsetenv("RETAIL_ADMIN_PASSWORD"))
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("RETAIL_ADMIN_PASSWORD", "secret")
	t.Setenv("RETAIL_STORE_BACKEND", "firebase")
	_, err := Load()
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestLoad_RejectsBadTimezone(t *testing.T) {
	t.Setenv("RETAIL_ADMIN_PASSWORD", "secret")
	t.Setenv("RETAIL_TIMEZONE", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)
}
