package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_MODE", "memory")
	t.Setenv("VNPAY_RETURN_URL", "")
	t.Setenv("SESSION_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	// The default gateway return URL must hit the registered return route.
	assert.True(t, strings.HasSuffix(cfg.VNPayReturnURL, "/api/v1/payments/vnpay/return"),
		"got %q", cfg.VNPayReturnURL)
}

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("STORAGE_MODE", "mongo")
	t.Setenv("MONGO_URI", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("STORAGE_MODE", "memory")
	t.Setenv("SESSION_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
