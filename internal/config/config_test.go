package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.ViewTTL)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.True(t, cfg.UsingDefaultAdmin())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("VIEW_TTL", "5m")
	t.Setenv("MAX_VIEWS", "12")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("TO_EMAIL", "inbox@example.com")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.ViewTTL)
	assert.Equal(t, 12, cfg.MaxViews)
	assert.Equal(t, "me@example.com", cfg.SMTP.User)
	assert.Equal(t, "inbox@example.com", cfg.ContactTo)
	assert.False(t, cfg.UsingDefaultAdmin())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("VIEW_TTL", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "parse env")
}

func TestMailRecipientFallsBackToSMTPUser(t *testing.T) {
	t.Setenv("SMTP_USER", "me@example.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", cfg.MailRecipient())

	cfg.ContactTo = "inbox@example.com"
	assert.Equal(t, "inbox@example.com", cfg.MailRecipient())
}
