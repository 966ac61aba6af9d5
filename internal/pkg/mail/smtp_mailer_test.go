package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("shop@example.com", "jane@example.com", "Your order", "Hello Jane"))

	assert.True(t, strings.HasPrefix(msg, "From: shop@example.com\r\n"))
	assert.Contains(t, msg, "To: jane@example.com\r\n")
	assert.Contains(t, msg, "Subject: Your order\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nHello Jane"))
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("SMTP_SENDER", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_USE_SSL", "")

	cfg := ConfigFromEnv()

	assert.Equal(t, "no-reply@localhost", cfg.Sender)
	assert.Equal(t, "587", cfg.Port)
	assert.False(t, cfg.UseSSL)
}

func TestConfigFromEnvExplicit(t *testing.T) {
	t.Setenv("SMTP_SENDER", "shop@example.com")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USERNAME", "shop")
	t.Setenv("SMTP_PASSWORD", "pw")
	t.Setenv("SMTP_USE_SSL", "true")

	cfg := ConfigFromEnv()

	assert.Equal(t, "shop@example.com", cfg.Sender)
	assert.Equal(t, "smtp.example.com", cfg.Host)
	assert.Equal(t, "465", cfg.Port)
	assert.True(t, cfg.UseSSL)
}
