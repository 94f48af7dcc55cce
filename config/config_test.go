package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PASSWORD_BCRYPT_COST", "")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.False(t, cfg.UseMemoryStore())
	assert.Equal(t, 10, cfg.PasswordBcryptCost)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, 20, cfg.PageDefaultLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("PASSWORD_BCRYPT_COST", "12")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("MAIL_SEND_ENABLED", "not-a-bool")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.True(t, cfg.UseMemoryStore())
	assert.Equal(t, 12, cfg.PasswordBcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.False(t, cfg.MailSendEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
}

func TestPostgresDSNEscapesPassword(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "p@ss/word", DBHost: "db", DBPort: "5432", DBName: "blog", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/blog?sslmode=disable", cfg.PostgresDSN())
}
