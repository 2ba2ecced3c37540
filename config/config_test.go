package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_KEY", "secret")
	t.Setenv("BOT_CLIENT_ID", "client-id")
	t.Setenv("BOT_CLIENT_SECRET", "client-secret")
	t.Setenv("BOT_TOKEN", "bot-token")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co/")
	t.Setenv("SUPABASE_KEY", "anon-key")
}

func TestFromViperAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, StoreREST, cfg.QuestionStore)
	assert.Equal(t, "https://project.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "https://discord.com/api/v10", cfg.DiscordAPI)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30, cfg.MaxQuestionsPerGuild)
	assert.True(t, cfg.EnforceGuildAccess)
	assert.False(t, cfg.SecureCookie)
}

func TestFromViperReadsOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("ENFORCE_GUILD_ACCESS", "false")
	t.Setenv("SESSION_SECURE_COOKIE", "true")
	t.Setenv("MAX_QUESTIONS_PER_GUILD", "5")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.EnforceGuildAccess)
	assert.True(t, cfg.SecureCookie)
	assert.Equal(t, 5, cfg.MaxQuestionsPerGuild)
}

func TestFromViperRejectsMissingSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SECRET_KEY", "")
	t.Setenv("SUPABASE_KEY", "")

	_, err := FromViper(newViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY is required")
	assert.Contains(t, err.Error(), "SUPABASE_KEY is required")
}

func TestFromViperRejectsUnknownStore(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("QUESTION_STORE", "mongo")

	_, err := FromViper(newViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUESTION_STORE")
}

func TestFromViperPostgresDoesNotNeedSupabase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("QUESTION_STORE", "POSTGRES")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.QuestionStore)
}

func TestLoadDotEnvPrefersLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("ANSWERLY_TEST_VALUE=local\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ANSWERLY_TEST_VALUE=shared\n"), 0o600))
	t.Setenv("ANSWERLY_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("ANSWERLY_TEST_VALUE"))

	require.NoError(t, loadDotEnv(dir))
	assert.Equal(t, "local", os.Getenv("ANSWERLY_TEST_VALUE"))
}

func TestLoadDotEnvWithoutFiles(t *testing.T) {
	assert.NoError(t, loadDotEnv(t.TempDir()))
}
