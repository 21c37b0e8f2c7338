package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/retry"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/signaturit"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "htmlgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(TokenEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, signaturit.Sandbox, cfg.Signaturit.Environment)
	assert.Equal(t, 30*time.Second, cfg.Signaturit.Timeout)
	assert.Equal(t, variables.SignaturesRequest, cfg.Editor.Category)
	assert.Equal(t, StoreDriverSignaturit, cfg.Store.Driver)
	assert.Equal(t, ":8787", cfg.Relay.Listen)
	assert.Equal(t, "/relay", cfg.Relay.Path)
	assert.Equal(t, 8788, cfg.Preview.Port)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Empty(t, cfg.Signaturit.Token)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("HTMLGEN_TEST_TOKEN", "secret")

	path := writeConfig(t, "signaturit:\n"+
		"  environment: PROD\n"+
		"  token: ${HTMLGEN_TEST_TOKEN}\n"+
		"  timeout: 5s\n"+
		"editor:\n"+
		"  category: pending_sign\n"+
		"  minify: true\n"+
		"store:\n"+
		"  driver: sqlite\n"+
		"  path: ./brandings.db\n"+
		"relay:\n"+
		"  listen: 127.0.0.1:9000\n"+
		"  allowed_origins: [\"http://localhost:3000\"]\n"+
		"  metrics: true\n"+
		"logging:\n"+
		"  level: Debug\n"+
		"  format: json\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, signaturit.Production, cfg.Signaturit.Environment)
	assert.Equal(t, "secret", cfg.Signaturit.Token)
	assert.Equal(t, 5*time.Second, cfg.Signaturit.Timeout)
	assert.Equal(t, variables.PendingSign, cfg.Editor.Category)
	assert.True(t, cfg.Editor.Minify)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "./brandings.db", cfg.Store.Path)
	assert.Equal(t, "127.0.0.1:9000", cfg.Relay.Listen)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Relay.AllowedOrigins)
	assert.True(t, cfg.Relay.Metrics)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestLoad_Retry(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, retry.None(), cfg.Signaturit.Retry.Policy())

	path := writeConfig(t, "signaturit:\n"+
		"  retry:\n"+
		"    backoff: Exponential\n"+
		"    initial: 100ms\n"+
		"    max: 1s\n"+
		"    max_retries: 4\n")
	cfg, err = Load(path)
	require.NoError(t, err)
	p := cfg.Signaturit.Retry.Policy()
	assert.Equal(t, retry.BackoffExponential, p.Mode)
	assert.Equal(t, 4, p.MaxRetries)
	assert.Equal(t, 400*time.Millisecond, p.Delay(3))

	_, err = Load(writeConfig(t, "signaturit:\n  retry:\n    backoff: random\n"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestLoad_Metrics(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Preview.Metrics)
	assert.Empty(t, cfg.Metrics.Textfile)

	cfg, err = Load(writeConfig(t, "preview:\n"+
		"  metrics: true\n"+
		"metrics:\n"+
		"  textfile: /var/lib/node_exporter/htmlgen.prom\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Preview.Metrics)
	assert.Equal(t, "/var/lib/node_exporter/htmlgen.prom", cfg.Metrics.Textfile)
}

func TestLoad_TokenFallsBackToEnvironment(t *testing.T) {
	t.Setenv(TokenEnv, "from-env")

	cfg, err := Load(writeConfig(t, "editor:\n  minify: false\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Signaturit.Token)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		category ferrors.ErrorCategory
	}{
		{"unknown environment", "signaturit:\n  environment: staging\n", ferrors.CategoryValidation},
		{"unknown category", "editor:\n  category: welcome\n", ferrors.CategoryValidation},
		{"unknown driver", "store:\n  driver: postgres\n", ferrors.CategoryValidation},
		{"unknown level", "logging:\n  level: trace\n", ferrors.CategoryValidation},
		{"bad port", "preview:\n  port: 70000\n", ferrors.CategoryValidation},
		{"bad yaml", "relay: [\n", ferrors.CategoryConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, tt.category), err.Error())
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoadEnvFiles_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	t.Setenv("HTMLGEN_EXISTING", "process")
	t.Setenv("HTMLGEN_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("HTMLGEN_FROM_FILE"))

	require.NoError(t, os.WriteFile(".env", []byte("HTMLGEN_EXISTING=file\nHTMLGEN_FROM_FILE=env\n"), 0o600))
	require.NoError(t, os.WriteFile(".env.local", []byte("HTMLGEN_FROM_FILE=local\n"), 0o600))

	loadEnvFiles()

	assert.Equal(t, "process", os.Getenv("HTMLGEN_EXISTING"))
	assert.Equal(t, "local", os.Getenv("HTMLGEN_FROM_FILE"))
}

func TestInit(t *testing.T) {
	t.Setenv(TokenEnv, "")
	path := filepath.Join(t.TempDir(), DefaultPath)

	require.NoError(t, Init(path, false))
	err := Init(path, false)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/relay", cfg.Relay.Path)
	assert.Equal(t, 30*time.Second, cfg.Signaturit.Timeout)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
	assert.Equal(t, "WARN", LogLevelWarn.SlogLevel().String())
	assert.Equal(t, "INFO", LogLevel("").SlogLevel().String())
}
