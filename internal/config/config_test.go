package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	envVars := []string{
		"ORDERCLI_SERVER_PORT", "ORDERCLI_SERVER_READ_TIMEOUT",
		"ORDERCLI_SFTP_HOST", "ORDERCLI_SFTP_PORT", "ORDERCLI_SFTP_USERNAME",
		"ORDERCLI_SFTP_REMOTE_PATH", "ORDERCLI_STORE_PATH",
		"ORDERCLI_LOGGING_LEVEL", "ORDERCLI_LOGGING_OUTPUT",
		"ORDERCLI_SECURITY_ALLOWED_ORIGINS",
	}

	originalEnv := make(map[string]string)
	for _, envVar := range envVars {
		originalEnv[envVar] = os.Getenv(envVar)
	}
	defer func() {
		for _, envVar := range envVars {
			if val := originalEnv[envVar]; val != "" {
				os.Setenv(envVar, val)
			} else {
				os.Unsetenv(envVar)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func()
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 22, cfg.SFTP.Port)
				assert.Equal(t, "/export-orders", cfg.SFTP.RemotePath)
				assert.Equal(t, "old", cfg.SFTP.ArchiveFolder)
				assert.Equal(t, "data/suppliers.db", cfg.Store.Path)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "environment variables override defaults",
			setupEnv: func() {
				os.Setenv("ORDERCLI_SERVER_PORT", "9090")
				os.Setenv("ORDERCLI_SFTP_HOST", "ftp.example.com")
				os.Setenv("ORDERCLI_SFTP_USERNAME", "orders")
				os.Setenv("ORDERCLI_LOGGING_LEVEL", "debug")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "ftp.example.com", cfg.SFTP.Host)
				assert.Equal(t, "orders", cfg.SFTP.Username)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "invalid server port rejected",
			setupEnv: func() {
				os.Setenv("ORDERCLI_SERVER_PORT", "-1")
			},
			wantErr: true,
		},
		{
			name: "invalid sftp port rejected",
			setupEnv: func() {
				os.Setenv("ORDERCLI_SERVER_PORT", "8080")
				os.Setenv("ORDERCLI_SFTP_PORT", "70000")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, envVar := range envVars {
				os.Unsetenv(envVar)
			}
			tt.setupEnv()

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestPathsFromBase(t *testing.T) {
	base := t.TempDir()
	paths := PathsFromBase(base)

	assert.Equal(t, base, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "downloads"), paths.DownloadsDir)
	assert.Equal(t, filepath.Join(base, "data", "exports"), paths.ExportsDir)
	assert.Equal(t, filepath.Join(base, "data", "suppliers.db"), paths.DatabaseFile)

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.DataDir, paths.DownloadsDir, paths.ExportsDir, paths.CacheDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestPathHelpers(t *testing.T) {
	paths := PathsFromBase("/base")

	assert.Equal(t, filepath.Join("/base", "data", "downloads", "a.csv"), paths.GetDownloadPath("a.csv"))
	assert.Equal(t, filepath.Join("/base", "data", "exports", "out.xlsx"), paths.GetExportPath("out.xlsx"))
	assert.Equal(t, filepath.Join("/base", "data", "cache", "c.tmp"), paths.GetCachePath("c.tmp"))
	assert.Equal(t, filepath.Join("/base", "logs", "app.log"), paths.GetLogPath("app.log"))
}
