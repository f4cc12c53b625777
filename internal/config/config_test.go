package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"JIRA_BASE_URL", "JIRA_EMAIL", "JIRA_REPORT_TZ"} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://acme.atlassian.net/
email: kim@acme.io
timezone: Asia/Seoul
start_date_field: cf[10015]
epic_type_id: "10100"
concurrency: 4
log_format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.atlassian.net", cfg.BaseURL)
	assert.Equal(t, "kim@acme.io", cfg.Email)
	assert.Equal(t, "10100", cfg.EpicTypeID)
	assert.Equal(t, "에픽", cfg.EpicTypeName)
	assert.Equal(t, 100, cfg.PageSize)

	opts, err := cfg.ReportOptions()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", opts.Location.String())
	assert.Equal(t, "cf[10015]", opts.StartDateField)
	assert.Equal(t, 4, opts.Concurrency)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://file.example\nemail: file@example.com\n"), 0o600))
	t.Setenv("JIRA_BASE_URL", "https://env.example/")
	t.Setenv("JIRA_EMAIL", "")
	t.Setenv("JIRA_REPORT_TZ", "UTC")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.BaseURL)
	assert.Equal(t, "file@example.com", cfg.Email)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"timezone":  "timezone: Mars/Olympus\n",
		"page size": "page_size: 5000\n",
		"format":    "log_format: xml\n",
		"yaml":      "base_url: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.BaseURL = "https://acme.atlassian.net"
	cfg.Marker = "#DAILY#"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestUpdateKeepsEnvironmentOffDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("marker: \"#DAILY#\"\n"), 0o600))
	t.Setenv("JIRA_BASE_URL", "https://env.example")
	t.Setenv("JIRA_EMAIL", "")
	t.Setenv("JIRA_REPORT_TZ", "UTC")

	require.NoError(t, Update(path, func(cfg *Config) {
		cfg.Email = "kim@acme.io"
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "env.example")
	assert.NotContains(t, string(data), "UTC")

	clearEnv(t)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kim@acme.io", cfg.Email)
	assert.Equal(t, "#DAILY#", cfg.Marker)
	assert.Empty(t, cfg.BaseURL)
}

func TestUpdateRejectsInvalidResult(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := Update(path, func(cfg *Config) { cfg.PageSize = -1 })
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestValidatePageSize(t *testing.T) {
	cfg := Default()
	cfg.PageSize = 0
	assert.NoError(t, cfg.Validate())

	cfg.PageSize = 1001
	assert.EqualError(t, cfg.Validate(), "page_size must be between 0 and 1000 (0 uses the default), got 1001")
}

func TestDefaultPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jira-report", "config.yaml"), path)

	prefs, err := DefaultPrefsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jira-report", "prefs.db"), prefs)
}
