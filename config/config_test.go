package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timebank/bank"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Interest.Enabled)
	assert.Equal(t, ProviderGemini, cfg.Encouragement.Provider)
	require.Len(t, cfg.Subjects, 2)
	assert.Equal(t, bank.SubjectID("seoa"), cfg.Subjects[0].ID)
	require.NoError(t, cfg.Validate())

	interval, err := cfg.Interest.Interval()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, interval)
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse(`
[server]
port = 9090

[interest]
check_interval = "15m"

[encouragement]
provider = "static"

[[subjects]]
id = "minji"
name = "Minji"
`)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.NotEmpty(t, cfg.Server.AllowedOrigins, "untouched keys keep defaults")
	assert.Equal(t, "./data/timebank.db", cfg.Database.Path)
	assert.Equal(t, ProviderStatic, cfg.Encouragement.Provider)
	require.Len(t, cfg.Subjects, 1)
	assert.Equal(t, "Minji", cfg.Subjects[0].Name)

	interval, err := cfg.Interest.Interval()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, interval)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"bad toml", `[server`},
		{"bad interval", "[interest]\ncheck_interval = \"soon\""},
		{"zero interval", "[interest]\ncheck_interval = \"0s\""},
		{"bad provider", "[encouragement]\nprovider = \"openai\""},
		{"port range", "[server]\nport = 70000"},
		{"duplicate subject", "[[subjects]]\nid = \"a\"\nname = \"A\"\n[[subjects]]\nid = \"a\"\nname = \"B\""},
		{"nameless subject", "[[subjects]]\nid = \"a\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "timebank.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database]\npath = \":memory:\"\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Database.Path)
}

func TestAPIKey(t *testing.T) {
	t.Setenv("TIMEBANK_TEST_KEY", "secret")
	c := EncouragementConfig{APIKeyEnv: "TIMEBANK_TEST_KEY"}
	assert.Equal(t, "secret", c.APIKey())
	assert.Empty(t, EncouragementConfig{}.APIKey())
}
