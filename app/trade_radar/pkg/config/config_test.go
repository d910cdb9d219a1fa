package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "log:\n  level: debug\n"))
	require.NoError(t, err)

	require.Equal(t, "openai", cfg.LLM.Provider)
	require.Equal(t, "gpt-4-turbo-preview", cfg.LLM.Model)
	require.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-6)
	require.Equal(t, 300, cfg.LLM.MaxTokens)
	require.Equal(t, "demo", cfg.Feed.Source)
	require.Equal(t, DefaultKeywords, cfg.Scan.Keywords)
	require.Equal(t, "en", cfg.Scan.Language)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "0.0.0.0:8000", cfg.Server.HTTP.Addr)
	require.Equal(t, 587, cfg.Notify.SMTP.Port)
	require.False(t, cfg.Notify.SMTP.Enabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	body := `
llm:
  provider: gemini
  model: gemini-2.5-flash
  temperature: 0.2
  max_tokens: 128
  timeout: 45s
feed:
  source: url
  url: https://example.com/feed.xml
  refresh_cron: "*/15 * * * *"
scan:
  keywords: ["ecb", "boe"]
  language: fr
concurrency:
  rpm: 30
notify:
  smtp:
    server: smtp.example.com
    user: bot@example.com
    pass: secret
    to: desk@example.com
`
	cfg, err := LoadConfig(writeConfig(t, body))
	require.NoError(t, err)

	require.Equal(t, "gemini", cfg.LLM.Provider)
	require.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	require.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-6)
	require.Equal(t, 128, cfg.LLM.MaxTokens)
	require.Equal(t, "url", cfg.Feed.Source)
	require.Equal(t, []string{"ecb", "boe"}, cfg.Scan.Keywords)
	require.Equal(t, "fr", cfg.Scan.Language)
	require.Equal(t, 1, cfg.Concurrency.QPS)
	require.True(t, cfg.Notify.SMTP.Enabled())
	require.Equal(t, "bot@example.com", cfg.Notify.SMTP.From)

	d, err := ParseDuration(cfg.LLM.Timeout)
	require.NoError(t, err)
	require.Equal(t, 45*time.Second, d)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "provider", body: "llm:\n  provider: claude\n"},
		{name: "temperature", body: "llm:\n  temperature: 3\n"},
		{name: "file without path", body: "feed:\n  source: file\n"},
		{name: "url without url", body: "feed:\n  source: url\n"},
		{name: "unknown source", body: "feed:\n  source: kafka\n"},
		{name: "empty keyword", body: "scan:\n  keywords: [\"fed\", \" \"]\n"},
		{name: "bad timeout", body: "server:\n  http:\n    timeout: soon\n"},
		{name: "negative rpm", body: "concurrency:\n  rpm: -1\n"},
		{name: "unknown language", body: "scan:\n  language: de\n"},
		{name: "bad yaml", body: "llm: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigGeminiDefaultModel(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "llm:\n  provider: gemini\n"))
	require.NoError(t, err)
	require.Equal(t, DefaultGeminiModel, cfg.LLM.Model)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "demo", cfg.Feed.Source)
}
