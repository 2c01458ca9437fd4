package logger

import (
	"bytes"
	"testing"

	"github.com/orgball2608/deface/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.WithComponent("History").Warn("There are 2 posts with timestamp 665", "count", 2)
	log.Debug("dropped below the default level")

	out := buf.String()
	assert.Contains(t, out, `"message":"There are 2 posts with timestamp 665"`)
	assert.Contains(t, out, `"component":"History"`)
	assert.Contains(t, out, `"count":2`)
	assert.NotContains(t, out, "dropped below")
}

func TestDevelopmentWritesConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "development", Level: "debug", Output: &buf})

	log.Debug("Processing file", "file", "your_posts_1.json")
	log.Printf("fx %s", "event")

	out := buf.String()
	assert.Contains(t, out, "Processing file")
	assert.Contains(t, out, "your_posts_1.json")
	assert.Contains(t, out, "fx event")
	assert.NotContains(t, out, "\x1b[")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("WARNING").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("").String())
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "production"
	cfg.App.LogLevel = "warn"
	cfg.App.SentryUrl = "https://key@sentry.example.com/1"
	cfg.Output.Color = true

	assert.Equal(t, Opts{
		Env:       "production",
		Level:     "warn",
		SentryDSN: "https://key@sentry.example.com/1",
		Color:     true,
	}, FromConfig(cfg))
}
