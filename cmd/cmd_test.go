package cmd

import (
	"bytes"
	"runtime/debug"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cermat/internal/config"
	"github.com/abhisek/cermat/internal/store"
)

func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().String("db", "", "")
	c.Flags().String("store", "", "")
	c.Flags().String("redis-addr", "", "")
	c.Flags().String("user", "", "")
	c.Flags().String("password", "", "")
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	c := &config.Config{Store: config.StoreSQLite, DBPath: "/env.db"}
	c.Redis.Addr = "localhost:6379"

	applyFlags(testCommand(t, "--db", "/flag.db", "--store", "redis", "--redis-addr", "cache:6379"), c)

	assert.Equal(t, "/flag.db", c.DBPath)
	assert.Equal(t, config.StoreRedis, c.Store)
	assert.Equal(t, "cache:6379", c.Redis.Addr)
}

func TestApplyFlagsKeepsEnvWhenUnset(t *testing.T) {
	c := &config.Config{Store: config.StoreSQLite, DBPath: "/env.db"}
	applyFlags(testCommand(t), c)
	assert.Equal(t, "/env.db", c.DBPath)
	assert.Equal(t, config.StoreSQLite, c.Store)
}

func TestCredentials(t *testing.T) {
	t.Setenv("CERMAT_PASSWORD", "")
	_, _, err := credentials(testCommand(t, "--user", "alice"))
	assert.Error(t, err)

	t.Setenv("CERMAT_PASSWORD", "tajne")
	user, password, err := credentials(testCommand(t, "--user", "alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "tajne", password)

	_, password, err = credentials(testCommand(t, "--user", "alice", "--password", "flag"))
	require.NoError(t, err)
	assert.Equal(t, "flag", password)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
}

func TestPrintLLMEventsFiltersByPurpose(t *testing.T) {
	events := []store.LLMEvent{
		{ID: 2, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{Purpose: "question-gen", Model: "gemini-2.5-flash", Success: true}},
		{ID: 1, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{Purpose: "other", Model: "gpt-4o-mini"}},
	}

	var buf bytes.Buffer
	printLLMEvents(&buf, events, "question-gen")
	out := buf.String()
	assert.Contains(t, out, "gemini-2.5-flash")
	assert.NotContains(t, out, "gpt-4o-mini")

	buf.Reset()
	printLLMEvents(&buf, nil, "")
	assert.Contains(t, buf.String(), "No LLM requests")
}

func TestPrintLLMEventShowsBodies(t *testing.T) {
	var buf bytes.Buffer
	printLLMEvent(&buf, store.LLMEvent{ID: 7, LLMRequestEventData: store.LLMRequestEventData{
		Provider:     "gemini",
		RequestBody:  "[user]\nzlomky",
		ErrorMessage: "timeout",
	}})
	out := buf.String()
	assert.Contains(t, out, "Provider:  gemini")
	assert.Contains(t, out, "Error:     timeout")
	assert.Contains(t, out, "zlomky")
	assert.Contains(t, out, "(not captured)")
}

func TestPrintLLMUsageMarksUnknownPricing(t *testing.T) {
	purposes := []store.LLMUsage{{Purpose: "question-gen", Calls: 2, InputTokens: 1000, OutputTokens: 500}}
	models := []store.LLMUsage{
		{Model: "gemini-2.5-flash", Calls: 1, InputTokens: 500, OutputTokens: 250},
		{Model: "local-llama", Calls: 1, InputTokens: 500, OutputTokens: 250},
	}

	var buf bytes.Buffer
	printLLMUsage(&buf, purposes, models)
	out := buf.String()
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: local-llama")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}

func TestPrintVersion(t *testing.T) {
	info := &debug.BuildInfo{
		GoVersion: "go1.25.6",
		Main:      debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "GOOS", Value: "linux"},
		},
	}

	var buf bytes.Buffer
	printVersion(&buf, info)
	assert.Equal(t, "cermat v0.3.0\ngo go1.25.6\nvcs.revision abc123\n", buf.String())

	buf.Reset()
	printVersion(&buf, nil)
	assert.Equal(t, "cermat (devel)\n", buf.String())
}
