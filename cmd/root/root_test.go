package root

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/gl-audit/internal/config"
	"fjacquet/gl-audit/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "gl-audit", Cmd.Use)
	assert.Contains(t, Cmd.Short, "general-ledger")
	assert.NotNil(t, Cmd.RunE)
	assert.NotNil(t, Cmd.PersistentPreRunE)
	assert.NotNil(t, Cmd.PersistentPostRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	if Cmd.PersistentFlags().Lookup("input") == nil {
		Init()
	}

	tests := []struct {
		name      string
		shorthand string
	}{
		{"input", "i"},
		{"output", "o"},
		{"format", "f"},
		{"sheet", "s"},
		{"ai", ""},
		{"config", ""},
		{"log-level", ""},
		{"log-format", ""},
		{"csv-delimiter", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	err := ApplyFlags(cfg, CommonFlags{Format: "YAML", AI: true}, "debug", "json", ";")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.True(t, cfg.AI.Enabled)
}

func TestApplyFlags_KeepsConfigWhenUnset(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, ApplyFlags(cfg, CommonFlags{}, "", "", ""))
	assert.Equal(t, config.Default(), cfg)
}

func TestApplyFlags_Invalid(t *testing.T) {
	assert.Error(t, ApplyFlags(config.Default(), CommonFlags{}, "", "", "||"))
	assert.Error(t, ApplyFlags(config.Default(), CommonFlags{Format: "xml"}, "", "", ""))
}

func TestGetContainer_NilBeforeRun(t *testing.T) {
	assert.Nil(t, GetContainer())
}

func TestWarnPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0600))
	require.NoError(t, os.Chmod(path, 0644))

	logger := logging.NewMockLogger()
	warnPermissions(logger, path)
	assert.True(t, logger.HasEntry("WARN", "Config file permissions"))

	require.NoError(t, os.Chmod(path, 0600))
	logger = logging.NewMockLogger()
	warnPermissions(logger, path)
	warnPermissions(logger, "")
	assert.Empty(t, logger.GetEntries())
}
