package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logPath: custom.log
retryCount: 3
temperature: 0.4
wholeNumber: 2
cacheEnabled: false
timeoutMs: 1500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "custom.log", config.GetString("logPath"))
	require.Equal(t, "custom.log", config.GetStringOrDefault("logPath", "default.log"))
	require.Equal(t, "default.log", config.GetStringOrDefault("missing", "default.log"))
	require.Equal(t, 3, config.GetIntOrDefault("retryCount", 1))
	require.Equal(t, 1, config.GetIntOrDefault("missing", 1))
	require.InDelta(t, 0.4, config.GetFloatOrDefault("temperature", 0.7), 0.0001)
	require.InDelta(t, 2.0, config.GetFloatOrDefault("wholeNumber", 0.7), 0.0001)
	require.False(t, config.GetBoolOrDefault("cacheEnabled", true))
	require.True(t, config.GetBoolOrDefault("missing", true))
	require.Equal(t, 1500*time.Millisecond, config.GetDurationOrDefault("timeoutMs", time.Minute))
	require.Equal(t, time.Minute, config.GetDurationOrDefault("missing", time.Minute))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
}

func TestNewConfig(t *testing.T) {
	config := NewConfig(map[string]any{"key": "value"})
	require.Equal(t, "value", config.GetString("key"))

	config = NewConfig(nil)
	require.Equal(t, "", config.GetString("key"))
}
