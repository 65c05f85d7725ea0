package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesConsoleAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	logger, path, err := New(Options{Env: "test", Dir: dir, Console: &console})
	require.NoError(t, err)

	logger.Debug("step detail", zap.Int("shift_count", 3))
	logger.Info("run complete")
	_ = logger.Sync()

	assert.True(t, strings.HasPrefix(filepath.Base(path), "test_"))
	assert.Equal(t, dir, filepath.Dir(path))

	assert.Contains(t, console.String(), "run complete")
	assert.NotContains(t, console.String(), "step detail", "console stays at Info")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"step detail"`)
	assert.Contains(t, string(content), `"shift_count":3`)
	assert.Contains(t, string(content), `"env":"test"`)
	assert.Contains(t, string(content), `"timestamp"`)
}

func TestNew_VerboseConsole(t *testing.T) {
	var console bytes.Buffer

	logger, _, err := New(Options{Dir: t.TempDir(), Verbose: true, Console: &console})
	require.NoError(t, err)

	logger.Debug("step detail")
	_ = logger.Sync()

	assert.Contains(t, console.String(), "step detail")
}

func TestNew_DefaultEnvName(t *testing.T) {
	_, path, err := New(Options{Dir: t.TempDir(), Console: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "default_"))
}
