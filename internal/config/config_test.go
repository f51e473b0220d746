package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("BS_TEST_STR", "  value ")
	t.Setenv("BS_TEST_INT", "8")
	t.Setenv("BS_TEST_BAD_INT", "eight")
	t.Setenv("BS_TEST_FLOAT", "1e-9")
	t.Setenv("BS_TEST_BOOL", "true")
	t.Setenv("BS_TEST_DUR", "90s")

	assert.Equal(t, "value", Get("BS_TEST_STR", "x"))
	assert.Equal(t, "x", Get("BS_TEST_UNSET", "x"))
	assert.Equal(t, 8, GetInt("BS_TEST_INT", 1))
	assert.Equal(t, 1, GetInt("BS_TEST_BAD_INT", 1))
	assert.Equal(t, 1e-9, GetFloat("BS_TEST_FLOAT", 0))
	assert.Equal(t, 0.5, GetFloat("BS_TEST_UNSET", 0.5))
	assert.True(t, GetBool("BS_TEST_BOOL", false))
	assert.False(t, GetBool("BS_TEST_UNSET", false))
	assert.Equal(t, 90*time.Second, GetDuration("BS_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, GetDuration("BS_TEST_UNSET", time.Second))
}

func TestLoadDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BS_TEST_FROM_FILE=file\nBS_TEST_PRESET=file\n"), 0644))

	t.Setenv("BS_TEST_PRESET", "env")
	t.Setenv("BS_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("BS_TEST_FROM_FILE"))

	assert.True(t, Load(envFile))
	t.Cleanup(func() { _ = os.Unsetenv("BS_TEST_FROM_FILE") })

	assert.Equal(t, "file", Get("BS_TEST_FROM_FILE", ""))
	assert.Equal(t, "env", Get("BS_TEST_PRESET", ""))

	// missing files are tolerated
	assert.False(t, Load(filepath.Join(dir, "nope.env")))
}

func TestLoadIsSilent(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.TraceLevel)
	t.Cleanup(func() { log.Logger = prev })

	assert.False(t, Load(filepath.Join(t.TempDir(), "missing.env")))
	assert.Empty(t, buf.String())
}
