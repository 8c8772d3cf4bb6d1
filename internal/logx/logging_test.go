package logx

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkKeepsWarningsUnlessVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "check-efy.log")
	var stdout, stderr bytes.Buffer

	svc, log := New(Config{Level: "info", Console: true, File: FileConfig{Enabled: true, Path: path}}, &stdout, &stderr)
	watch := log.Named("watch")
	watch.Info("checking availability")
	watch.Warn("session not found", String("session", "UT Provo 04B"))
	require.NoError(t, svc.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	file := string(data)
	assert.NotContains(t, file, "checking availability")
	assert.Contains(t, file, "WRN")
	assert.Contains(t, file, "main")
	assert.Contains(t, file, "check-efy.watch")
	assert.Contains(t, file, "session not found")
	assert.Contains(t, file, "UT Provo 04B")

	assert.Contains(t, stdout.String(), "checking availability")
	assert.Contains(t, stdout.String(), "session not found")
	assert.Empty(t, stderr.String())
}

func TestVerboseFileSinkIncludesInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "check-efy.log")
	var stdout, stderr bytes.Buffer

	svc, log := New(Config{Console: false, File: FileConfig{Enabled: true, Path: path, Verbose: true}}, &stdout, &stderr)
	log.Info("Waiting 7 mins")
	log.Debug("entering state")
	require.NoError(t, svc.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INF")
	assert.Contains(t, string(data), "Waiting 7 mins")
	assert.NotContains(t, string(data), "entering state")
	assert.Empty(t, stdout.String())
}

func TestFileIsTruncatedEachRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "check-efy.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	svc, log := New(Config{File: FileConfig{Enabled: true, Path: path}}, &bytes.Buffer{}, &bytes.Buffer{})
	log.Error("delivery failed", Err(errors.New("boom")))
	require.NoError(t, svc.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "previous run")
	assert.Contains(t, string(data), "delivery failed")
	assert.Contains(t, string(data), "boom")
}

func TestUnopenableFileFallsBackToConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "check-efy.log")
	var stdout, stderr bytes.Buffer

	svc, log := New(Config{Console: true, File: FileConfig{Enabled: true, Path: path}}, &stdout, &stderr)
	log.Info("still logging")

	assert.Contains(t, stderr.String(), "failed opening log file")
	assert.Contains(t, stdout.String(), "still logging")
	assert.Empty(t, svc.FilePath())
	assert.NoError(t, svc.Close())
}

func TestZeroLoggerIsNoop(t *testing.T) {
	var log Logger
	assert.NotPanics(t, func() {
		log.Named("watch").With(Int("minutes", 3)).Info("ignored")
	})
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("debug"))
	assert.True(t, ValidLevel("WARNING"))
	assert.False(t, ValidLevel("verbose"))
}
