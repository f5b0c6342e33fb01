package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sarnrak/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		driverFlag = ""
		assumeYes = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "config", "init", "--config", path, "--storage", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	loaded, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, model.StorageMemory, loaded.Storage.Driver)

	_, err = execute(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")
}

func TestConfigShowPrintsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "config", "show", "--config", path, "--storage", "file")
	require.NoError(t, err)

	var got model.AppConfig
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, model.StorageFile, got.Storage.Driver)
	assert.Equal(t, model.DefaultStorageKey, got.Storage.Key)
}

func TestSetupLoggerWritesFile(t *testing.T) {
	cfg = &model.AppConfig{Log: model.LogConfig{Level: "debug", File: filepath.Join(t.TempDir(), "logs", "sarnrak.log")}}

	closer := setupLogger(false)
	require.NotNil(t, closer)
	logger.Info().Msg("hello")
	require.NoError(t, closer.Close())

	assert.FileExists(t, cfg.Log.File)
}
