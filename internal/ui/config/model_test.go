package config

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sarnrak/internal/credential"
	"github.com/nhle/sarnrak/internal/keys"
	"github.com/nhle/sarnrak/internal/model"
)

type fakeCreds struct {
	values map[string]string
	err    error
}

func (f *fakeCreds) Set(key, value string) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	return nil
}

func (f *fakeCreds) Delete(key string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.values, key)
	return nil
}

func testConfig() *model.AppConfig {
	return &model.AppConfig{
		Storage: model.StorageConfig{Driver: "sqlite", Path: "/tmp/sarnrak.db", Key: "sarnrak_wedding_data"},
		AI:      model.AIConfig{Model: "gemini-2.5-flash", Temperature: 0.7},
		Gallery: model.GalleryConfig{Workers: 4},
	}
}

func newTestView(creds Credentials) Model {
	return New(testConfig(), "/tmp/config.yaml", false, keys.DefaultKeyMap(), 100, 40).WithCredentials(creds)
}

func TestViewShowsConfiguration(t *testing.T) {
	t.Setenv(credential.GeminiEnv, "")
	m := newTestView(&fakeCreds{values: map[string]string{}})

	out := m.View()
	assert.Contains(t, out, "/tmp/config.yaml")
	assert.Contains(t, out, "sqlite")
	assert.Contains(t, out, "gemini-2.5-flash")
	assert.Contains(t, out, "not set")
}

func TestEscClosesSettings(t *testing.T) {
	m := newTestView(&fakeCreds{values: map[string]string{}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, ConfigDoneMsg{}, cmd())
}

func TestKeyOpensPasswordForm(t *testing.T) {
	m := newTestView(&fakeCreds{values: map[string]string{}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.True(t, m.InForm())
	assert.Equal(t, ModeFormKey, m.mode)
}

func TestSaveKeyStoresAndAnnounces(t *testing.T) {
	creds := &fakeCreds{values: map[string]string{}}
	m := newTestView(creds)

	msg := m.saveKey("secret")()
	assert.Equal(t, "secret", creds.values[credential.GeminiKey])

	m, cmd := m.Update(msg)
	assert.False(t, m.InForm())
	assert.True(t, m.hasKey)
	require.NotNil(t, cmd)
	assert.Equal(t, KeySavedMsg{Key: "secret"}, cmd())
}

func TestDeleteKeyAnnounces(t *testing.T) {
	creds := &fakeCreds{values: map[string]string{credential.GeminiKey: "secret"}}
	m := New(testConfig(), "", true, keys.DefaultKeyMap(), 100, 40).WithCredentials(creds)

	m, cmd := m.Update(m.deleteKey()())
	assert.Empty(t, creds.values)
	assert.False(t, m.hasKey)
	require.NotNil(t, cmd)
	assert.Equal(t, KeyDeletedMsg{}, cmd())
}

func TestKeyringErrorIsShown(t *testing.T) {
	m := newTestView(&fakeCreds{err: errors.New("no keyring daemon")})

	m, cmd := m.Update(m.saveKey("secret")())
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "no keyring daemon")
}

func TestValidateRequired(t *testing.T) {
	v := validateRequired("API key")
	assert.Error(t, v("  "))
	assert.NoError(t, v("abc"))
}
