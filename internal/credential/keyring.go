// Package credential keeps the Gemini API key in the system keyring.
package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
)

const serviceName = "sarnrak"

// GeminiKey is the keyring entry holding the Gemini API key.
const GeminiKey = "gemini-api-key"

// GeminiEnv is the environment variable that overrides the stored key.
const GeminiEnv = "GEMINI_API_KEY"

// Source tells where an API key was found.
type Source string

const (
	SourceNone    Source = ""
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// Store reads and writes credentials in a keyring.
type Store struct {
	ring keyring.Keyring
}

// NewStore wraps an opened keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Open opens the system keyring, falling back to an encrypted file under
// ~/.config/sarnrak/credentials when no desktop keyring is available.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/sarnrak/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("sarnrak-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewStore(ring), nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       filepath.Join(serviceName, key),
		Description: "Sarn Rak wedding planner",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a key that was never stored is not an error.
func (s *Store) Delete(key string) error {
	if err := s.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// Lookup returns the Gemini key from getenv, or from s when the variable is
// unset. s may be nil.
func Lookup(getenv func(string) string, s *Store) (string, Source) {
	if v := getenv(GeminiEnv); v != "" {
		return v, SourceEnv
	}
	if s == nil {
		return "", SourceNone
	}
	if v, err := s.Get(GeminiKey); err == nil && v != "" {
		return v, SourceKeyring
	}
	return "", SourceNone
}

// Get retrieves a credential from the system keyring.
func Get(key string) (string, error) {
	s, err := Open()
	if err != nil {
		return "", err
	}
	return s.Get(key)
}

// Set stores a credential in the system keyring.
func Set(key, value string) error {
	s, err := Open()
	if err != nil {
		return err
	}
	return s.Set(key, value)
}

// Delete removes a credential from the system keyring.
func Delete(key string) error {
	s, err := Open()
	if err != nil {
		return err
	}
	return s.Delete(key)
}

// GeminiAPIKey returns the Gemini key from the environment or the system
// keyring. It returns "" when neither has one.
func GeminiAPIKey() string {
	s, _ := Open()
	key, _ := Lookup(os.Getenv, s)
	return key
}
