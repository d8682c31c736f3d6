package keystore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known names for the two stored credentials.
const (
	KeyYouTube = "youtube_api_key"
	KeyGemini  = "gemini_api_key"
)

// obfuscationPad is the keystream for the reversible obfuscation applied
// before a secret touches disk. This keeps keys out of casual view in the
// data directory; it is deliberately not cryptography.
const obfuscationPad = "creatorlens.keystore.v1"

// Store persists the two gateway credentials in a single JSON file under
// the data directory. Values are obfuscated on save and de-obfuscated on
// load.
type Store struct {
	filePath string
	keys     map[string]string
	mu       sync.RWMutex
}

type storedKey struct {
	Name  string `json:"name"`
	Value string `json:"value"` // obfuscated
}

// New opens (or initializes) the key store in dataDir.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store := &Store{
		filePath: filepath.Join(dataDir, "credentials.json"),
		keys:     make(map[string]string),
	}

	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load key store: %w", err)
	}
	return store, nil
}

// Get returns the stored plaintext value for a key name, or "" when the
// key has never been set.
func (s *Store) Get(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[name]
}

// Set stores a plaintext value under a key name and persists immediately.
// An empty value removes the key.
func (s *Store) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		delete(s.keys, name)
	} else {
		s.keys[name] = value
	}
	return s.save()
}

func (s *Store) load() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open key store file: %w", err)
	}
	defer file.Close()

	var stored []storedKey
	if err := json.NewDecoder(file).Decode(&stored); err != nil {
		return fmt.Errorf("failed to decode key store file: %w", err)
	}

	for _, k := range stored {
		value, err := deobfuscate(k.Value)
		if err != nil {
			return fmt.Errorf("failed to decode stored key %s: %w", k.Name, err)
		}
		s.keys[k.Name] = value
	}
	return nil
}

func (s *Store) save() error {
	stored := make([]storedKey, 0, len(s.keys))
	for name, value := range s.keys {
		stored = append(stored, storedKey{Name: name, Value: obfuscate(value)})
	}

	file, err := os.OpenFile(s.filePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create key store file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(stored)
}

func obfuscate(value string) string {
	raw := []byte(value)
	pad := []byte(obfuscationPad)
	for i := range raw {
		raw[i] ^= pad[i%len(pad)]
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func deobfuscate(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	pad := []byte(obfuscationPad)
	for i := range raw {
		raw[i] ^= pad[i%len(pad)]
	}
	return string(raw), nil
}
