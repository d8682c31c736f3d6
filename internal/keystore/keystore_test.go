package keystore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStore(t *testing.T) {
	t.Run("SetGetRoundTrip", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if err := store.Set(KeyYouTube, "AIza-test-key-123"); err != nil {
			t.Fatalf("failed to set key: %v", err)
		}
		if got := store.Get(KeyYouTube); got != "AIza-test-key-123" {
			t.Errorf("Get = %q, want the stored value", got)
		}
		if got := store.Get(KeyGemini); got != "" {
			t.Errorf("unset key returned %q, want empty", got)
		}
	})

	t.Run("ValuesSurviveReopen", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if err := store.Set(KeyGemini, "gm-secret"); err != nil {
			t.Fatalf("failed to set key: %v", err)
		}

		reopened, err := New(dir)
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		if got := reopened.Get(KeyGemini); got != "gm-secret" {
			t.Errorf("reopened Get = %q, want gm-secret", got)
		}
	})

	t.Run("PlaintextNeverTouchesDisk", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if err := store.Set(KeyYouTube, "very-visible-secret"); err != nil {
			t.Fatalf("failed to set key: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "credentials.json"))
		if err != nil {
			t.Fatalf("failed to read store file: %v", err)
		}
		if strings.Contains(string(data), "very-visible-secret") {
			t.Error("plaintext secret found in the store file")
		}
	})

	t.Run("EmptyValueRemovesKey", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if err := store.Set(KeyYouTube, "temp"); err != nil {
			t.Fatalf("failed to set key: %v", err)
		}
		if err := store.Set(KeyYouTube, ""); err != nil {
			t.Fatalf("failed to clear key: %v", err)
		}

		reopened, err := New(dir)
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		if got := reopened.Get(KeyYouTube); got != "" {
			t.Errorf("cleared key returned %q, want empty", got)
		}
	})
}

func TestObfuscationRoundTrip(t *testing.T) {
	for _, value := range []string{"", "a", "AIzaSyA-long_key.with-symbols~!", "日本語キー"} {
		decoded, err := deobfuscate(obfuscate(value))
		if err != nil {
			t.Fatalf("deobfuscate(%q) failed: %v", value, err)
		}
		if decoded != value {
			t.Errorf("round-trip of %q produced %q", value, decoded)
		}
	}
}
