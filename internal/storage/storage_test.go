package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/clitter/clitter/internal/config"
)

func TestLocalStoragePut(t *testing.T) {
	root := filepath.Join(t.TempDir(), "media")
	s, err := NewLocalStorage(root)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	if err := s.Put(context.Background(), "abc-cat.png", []byte("meow"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "abc-cat.png"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "meow" {
		t.Errorf("content = %q, want meow", data)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("found %d entries, temp file left behind", len(entries))
	}
}

func TestLocalStorageRejectsPathKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	for _, key := range []string{"", "..", "../escape", "a/b"} {
		if err := s.Put(context.Background(), key, []byte("x"), ""); err == nil {
			t.Errorf("Put(%q) succeeded", key)
		}
	}
}

func TestNewPicksDriver(t *testing.T) {
	s, err := New(context.Background(), &config.StorageConfig{
		Driver: "local",
		Local:  config.LocalStorageCfg{Root: t.TempDir()},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := s.(*LocalStorage); !ok {
		t.Errorf("New returned %T, want *LocalStorage", s)
	}

	if _, err := New(context.Background(), &config.StorageConfig{Driver: "ftp"}); err == nil {
		t.Error("New accepted unknown driver")
	}
}
