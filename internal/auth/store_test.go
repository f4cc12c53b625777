package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultStorePathXDG(t *testing.T) {
	temp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", temp)

	path, err := DefaultStorePath()
	if err != nil {
		t.Fatalf("DefaultStorePath() error: %v", err)
	}

	expected := filepath.Join(temp, "jira-report", "auth.json")
	if path != expected {
		t.Fatalf("expected %s, got %s", expected, path)
	}
}

func TestDefaultStorePathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", home)

	path, err := DefaultStorePath()
	if err != nil {
		t.Fatalf("DefaultStorePath() error: %v", err)
	}

	expected := filepath.Join(home, ".local", "share", "jira-report", "auth.json")
	if path != expected {
		t.Fatalf("expected %s, got %s", expected, path)
	}
}

func TestStoreSaveLoadDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "auth.json")
	store := NewStore(path)
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	if err := store.Save("kim@example.com", "test-token", now); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok true")
	}
	if data.Token != "test-token" || data.Email != "kim@example.com" {
		t.Fatalf("unexpected credentials: %+v", data)
	}
	if !data.SavedAt.Equal(now) {
		t.Fatalf("expected saved_at %v, got %v", now, data.SavedAt)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be gone, got %v", err)
	}

	if deleteErr := store.Delete(); deleteErr != nil {
		t.Fatalf("Delete() error: %v", deleteErr)
	}
	_, ok, err = store.Load()
	if err != nil {
		t.Fatalf("Load() after delete error: %v", err)
	}
	if ok {
		t.Fatalf("expected no auth after delete")
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("second Delete() error: %v", err)
	}
}

func TestStoreRejectsEmptyToken(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "auth.json"))
	if err := store.Save("kim@example.com", "", time.Now()); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, _, err := NewStore(path).Load(); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStoreFilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auth.json")
	store := NewStore(path)

	if err := store.Save("", "test-token", time.Now()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected permissions 0600, got %v", info.Mode().Perm())
	}
}
