package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Defaults()
	want.DataRoot = got.DataRoot // home-derived, not worth comparing here
	if got != want {
		t.Fatalf("expected Load() on a missing file to equal Defaults(), got %+v want %+v", got, want)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	saved := Defaults()
	saved.FailureThreshold = 7
	saved.LogLevel = "debug"
	if err := saved.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(Path()); err != nil {
		t.Fatalf("expected the tunables file to exist after Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.FailureThreshold != 7 || got.LogLevel != "debug" {
		t.Fatalf("expected the saved overrides to round-trip, got %+v", got)
	}
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does", "not", "exist", "yet")
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := Defaults().Save(); err != nil {
		t.Fatalf("expected Save to create its parent directory, got: %v", err)
	}
}
