package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != Default() {
		t.Fatalf("expected defaults, got %+v", got)
	}
	cfg := got.SessionConfig()
	if cfg.WorkDurationSeconds != 1500 || cfg.ShortBreakDurationSeconds != 300 || cfg.LongBreakDurationSeconds != 900 || cfg.CycleLength != 4 {
		t.Fatalf("unexpected session config: %+v", cfg)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	want := Settings{WorkMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, CycleLength: 3}
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestLoadIgnoresOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "work_minutes: 500\nshort_break_minutes: 7\nlong_break_minutes: -1\ncycle_length: 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.ShortBreakMinutes = 7
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("work_minutes: [oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if got != Default() {
		t.Fatalf("expected defaults alongside error, got %+v", got)
	}
}
