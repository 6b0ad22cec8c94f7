package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults %+v", cfg, Default())
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "slideforge.json")
	want := Config{
		ExportDir:         "out",
		DBEngine:          "mysql",
		DBPath:            "user:pass@tcp(localhost:3306)/slideforge",
		EntitlementFile:   "plans.json",
		Plan:              "pro",
		MaxSlides:         50,
		MaxBlocksPerSlide: 20,
		DetailedLog:       true,
	}
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"plan":"team"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Plan != "team" {
		t.Errorf("Plan = %q, want team", cfg.Plan)
	}
	if cfg.DBEngine != "sqlite" || cfg.MaxSlides != 200 {
		t.Errorf("unset fields should keep defaults, got %+v", cfg)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatal("corrupt config file should error")
	}
	if cfg != Default() {
		t.Errorf("corrupt file should fall back to defaults, got %+v", cfg)
	}
}
