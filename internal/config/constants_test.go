package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHasIntermediateExt(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"proc.qin", true},
		{"dir/proc.qin", true},
		{"proc.txt", false},
		{"qin", false},
		{"", false},
	}
	for _, c := range cases {
		if got := HasIntermediateExt(c.path); got != c.want {
			t.Errorf("HasIntermediateExt(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestDefaultSettingsEnableRewritesInMemoryMode(t *testing.T) {
	s := Default()
	if s.UseIntermediateFiles {
		t.Fatal("want memory mode by default")
	}
	if !s.RewritesEnabled() {
		t.Fatal("want rewrites enabled by default")
	}
}

func TestFileModeImpliesRewritesDisabled(t *testing.T) {
	s := Default()
	s.UseIntermediateFiles = true
	if s.RewritesEnabled() {
		t.Fatal("want file-mode emission to imply rewrites disabled even without DisableRewrites set")
	}
}

func TestExplicitDisableRewrites(t *testing.T) {
	s := Default()
	s.DisableRewrites = true
	if s.RewritesEnabled() {
		t.Fatal("want rewrites disabled once DisableRewrites is set")
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("want a missing file to be silently treated as defaults, got error: %v", err)
	}
	if s != Default() {
		t.Fatalf("want Default() settings for a missing file, got %+v", s)
	}
}

func TestLoadParsesYAMLFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadgen.yaml")
	body := "use_intermediate_files: true\nverbose: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.UseIntermediateFiles || !s.Verbose {
		t.Fatalf("want both fields from the YAML file applied, got %+v", s)
	}
	if s.DisableRewrites {
		t.Fatal("want a field absent from the file to keep its Default() value")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadgen.yaml")
	if err := os.WriteFile(path, []byte("use_intermediate_files: [this is not a bool"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("want an error for malformed YAML")
	}
}
