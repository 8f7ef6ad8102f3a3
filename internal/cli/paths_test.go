package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/provflow/pkg/pipeline"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "/home/alice")

	c := &CLI{}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/home/alice", ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := &CLI{Config: pipeline.Config{Cache: pipeline.CacheConfig{Dir: "/var/cache/pf"}}}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/var/cache/pf" {
		t.Errorf("cacheDir() = %q, want config dir", dir)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		single bool
		want   string
	}{
		{"derived from input", "", "data/clusters.json", "json", true, "data/clusters.flow.json"},
		{"derived svg", "", "clusters.yaml", "svg", false, "clusters.flow.svg"},
		{"explicit single", "out/diagram.txt", "clusters.json", "json", true, "out/diagram.txt"},
		{"explicit base multiple", "out/diagram.json", "clusters.json", "svg", false, "out/diagram.svg"},
		{"explicit base without extension", "out/diagram", "clusters.json", "dot", false, "out/diagram.dot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.format, tt.single); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"json"}},
		{"svg", []string{"svg"}},
		{"JSON, dot,svg", []string{"json", "dot", "svg"}},
		{"json,,", []string{"json"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
