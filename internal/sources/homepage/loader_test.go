package homepage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeYAML(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoadServices(t *testing.T) {
	path := writeYAML(t, "services.yaml", `---
- Infrastructure:
    - AdGuard Home:
        icon: adguard-home.svg
        href: https://adguard.domain.ext
        description: Network-wide ads & trackers blocking DNS server
`)

	config, err := NewLoader(path).LoadServices()
	if err != nil {
		t.Fatalf("LoadServices() error = %v", err)
	}
	if len(config) == 0 {
		t.Fatal("LoadServices() returned empty config")
	}
	if got := config[0]["Infrastructure"][0]["AdGuard Home"].Href; got != "https://adguard.domain.ext" {
		t.Errorf("href = %q", got)
	}
}

func TestLoaderLoadBookmarks(t *testing.T) {
	path := writeYAML(t, "bookmarks.yaml", `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Go Docs:
        - href: {{HOMEPAGE_VAR_GODOC}}
`)

	config, err := NewLoader(path).LoadBookmarks()
	if err != nil {
		t.Fatalf("LoadBookmarks() error = %v", err)
	}
	dev := config[0]["Developer"]
	if len(dev) != 2 {
		t.Fatalf("Developer entries = %d, want 2", len(dev))
	}
	if got := dev[0]["Github"][0].Abbr; got != "GH" {
		t.Errorf("abbr = %q, want GH", got)
	}
	if got := dev[1]["Go Docs"][0].Href; got != "" {
		t.Errorf("templated href = %q, want stripped", got)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	if _, err := NewLoader("/nonexistent/path/bookmarks.yaml").LoadBookmarks(); err == nil {
		t.Error("LoadBookmarks() with non-existent file should return error")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	path := writeYAML(t, "bookmarks.yaml", "key: [unclosed\n")
	if _, err := NewLoader(path).LoadBookmarks(); err == nil {
		t.Error("LoadBookmarks() with invalid yaml should return error")
	}
}

func TestStripTemplateVariablesFunc(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "single template variable",
			input:    []byte("url: {{HOMEPAGE_VAR_URL}}"),
			expected: "url: \"\"",
		},
		{
			name:     "no template variables",
			input:    []byte("plain text"),
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripTemplateVariables(tt.input)
			if string(result) != tt.expected {
				t.Errorf("stripTemplateVariables() = %q, want %q", string(result), tt.expected)
			}
		})
	}
}
