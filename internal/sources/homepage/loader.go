package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads Homepage configuration files
type Loader struct {
	filePath string
}

// NewLoader creates a new Homepage loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.filePath
}

// LoadBookmarks parses the file as bookmarks.yaml
func (l *Loader) LoadBookmarks() (BookmarksConfig, error) {
	var config BookmarksConfig
	if err := l.load(&config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadServices parses the file as services.yaml
func (l *Loader) LoadServices() (ServicesConfig, error) {
	var config ServicesConfig
	if err := l.load(&config); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) load(into any) error {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return fmt.Errorf("failed to read homepage file: %w", err)
	}

	// Strip Homepage template variables ({{HOMEPAGE_VAR_...}})
	data = stripTemplateVariables(data)

	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse homepage yaml: %w", err)
	}
	return nil
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
