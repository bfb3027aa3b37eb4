package report

import (
	"fmt"
	"os"
	"path/filepath"

	"importmover/internal/application/dto"

	"gopkg.in/yaml.v3"
)

// WriteYAML writes summary to path as YAML, creating parent directories.
func WriteYAML(path string, summary *dto.RunSummary) error {
	if summary == nil {
		return fmt.Errorf("write report %s: summary is nil", path)
	}

	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write report %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // report is not sensitive
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
