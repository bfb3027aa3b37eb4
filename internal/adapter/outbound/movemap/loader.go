// Package movemap reads the move-map file that drives a refactor run.
package movemap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"importmover/internal/application/common/slogger"
	"importmover/internal/domain/errors/domain"
	"importmover/internal/domain/valueobject"

	"gopkg.in/yaml.v3"
)

// Loader implements outbound.MoveMapLoader. Files ending in .yaml or .yml
// are decoded as YAML, everything else as JSON. In both formats each value
// is either a destination path string or false for a deleted module.
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and decodes the move-map at path.
func (l *Loader) Load(ctx context.Context, path string) (map[string]valueobject.MoveTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMoveMapRead, err)
	}

	var entries map[string]valueobject.MoveTarget
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		entries, err = DecodeYAML(data)
	default:
		entries, err = DecodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slogger.Debug(ctx, "Loaded move-map", slogger.Fields2("path", path, "entries", len(entries)))
	return entries, nil
}

// DecodeJSON decodes a JSON object of path to string-or-false.
func DecodeJSON(data []byte) (map[string]valueobject.MoveTarget, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top-level value must be an object", domain.ErrMoveMapParse)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMoveMapParse, err)
	}

	entries := make(map[string]valueobject.MoveTarget, len(raw))
	for key, value := range raw {
		target, ok := jsonTarget(value)
		if !ok {
			return nil, fmt.Errorf("%w: value for %q must be a string or false, got %s",
				domain.ErrInvalidMoveMap, key, value)
		}
		entries[key] = target
	}
	return entries, nil
}

func jsonTarget(value json.RawMessage) (valueobject.MoveTarget, bool) {
	var decoded interface{}
	if err := json.Unmarshal(value, &decoded); err != nil {
		return valueobject.MoveTarget{}, false
	}

	switch v := decoded.(type) {
	case string:
		return valueobject.MovedTo(v), true
	case bool:
		if !v {
			return valueobject.DeletedTarget(), true
		}
	}
	return valueobject.MoveTarget{}, false
}

// DecodeYAML decodes a YAML mapping of path to string-or-false.
func DecodeYAML(data []byte) (map[string]valueobject.MoveTarget, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMoveMapParse, err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top-level value must be a mapping", domain.ErrMoveMapParse)
	}

	mapping := doc.Content[0]
	entries := make(map[string]valueobject.MoveTarget, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i].Value, mapping.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: value for %q must be a string or false (line %d)",
				domain.ErrInvalidMoveMap, key, value.Line)
		}

		switch value.Tag {
		case "!!str":
			entries[key] = valueobject.MovedTo(value.Value)
		case "!!bool":
			var flag bool
			if err := value.Decode(&flag); err != nil || flag {
				return nil, fmt.Errorf("%w: value for %q must be a string or false (line %d)",
					domain.ErrInvalidMoveMap, key, value.Line)
			}
			entries[key] = valueobject.DeletedTarget()
		default:
			return nil, fmt.Errorf("%w: value for %q must be a string or false (line %d)",
				domain.ErrInvalidMoveMap, key, value.Line)
		}
	}
	return entries, nil
}
