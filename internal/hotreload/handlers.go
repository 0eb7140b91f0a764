package hotreload

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DecodeHandler parses the reloaded file into a fresh T by extension (.json,
// .yaml, .yml) and passes it to apply. A file that fails to parse is reported
// and apply is not called, so the previous value stays in effect.
func DecodeHandler[T any](apply func(T) error) ReloadHandler {
	return func(_ context.Context, event ReloadEvent) error {
		var v T
		switch filepath.Ext(event.Path) {
		case ".json":
			if err := json.Unmarshal(event.Content, &v); err != nil {
				return fmt.Errorf("failed to parse JSON config %s: %w", event.Path, err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(event.Content, &v); err != nil {
				return fmt.Errorf("failed to parse YAML config %s: %w", event.Path, err)
			}
		default:
			return fmt.Errorf("unsupported config format: %s", filepath.Ext(event.Path))
		}
		return apply(v)
	}
}
