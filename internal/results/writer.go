package results

import (
	"encoding/json"
	"os"
	"path/filepath"

	"semdrift/internal/errors"
)

// WriteJSON sanitizes v and writes it as indented JSON, creating parent
// directories as needed.
func WriteJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.FileError("failed to create output directory", err)
	}

	data, err := json.MarshalIndent(Sanitize(v), "", "  ")
	if err != nil {
		return errors.FileError("failed to serialize report", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.FileError("failed to write report file", err)
	}
	return nil
}
