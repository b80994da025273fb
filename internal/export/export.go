// Package export writes JSON documents to disk and keeps a manifest of
// what was exported into each folder.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Indent matches the pretty printer of the editor's JSON utility.
const Indent = "    "

// Marshal renders v as indented JSON with a trailing newline.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", Indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("export: marshal: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON replaces the file at path with v. The document is fully
// rendered before the file is touched.
func WriteJSON(path string, v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
