package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ManifestName is the manifest file kept next to exported files.
const ManifestName = "spritetool-manifest.json"

// Entry describes one exported file.
type Entry struct {
	File   string
	Kind   string
	Source string
	Time   time.Time
}

// Record adds or replaces the entry for e.File in the manifest of dir.
func Record(dir string, e Entry) error {
	path := filepath.Join(dir, ManifestName)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("export: manifest: %w", err)
	}
	if len(data) == 0 || !gjson.ValidBytes(data) {
		data = []byte(`{}`)
	}

	base := "exports." + escapeKey(e.File)
	if data, err = sjson.SetBytes(data, base+".kind", e.Kind); err != nil {
		return fmt.Errorf("export: manifest: %w", err)
	}
	if data, err = sjson.SetBytes(data, base+".source", e.Source); err != nil {
		return fmt.Errorf("export: manifest: %w", err)
	}
	if data, err = sjson.SetBytes(data, base+".time", e.Time.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("export: manifest: %w", err)
	}

	count := gjson.GetBytes(data, "count").Int()
	if !gjson.GetBytes(data, base+".first").Exists() {
		count++
		if data, err = sjson.SetBytes(data, base+".first", e.Time.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("export: manifest: %w", err)
		}
	}
	if data, err = sjson.SetBytes(data, "count", count); err != nil {
		return fmt.Errorf("export: manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: manifest: %w", err)
	}
	return nil
}

// Lookup returns the manifest entry of file in dir.
func Lookup(dir, file string) (Entry, bool) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return Entry{}, false
	}

	res := gjson.GetBytes(data, "exports."+escapeKey(file))
	if !res.Exists() {
		return Entry{}, false
	}

	t, _ := time.Parse(time.RFC3339, res.Get("time").String())
	return Entry{
		File:   file,
		Kind:   res.Get("kind").String(),
		Source: res.Get("source").String(),
		Time:   t,
	}, true
}

var keyEscaper = strings.NewReplacer(
	`\`, `\\`, `.`, `\.`, `*`, `\*`, `?`, `\?`, `|`, `\|`, `#`, `\#`, `@`, `\@`, `:`, `\:`,
)

// escapeKey makes a file name usable as a single gjson/sjson path segment.
func escapeKey(s string) string {
	return keyEscaper.Replace(s)
}
