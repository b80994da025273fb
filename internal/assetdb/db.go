// Package assetdb reads a Unity project from disk: the GUID table built
// from .meta files, texture importer sprite tables, clips and animator
// controllers.
package assetdb

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/alacrity-engine/sprite-tool/internal/clip"
	"github.com/alacrity-engine/sprite-tool/internal/errs"
	"github.com/alacrity-engine/sprite-tool/internal/sheet"
)

// AssetsDir is the only project folder assets are read from or
// written to.
const AssetsDir = "Assets"

// DB indexes a project's assets by GUID.
type DB struct {
	root       string
	guidToPath map[string]string
	pathToGUID map[string]string

	sheets map[string]*sheet.Sheet
	clips  map[string]*clip.Clip
}

// Open scans root/Assets for .meta files.
func Open(root string) (*DB, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("assetdb: %w", err)
	}

	info, err := os.Stat(filepath.Join(abs, AssetsDir))
	if err != nil {
		return nil, fmt.Errorf("assetdb: %s is not a project: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assetdb: %s is not a directory", filepath.Join(abs, AssetsDir))
	}

	db := &DB{
		root:       abs,
		guidToPath: map[string]string{},
		pathToGUID: map[string]string{},
		sheets:     map[string]*sheet.Sheet{},
		clips:      map[string]*clip.Clip{},
	}
	if err := db.scan(); err != nil {
		return nil, err
	}
	return db, nil
}

// Root is the absolute project directory.
func (db *DB) Root() string { return db.root }

func (db *DB) scan() error {
	return filepath.WalkDir(filepath.Join(db.root, AssetsDir), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".meta") {
			return nil
		}

		guid, err := readGUID(p)
		if err != nil {
			return fmt.Errorf("assetdb: %s: %w", p, err)
		}
		if guid == "" {
			return nil
		}

		rel, err := db.rel(strings.TrimSuffix(p, ".meta"))
		if err != nil {
			return err
		}
		db.Register(rel, guid)
		return nil
	})
}

// Register adds an asset to the GUID table.
func (db *DB) Register(assetPath, guid string) {
	assetPath = norm.NFC.String(assetPath)
	db.guidToPath[guid] = assetPath
	db.pathToGUID[assetPath] = guid
}

// PathOf returns the asset path registered for guid.
func (db *DB) PathOf(guid string) (string, bool) {
	p, ok := db.guidToPath[guid]
	return p, ok
}

// GUIDOf returns the GUID of an asset path.
func (db *DB) GUIDOf(assetPath string) (string, bool) {
	g, ok := db.pathToGUID[norm.NFC.String(assetPath)]
	return g, ok
}

// Abs converts an asset path to an absolute file path.
func (db *DB) Abs(assetPath string) string {
	return filepath.Join(db.root, filepath.FromSlash(assetPath))
}

// AssetPath converts any path, absolute or relative to the working
// directory or to the project, into a project-relative asset path.
// It fails when the path is outside the project's Assets folder.
func (db *DB) AssetPath(p string) (string, error) {
	var abs string
	switch {
	case filepath.IsAbs(p):
		abs = p
	case isAssetsRelative(p):
		abs = filepath.Join(db.root, filepath.FromSlash(p))
	default:
		var err error
		if abs, err = filepath.Abs(p); err != nil {
			return "", err
		}
	}

	rel, err := db.rel(abs)
	if err != nil {
		return "", err
	}
	if rel != AssetsDir && !strings.HasPrefix(rel, AssetsDir+"/") {
		return "", &errs.InvalidSelectionError{
			Path:   p,
			Reason: "only files inside the Assets folder are supported",
		}
	}
	return rel, nil
}

func (db *DB) rel(abs string) (string, error) {
	r, err := filepath.Rel(db.root, filepath.Clean(abs))
	if err != nil {
		return "", fmt.Errorf("assetdb: %w", err)
	}
	r = filepath.ToSlash(r)
	if r == ".." || strings.HasPrefix(r, "../") {
		return "", &errs.InvalidSelectionError{
			Path:   abs,
			Reason: "path is outside the project",
		}
	}
	return norm.NFC.String(path.Clean(r)), nil
}

func isAssetsRelative(p string) bool {
	s := filepath.ToSlash(p)
	return s == AssetsDir || strings.HasPrefix(s, AssetsDir+"/")
}

// readGUID finds the guid line near the top of a .meta file.
func readGUID(metaPath string) (string, error) {
	f, err := os.Open(metaPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for i := 0; sc.Scan() && i < 8; i++ {
		if v, ok := strings.CutPrefix(sc.Text(), "guid:"); ok {
			return strings.TrimSpace(v), nil
		}
	}
	return "", sc.Err()
}
