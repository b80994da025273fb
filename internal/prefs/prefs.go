// Package prefs persists small settings, such as the last export folder,
// across runs in a bbolt file.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Keys remembered between runs.
const (
	KeySheetSavePath      = "SpriteJson_LastSavePath"
	KeyClipSavePath       = "LastJsonExportPath"
	KeyAnimFolder         = "SpriteAnim_LastFolder"
	KeyControllerSavePath = "AnimController_LastSavePath"
	KeyPackOut            = "Pack_LastResourceFile"
)

var bucketName = []byte("prefs")

// Store is a string key-value store.
type Store interface {
	GetString(key, def string) (string, error)
	SetString(key, value string) error
	Close() error
}

// Bolt is a Store backed by a bbolt database file.
type Bolt struct {
	db *bolt.DB
}

// DefaultPath is the preference file under the user's config folder.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "spritetool", "prefs.db")
}

// Open opens or creates the preference file.
func Open(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prefs: %w", err)
	}

	db, err := bolt.Open(path, 0o666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("prefs: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prefs: %w", err)
	}

	return &Bolt{db: db}, nil
}

// GetString returns the stored value or def when the key is unset.
func (b *Bolt) GetString(key, def string) (string, error) {
	value := def
	err := b.db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucketName)
		if buck == nil {
			return fmt.Errorf("the prefs bucket not found")
		}
		if v := buck.Get([]byte(key)); v != nil {
			value = string(v)
		}
		return nil
	})
	if err != nil {
		return def, fmt.Errorf("prefs: get %s: %w", key, err)
	}
	return value, nil
}

// SetString stores value under key.
func (b *Bolt) SetString(key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucketName)
		if buck == nil {
			return fmt.Errorf("the prefs bucket not found")
		}
		return buck.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("prefs: set %s: %w", key, err)
	}
	return nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

// Memory is an in-process Store, used when persistence is disabled.
type Memory map[string]string

func (m Memory) GetString(key, def string) (string, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m Memory) SetString(key, value string) error {
	m[key] = value
	return nil
}

func (m Memory) Close() error { return nil }
