// Package cache keeps decoded index units in a bbolt database so repeated
// scans of an unchanged index store skip decoding.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/peripheryapp/periphery-sub003/internal/indexstore"
)

const (
	bucketName = "units"
	// formatVersion is bumped whenever the cached unit layout changes
	formatVersion = "1"
)

// UnitCache stores decoded units keyed by store, unit name and modification time
type UnitCache struct {
	db *bolt.DB
}

// Open opens or creates the cache database at path
func Open(path string) (*UnitCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open unit cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init unit cache: %w", err)
	}

	return &UnitCache{db: db}, nil
}

// Key identifies a unit version. A changed modification time produces a new
// key, so stale entries are never returned.
func Key(storePath string, info indexstore.UnitInfo) string {
	return fmt.Sprintf("v%s|%s|%s|%d", formatVersion, storePath, info.Name, info.ModTime.UnixNano())
}

// Get returns the cached unit for key
func (c *UnitCache) Get(key string) (*indexstore.Unit, bool) {
	var unit *indexstore.Unit
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return bolt.ErrBucketNotFound
		}
		data := bucket.Get([]byte(key))
		if data == nil {
			return nil
		}
		var u indexstore.Unit
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		unit = &u
		return nil
	})
	if err != nil || unit == nil {
		return nil, false
	}
	return unit, true
}

// Put stores a decoded unit under key
func (c *UnitCache) Put(key string, unit *indexstore.Unit) error {
	data, err := json.Marshal(unit)
	if err != nil {
		return fmt.Errorf("encode cached unit: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), data)
	})
}

// Len returns the number of cached units
func (c *UnitCache) Len() int {
	n := 0
	c.db.View(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket([]byte(bucketName)); bucket != nil {
			n = bucket.Stats().KeyN
		}
		return nil
	})
	return n
}

// Close closes the cache database
func (c *UnitCache) Close() error {
	return c.db.Close()
}
