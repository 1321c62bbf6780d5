// Package offset persists follow-mode cursors so a later run can continue
// where an earlier one stopped.
package offset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"go.etcd.io/bbolt"
)

const bucketName = "cursors"

// Cursor is the resumable position of one followed file.
type Cursor struct {
	// Offset is the byte position of the next unread line.
	Offset int64 `json:"offset"`
	// LastIndex and LastContent restore the last line seen, so numbering
	// and stitching continue across runs.
	LastIndex   int       `json:"last_index"`
	LastContent string    `json:"last_content"`
	Updated     time.Time `json:"updated"`
}

// Store keeps cursors in a bbolt database keyed by absolute file path.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cursor store (file may be locked by another tailf): %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	log.Debug().Str("db_path", path).Msg("cursor store opened")
	return &Store{db: db}, nil
}

// Get returns the cursor stored for file. ok is false when there is none.
func (s *Store) Get(ctx context.Context, file string) (c Cursor, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return Cursor{}, false, err
	}
	err = s.db.View(func(tx *bbolt.Tx) error {
		val := tx.Bucket([]byte(bucketName)).Get([]byte(file))
		if val == nil {
			return nil
		}
		if err := json.Unmarshal(val, &c); err != nil {
			return fmt.Errorf("decode cursor: %w", err)
		}
		ok = true
		return nil
	})
	if err != nil {
		return Cursor{}, false, fmt.Errorf("get cursor: %w", err)
	}
	return c, ok, nil
}

// Save stores c for file, stamping Updated when it is zero.
func (s *Store) Save(ctx context.Context, file string, c Cursor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Updated.IsZero() {
		c.Updated = time.Now()
	}
	val, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cursor: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(file), val)
	})
	if err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}

	log.Debug().
		Str("path", file).
		Int64("offset", c.Offset).
		Int("last_index", c.LastIndex).
		Msg("cursor saved")
	return nil
}

// Delete forgets the cursor for file.
func (s *Store) Delete(ctx context.Context, file string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(file))
	})
	if err != nil {
		return fmt.Errorf("delete cursor: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
