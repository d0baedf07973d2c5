// Package drafts persists in-progress product forms locally, so an
// interrupted editing session can be resumed later without data loss.
package drafts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/shopkit-dev/shopctl/domain"
)

const bucketDrafts = "product_drafts"

// DefaultTTL is how long an untouched draft is kept before pruning.
const DefaultTTL = 14 * 24 * time.Hour

var (
	ErrNotFound = errors.New("draft not found")
	ErrNoDrafts = errors.New("no drafts saved")
)

// Sections of the product form tracked for completion.
var Sections = []string{"basics", "pricing", "classification", "media"}

// Draft is a locally saved, partially completed product form.
type Draft struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Product   domain.ProductInput `json:"product"`
	Completed map[string]bool     `json:"completed"`
	CreatedAt time.Time           `json:"createdAt"`
	SavedAt   time.Time           `json:"savedAt"`
}

// Completion returns the percentage of form sections marked complete.
func (d *Draft) Completion() int {
	if len(Sections) == 0 {
		return 0
	}
	done := 0
	for _, s := range Sections {
		if d.Completed[s] {
			done++
		}
	}
	return done * 100 / len(Sections)
}

// Store is a bbolt-backed draft store. A single process owns the file at a
// time; bbolt's own file lock enforces that.
type Store struct {
	db  *bbolt.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens (or creates) the draft store at path and prunes drafts whose
// last save is older than ttl. A non-positive ttl falls back to DefaultTTL.
func Open(path string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create draft directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open draft store %s: %w", path, err)
	}
	s := &Store{db: db, ttl: ttl, now: time.Now}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDrafts))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create draft bucket: %w", err)
	}
	if err := s.pruneExpired(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save persists a draft. A draft without an ID is assigned one and stamped
// with its creation time; SavedAt is always advanced. This is the autosave
// entry point, so it must stay cheap and idempotent.
func (s *Store) Save(d *Draft) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
		d.CreatedAt = s.now()
	}
	if d.Completed == nil {
		d.Completed = make(map[string]bool)
	}
	d.SavedAt = s.now()

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketDrafts)).Put([]byte(d.ID), data)
	})
}

// Get returns the draft with the given ID.
func (s *Store) Get(id string) (*Draft, error) {
	var d *Draft
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketDrafts)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		d = new(Draft)
		return json.Unmarshal(data, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// List returns all drafts, most recently saved first.
func (s *Store) List() ([]*Draft, error) {
	var out []*Draft
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketDrafts)).ForEach(func(_, v []byte) error {
			d := new(Draft)
			if err := json.Unmarshal(v, d); err != nil {
				return err
			}
			out = append(out, d)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

// Resume returns the most recently saved draft, or ErrNoDrafts.
func (s *Store) Resume() (*Draft, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrNoDrafts
	}
	return all[0], nil
}

// Delete removes a draft. Deleting a missing draft is not an error.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketDrafts)).Delete([]byte(id))
	})
}

func (s *Store) pruneExpired() error {
	cutoff := s.now().Add(-s.ttl)
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketDrafts))
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var d Draft
			if err := json.Unmarshal(v, &d); err != nil {
				// Unreadable drafts are dropped rather than wedging the store.
				expired = append(expired, append([]byte(nil), k...))
				return nil
			}
			if d.SavedAt.Before(cutoff) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
