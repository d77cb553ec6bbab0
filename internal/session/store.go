// Package session persists the mapping between caller session identifiers and
// Claude Code CLI conversation sessions. The bridge passes the OpenAI "user"
// field through as a session identifier; this store remembers which CLI
// session UUID belongs to it so follow-up requests resume the conversation.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// Record holds one caller-to-CLI session binding.
type Record struct {
	// CLISessionID is the session UUID reported by the Claude Code CLI.
	CLISessionID string `json:"cli_session_id"`

	// UpdatedAt is the time of the last request on this session.
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a bolt-backed session store. The zero value is not usable; create
// one with Open.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the session database at path.
//
// Parameters:
//   - path: The bolt database file path
//
// Returns:
//   - *Store: The opened store
//   - error: An error if the database could not be opened
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, errCreateBucket := tx.CreateBucketIfNotExists(sessionsBucket)
		return errCreateBucket
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare session bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the CLI session bound to the given caller session identifier.
// A missing binding returns ("", false, nil); malformed entries are skipped
// rather than failing the lookup.
func (s *Store) Lookup(sessionID string) (string, bool, error) {
	var record Record
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sessionsBucket).Get([]byte(sessionID))
		if len(v) == 0 {
			return nil
		}
		if e := json.Unmarshal(v, &record); e != nil {
			return nil
		}
		found = record.CLISessionID != ""
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("session lookup failed: %w", err)
	}
	return record.CLISessionID, found, nil
}

// Bind stores or refreshes the CLI session for the given caller session
// identifier.
func (s *Store) Bind(sessionID, cliSessionID string) error {
	record := Record{
		CLISessionID: cliSessionID,
		UpdatedAt:    time.Now(),
	}
	enc, err := json.Marshal(record)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(sessionID), enc)
	})
	if err != nil {
		return fmt.Errorf("session bind failed: %w", err)
	}
	return nil
}

// Delete removes the binding for the given caller session identifier.
func (s *Store) Delete(sessionID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(sessionID))
	})
}
