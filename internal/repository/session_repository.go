package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"document-portal/internal/domain"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// SessionRepository implements domain.SessionRepository on a BoltDB file.
// Records are JSON encoded and keyed by session id.
type SessionRepository struct {
	db     *bolt.DB
	logger domain.Logger
}

// NewSessionRepository opens (or creates) the registry at path. Opening
// fails after a second if another process holds the file.
func NewSessionRepository(path string, logger domain.Logger) (*SessionRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions bucket: %w", err)
	}

	log := logger.Named("session_registry")
	log.Info("Session registry opened", "path", path)
	return &SessionRepository{db: db, logger: log}, nil
}

// Register stores a record for id unless one exists, and returns the stored
// record.
func (r *SessionRepository) Register(id string, path string) (*domain.SessionRecord, error) {
	var record *domain.SessionRecord

	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)

		existing, err := decodeRecord(b.Get([]byte(id)))
		if err != nil {
			return err
		}
		if existing != nil {
			record = existing
			return nil
		}

		record = &domain.SessionRecord{
			ID:        id,
			Path:      path,
			CreatedAt: time.Now().UTC(),
			Files:     []domain.SessionFile{},
		}
		return putRecord(b, record)
	})
	if err != nil {
		r.logger.Error("Failed to register session", err, "session_id", id)
		return nil, fmt.Errorf("failed to register session %s: %w", id, err)
	}

	return record, nil
}

// AddFile records file in the session, replacing an entry with the same name.
func (r *SessionRepository) AddFile(sessionID string, file domain.SessionFile) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)

		record, err := decodeRecord(b.Get([]byte(sessionID)))
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrSessionNotFound
		}

		record.PutFile(file)
		return putRecord(b, record)
	})
	if err != nil {
		return fmt.Errorf("failed to add file to session %s: %w", sessionID, err)
	}
	return nil
}

func (r *SessionRepository) Get(id string) (*domain.SessionRecord, error) {
	var record *domain.SessionRecord

	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		record, err = decodeRecord(tx.Bucket(sessionsBucket).Get([]byte(id)))
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrSessionNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List returns all records ordered by creation time, then id.
func (r *SessionRepository) List() ([]*domain.SessionRecord, error) {
	records := []*domain.SessionRecord{}

	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(_, v []byte) error {
			record, err := decodeRecord(v)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (r *SessionRepository) Close() error {
	return r.db.Close()
}

// decodeRecord returns nil for a missing value.
func decodeRecord(data []byte) (*domain.SessionRecord, error) {
	if data == nil {
		return nil, nil
	}
	var record domain.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode session record: %w", err)
	}
	if record.Files == nil {
		record.Files = []domain.SessionFile{}
	}
	return &record, nil
}

func putRecord(b *bolt.Bucket, record *domain.SessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}
	return b.Put([]byte(record.ID), data)
}
