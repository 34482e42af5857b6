// Package devicelog keeps a badger-backed record of every adapter this host
// has connected to.
package devicelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger"
	"go.uber.org/zap"
)

const keyPrefix = "adapters/"

type Service struct {
	log *zap.Logger
	db  *badger.DB
	now func() time.Time
}

func New(db *badger.DB, log *zap.Logger, now func() time.Time) *Service {
	return &Service{
		log: log,
		db:  db,
		now: now,
	}
}

// Record is one adapter's sighting history.
type Record struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FirstSeenAt  time.Time `json:"firstSeenAt"`
	LastSeenAt   time.Time `json:"lastSeenAt"`
	ConnectCount int       `json:"connectCount"`
}

func recordKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// RecordConnect upserts the sighting record for an adapter that just
// connected, preserving its first-seen time.
func (s *Service) RecordConnect(id, name string) (Record, error) {
	var rec Record
	now := s.now()
	err := s.db.Update(func(txn *badger.Txn) error {
		key := recordKey(id)
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			rec = Record{ID: id, FirstSeenAt: now}
		case err != nil:
			return err
		default:
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}
		}
		rec.Name = name
		rec.LastSeenAt = now
		rec.ConnectCount++
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		return txn.Set(key, b)
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to record adapter: %w", err)
	}
	s.log.Debug("adapter sighting recorded",
		zap.String("id", rec.ID),
		zap.Int("connectCount", rec.ConnectCount))
	return rec, nil
}

// List returns all known adapter records.
func (s *Service) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(txn *badger.Txn) error {
		iter := txn.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()
		prefix := []byte(keyPrefix)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var rec Record
			err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list adapters: %w", err)
	}
	return records, nil
}
