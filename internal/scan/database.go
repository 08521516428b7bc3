package scan

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const scanBucket = "scans"

// DB is the scan-history store: the persistence boundary downstream of the
// extraction core.
type DB interface {
	// SaveRecord saves a scan record.
	SaveRecord(record *Record) error

	// GetRecord retrieves a scan record by ID.
	GetRecord(id string) (*Record, error)

	// ListRecords returns all scan records.
	ListRecords() ([]*Record, error)

	// DeleteRecord removes a scan record.
	DeleteRecord(id string) error

	// Close closes the database.
	Close() error
}

// BoltDB implements DB on a single-file bbolt database.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens (or creates) the history database at path.
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(scanBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveRecord saves a scan record.
func (b *BoltDB) SaveRecord(record *Record) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		return tx.Bucket([]byte(scanBucket)).Put([]byte(record.ID), data)
	})
}

// GetRecord retrieves a scan record by ID.
func (b *BoltDB) GetRecord(id string) (*Record, error) {
	var record *Record
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(scanBucket)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("scan record not found: %s", id)
		}
		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListRecords returns all scan records.
func (b *BoltDB) ListRecords() ([]*Record, error) {
	records := make([]*Record, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(scanBucket)).ForEach(func(k, v []byte) error {
			var record Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("unmarshaling record: %w", err)
			}
			records = append(records, &record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteRecord removes a scan record.
func (b *BoltDB) DeleteRecord(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(scanBucket)).Delete([]byte(id))
	})
}

// Close closes the database.
func (b *BoltDB) Close() error {
	return b.db.Close()
}
