package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

// languageKey is the preferences bucket key of the persisted display language.
const languageKey = "language"

// GetBoltDBClient setup the database and the buckets then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{config.BoltDB.OrderBucket, config.BoltDB.PrefsBucket} {
			if _, errB := tx.CreateBucketIfNotExists([]byte(bucket)); errB != nil {
				return fmt.Errorf("failed to create %s bucket: %v", bucket, errB)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up buckets: %v", err)
	}
	return db, nil
}

type boltOrderArchive struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

var _ OrderArchiver = (*boltOrderArchive)(nil)

// NewBoltOrderArchive provides a bolt-based order archive.
func NewBoltOrderArchive(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) *boltOrderArchive {
	return &boltOrderArchive{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the underlying bolt database.
func (ba *boltOrderArchive) Close() error {
	return ba.client.Close()
}

// Archive inserts the trace of a submitted order.
func (ba *boltOrderArchive) Archive(_ context.Context, order ArchivedOrder) error {
	record, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return ba.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ba.config.OrderBucket)).Put([]byte(order.ID), record)
	})
}

// Archived retrieves all locally kept order traces.
func (ba *boltOrderArchive) Archived(_ context.Context) ([]ArchivedOrder, error) {
	tx, err := ba.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(ba.config.OrderBucket)).Cursor()
	orders := []ArchivedOrder{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var order ArchivedOrder
		if err = json.Unmarshal(v, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

type boltPreferenceStore struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

var _ PreferenceStore = (*boltPreferenceStore)(nil)

// NewBoltPreferenceStore provides a bolt-based preferences store.
func NewBoltPreferenceStore(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) *boltPreferenceStore {
	return &boltPreferenceStore{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// SaveLanguage persists the active display language.
func (ps *boltPreferenceStore) SaveLanguage(_ context.Context, code string) error {
	return ps.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ps.config.PrefsBucket)).Put([]byte(languageKey), []byte(code))
	})
}

// LoadLanguage retrieves the persisted display language. An unset
// preference yields an empty code, not an error.
func (ps *boltPreferenceStore) LoadLanguage(_ context.Context) (string, error) {
	var code string
	err := ps.client.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket([]byte(ps.config.PrefsBucket)).Get([]byte(languageKey)); raw != nil {
			code = string(raw)
		}
		return nil
	})
	return code, err
}
