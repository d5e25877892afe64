package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltStores returns an archive and a preferences store backed by a
// bolt database in a temporary path.
func newTestBoltStores() (*boltOrderArchive, *boltPreferenceStore, error) {
	f, err := os.CreateTemp("", "tmp.bolt.db-")
	if err != nil {
		return nil, nil, err
	}
	f.Close()
	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:    f.Name(),
			Timeout:     5 * time.Second,
			OrderBucket: "test.orders",
			PrefsBucket: "test.prefs",
		},
	}

	client, err := GetBoltDBClient(testConfig)

	archive := NewBoltOrderArchive(zap.NewNop(), &testConfig.BoltDB, client)
	prefs := NewBoltPreferenceStore(zap.NewNop(), &testConfig.BoltDB, client)
	return archive, prefs, err
}

// closeTestBoltStore closes the temporary bolt store and removes the underlying data file.
func (ba *boltOrderArchive) closeTestBoltStore() error {
	defer os.Remove(ba.config.FilePath)
	return ba.Close()
}

// Ensure the bolt archive keeps submitted order traces.
func TestBoltOrderArchive(t *testing.T) {
	archive, _, err := newTestBoltStores()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer archive.closeTestBoltStore()

	order := ArchivedOrder{
		ID:          "o:0",
		OrderNumber: "CMD-2023-001",
		Email:       "amina@example.ma",
		Items:       []OrderItem{{BookID: 1, Quantity: 1}},
		TotalPrice:  "50",
		SubmittedAt: "2023-07-02T00:00:00Z",
	}
	err = archive.Archive(context.TODO(), order)
	assert.NoError(t, err)

	// Verify the trace can be retrieved.
	orders, err := archive.Archived(context.TODO())
	assert.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order, orders[0])

	// Re-archiving the same order id must not duplicate the trace.
	err = archive.Archive(context.TODO(), order)
	assert.NoError(t, err)
	orders, err = archive.Archived(context.TODO())
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
}

// Ensure the bolt preferences store keeps the display language.
func TestBoltPreferenceStore(t *testing.T) {
	archive, prefs, err := newTestBoltStores()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer archive.closeTestBoltStore()

	// An unset preference yields an empty code.
	code, err := prefs.LoadLanguage(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, "", code)

	err = prefs.SaveLanguage(context.TODO(), "fr")
	assert.NoError(t, err)

	code, err = prefs.LoadLanguage(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, "fr", code)
}
