// Package badger persists display settings in an embedded BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	pkgerrors "thoughtgraph/pkg/errors"
)

// SettingsStore stores the settings blob under a single key
type SettingsStore struct {
	db     *badgerdb.DB
	key    []byte
	logger *zap.Logger
}

// Open opens (or creates) the database in dir
func Open(dir, key string, logger *zap.Logger) (*SettingsStore, error) {
	opts := badgerdb.DefaultOptions(dir).WithLoggingLevel(badgerdb.ERROR)
	return open(opts, key, logger)
}

// OpenInMemory opens a database that lives only as long as the process
func OpenInMemory(key string, logger *zap.Logger) (*SettingsStore, error) {
	opts := badgerdb.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badgerdb.ERROR)
	return open(opts, key, logger)
}

func open(opts badgerdb.Options, key string, logger *zap.Logger) (*SettingsStore, error) {
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, pkgerrors.NewStorageError("open settings database", err)
	}
	logger.Info("opened settings database", zap.String("dir", opts.Dir), zap.Bool("inMemory", opts.InMemory))
	return &SettingsStore{db: db, key: []byte(key), logger: logger}, nil
}

// Get reads the stored settings
func (s *SettingsStore) Get(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("settings key %q", s.key))
	}
	if err != nil {
		return nil, pkgerrors.NewStorageError("get settings", err)
	}
	return data, nil
}

// Put writes the settings
func (s *SettingsStore) Put(ctx context.Context, data []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(s.key, data)
	})
	if err != nil {
		return pkgerrors.NewStorageError("put settings", err)
	}
	return nil
}

// Close flushes and closes the database
func (s *SettingsStore) Close() error {
	return s.db.Close()
}
