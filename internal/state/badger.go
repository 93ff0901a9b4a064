// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// submissionKey holds the JSON-encoded Submission.
var submissionKey = []byte("detailed:submitted")

// BadgerStore persists the submission in BadgerDB so it survives restarts.
type BadgerStore struct {
	db   *badger.DB
	owns bool
}

// NewBadgerStore wraps db. When owns is true, Close also closes db.
func NewBadgerStore(db *badger.DB, owns bool) *BadgerStore {
	return &BadgerStore{db: db, owns: owns}
}

// Load reads the submission.
func (b *BadgerStore) Load(_ context.Context) (Submission, bool, error) {
	var s Submission
	found := false

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(submissionKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &s)
		})
	})
	if err != nil {
		return Submission{}, false, err
	}
	return s, found, nil
}

// Save writes the submission, replacing any previous one.
func (b *BadgerStore) Save(_ context.Context, s Submission) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(submissionKey, data)
	})
}

// Clear deletes the submission.
func (b *BadgerStore) Clear(_ context.Context) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(submissionKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete submission: %w", err)
		}
		return nil
	})
}

// Close closes the database if this store owns it.
func (b *BadgerStore) Close() error {
	if b.owns {
		return b.db.Close()
	}
	return nil
}
