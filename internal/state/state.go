// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package state

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/gridwatch/internal/config"
	"github.com/tomtom215/gridwatch/internal/traffic"
)

// Submission is the last detailed query a user submitted.
type Submission struct {
	ID          string         `json:"id"`
	Filter      traffic.Filter `json:"filter"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// Store keeps the single submitted detailed query. Load reports ok=false
// when nothing has been submitted.
type Store interface {
	Load(ctx context.Context) (Submission, bool, error)
	Save(ctx context.Context, s Submission) error
	Clear(ctx context.Context) error
	Close() error
}

// Open creates the store selected by cfg.
func Open(cfg config.StateConfig) (Store, error) {
	switch cfg.Store {
	case "", config.StateStoreMemory:
		return NewMemoryStore(), nil
	case config.StateStoreBadger:
		opts := badger.DefaultOptions(cfg.Path)
		opts.Logger = nil // Suppress BadgerDB logs

		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger db for state: %w", err)
		}
		return NewBadgerStore(db, true), nil
	default:
		return nil, fmt.Errorf("unknown state store %q", cfg.Store)
	}
}
