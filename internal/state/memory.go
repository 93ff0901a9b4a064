// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package state

import (
	"context"
	"sync"
)

// MemoryStore keeps the submission in process memory. It is lost on restart.
type MemoryStore struct {
	mu  sync.RWMutex
	cur *Submission
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the current submission.
func (m *MemoryStore) Load(_ context.Context) (Submission, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cur == nil {
		return Submission{}, false, nil
	}
	return *m.cur, true, nil
}

// Save replaces the current submission.
func (m *MemoryStore) Save(_ context.Context, s Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = &s
	return nil
}

// Clear forgets the current submission.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = nil
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
