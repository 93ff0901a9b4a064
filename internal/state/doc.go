// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

// Package state holds the last submitted detailed query so that the
// detailed view can be re-rendered without resubmitting. The memory store
// is the default; the badger store persists across restarts.
package state
