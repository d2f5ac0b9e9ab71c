// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package nonces persists the set of inbound message identities that have
// already been processed. Membership is keyed by the full
// (remote address bytes, source chain ID, nonce) triple; once a triple is
// marked it stays marked for the life of the database, which is what makes
// replayed deliveries detectable across restarts.
package nonces

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
)

var ledgerPrefix = []byte("bridge/nonces")

// processed is the stored marker value; only key membership matters.
var processed = []byte{0x01}

// Ledger is a durable insert-once membership set over a key-value database.
// It performs no locking of its own: the bridge core serializes Seen/Mark
// pairs inside its own critical section.
type Ledger struct {
	db database.Database
}

// NewLedger wraps db under the ledger's key namespace.
func NewLedger(db database.Database) *Ledger {
	return &Ledger{db: prefixdb.New(ledgerPrefix, db)}
}

// Seen reports whether the triple has already been marked processed.
func (l *Ledger) Seen(remote []byte, chain uint16, nonce uint64) (bool, error) {
	seen, err := l.db.Has(tripleKey(remote, chain, nonce))
	if err != nil {
		return false, fmt.Errorf("nonce lookup: %w", err)
	}
	return seen, nil
}

// Mark records the triple as processed. Marking an already-marked triple is
// a no-op; callers that need insert-once semantics check Seen first.
func (l *Ledger) Mark(remote []byte, chain uint16, nonce uint64) error {
	if err := l.db.Put(tripleKey(remote, chain, nonce), processed); err != nil {
		return fmt.Errorf("nonce mark: %w", err)
	}
	return nil
}

// tripleKey lays out chain and nonce as fixed-width big-endian fields ahead
// of the variable-length remote bytes, so no two triples can collide.
func tripleKey(remote []byte, chain uint16, nonce uint64) []byte {
	key := make([]byte, 2+8+len(remote))
	binary.BigEndian.PutUint16(key[0:2], chain)
	binary.BigEndian.PutUint64(key[2:10], nonce)
	copy(key[10:], remote)
	return key
}
