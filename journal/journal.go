// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package journal persists the bridge's audit events as an append-only,
// monotonically indexed record stream. Records are never rewritten or
// deleted; off-chain indexers read them by position.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
)

var (
	recordPrefix = []byte("bridge/journal/records")
	metaPrefix   = []byte("bridge/journal/meta")

	lengthKey = []byte("len")

	ErrOutOfRange = errors.New("journal index out of range")
)

// Record is one audit entry. Body is the event's JSON encoding; Kind names
// the event type so indexers can dispatch without decoding.
type Record struct {
	Index uint64          `json:"index"`
	At    int64           `json:"at"`
	Kind  string          `json:"kind"`
	Body  json.RawMessage `json:"body"`
}

// Journal is a durable append-only event log. Appends are serialized by the
// owning bridge; concurrent readers are safe because written records are
// immutable.
type Journal struct {
	records database.Database
	meta    database.Database
	length  uint64

	now func() time.Time
}

// New opens (or resumes) a journal over db.
func New(db database.Database) (*Journal, error) {
	j := &Journal{
		records: prefixdb.New(recordPrefix, db),
		meta:    prefixdb.New(metaPrefix, db),
		now:     time.Now,
	}

	raw, err := j.meta.Get(lengthKey)
	switch {
	case err == nil:
		if len(raw) != 8 {
			return nil, fmt.Errorf("journal length record is %d bytes, want 8", len(raw))
		}
		j.length = binary.BigEndian.Uint64(raw)
	case errors.Is(err, database.ErrNotFound):
		// fresh journal
	default:
		return nil, fmt.Errorf("journal open: %w", err)
	}
	return j, nil
}

// Append serializes body and writes it as the next record.
func (j *Journal) Append(kind string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("journal marshal %s: %w", kind, err)
	}

	rec := Record{
		Index: j.length,
		At:    j.now().Unix(),
		Kind:  kind,
		Body:  raw,
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("journal marshal record: %w", err)
	}

	if err := j.records.Put(indexKey(rec.Index), blob); err != nil {
		return fmt.Errorf("journal append: %w", err)
	}

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, rec.Index+1)
	if err := j.meta.Put(lengthKey, next); err != nil {
		return fmt.Errorf("journal length update: %w", err)
	}

	j.length = rec.Index + 1
	return nil
}

// Len returns the number of records appended so far.
func (j *Journal) Len() uint64 {
	return j.length
}

// Record fetches one record by index.
func (j *Journal) Record(index uint64) (Record, error) {
	if index >= j.length {
		return Record{}, ErrOutOfRange
	}

	blob, err := j.records.Get(indexKey(index))
	if err != nil {
		return Record{}, fmt.Errorf("journal read %d: %w", index, err)
	}

	var rec Record
	if err := json.Unmarshal(blob, &rec); err != nil {
		return Record{}, fmt.Errorf("journal decode %d: %w", index, err)
	}
	return rec, nil
}

// All returns every record in append order.
func (j *Journal) All() ([]Record, error) {
	out := make([]Record, 0, j.length)
	for i := uint64(0); i < j.length; i++ {
		rec, err := j.Record(i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func indexKey(index uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, index)
	return key
}
