// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package journal

import (
	"testing"
	"time"

	"github.com/luxfi/database/memdb"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Chain uint16 `json:"chain"`
	Note  string `json:"note"`
}

func TestJournalAppendAndRead(t *testing.T) {
	db := memdb.New()
	defer db.Close()

	j, err := New(db)
	require.NoError(t, err)
	require.Zero(t, j.Len())

	require.NoError(t, j.Append("TrustedRemoteUpdated", sample{Chain: 2, Note: "set"}))
	require.NoError(t, j.Append("TransferFeeUpdated", sample{Note: "fee"}))
	require.Equal(t, uint64(2), j.Len())

	rec, err := j.Record(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), rec.Index)
	require.Equal(t, "TrustedRemoteUpdated", rec.Kind)
	require.JSONEq(t, `{"chain":2,"note":"set"}`, string(rec.Body))
	require.NotZero(t, rec.At)

	_, err = j.Record(2)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestJournalAll(t *testing.T) {
	db := memdb.New()
	defer db.Close()

	j, err := New(db)
	require.NoError(t, err)

	kinds := []string{"a", "b", "c"}
	for _, k := range kinds {
		require.NoError(t, j.Append(k, sample{}))
	}

	all, err := j.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, rec := range all {
		require.Equal(t, uint64(i), rec.Index)
		require.Equal(t, kinds[i], rec.Kind)
	}
}

func TestJournalResume(t *testing.T) {
	db := memdb.New()
	defer db.Close()

	j, err := New(db)
	require.NoError(t, err)
	require.NoError(t, j.Append("first", sample{}))

	// Reopening over the same database continues the index sequence.
	j2, err := New(db)
	require.NoError(t, err)
	require.Equal(t, uint64(1), j2.Len())
	require.NoError(t, j2.Append("second", sample{}))

	rec, err := j2.Record(1)
	require.NoError(t, err)
	require.Equal(t, "second", rec.Kind)
}

func TestJournalTimestamps(t *testing.T) {
	db := memdb.New()
	defer db.Close()

	j, err := New(db)
	require.NoError(t, err)

	fixed := time.Unix(1700000000, 0)
	j.now = func() time.Time { return fixed }

	require.NoError(t, j.Append("k", sample{}))
	rec, err := j.Record(0)
	require.NoError(t, err)
	require.Equal(t, fixed.Unix(), rec.At)
}
