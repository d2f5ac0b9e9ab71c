// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bridge implements the cross-chain token bridge core: burn-and-send
// on the way out, authenticate-dedupe-mint on the way in. The token ledger
// and the message transport are collaborators behind interfaces; this
// package owns the trusted remote registry, the processed-nonce ledger, the
// outbound counter and the audit journal.
//
// Every state-mutating operation runs under one mutex, so concurrent calls
// observe a strict total order and each call sees the full effects of the
// calls ordered before it.
package bridge

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/crypto"
	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/hiyoungaroo/wrappedAUC/journal"
	"github.com/hiyoungaroo/wrappedAUC/nonces"
	"github.com/hiyoungaroo/wrappedAUC/remotes"
	"github.com/hiyoungaroo/wrappedAUC/token"
	"github.com/hiyoungaroo/wrappedAUC/transport"
)

// Bridge is the protocol core for one chain.
type Bridge struct {
	owner   common.Address
	chainID uint16
	self    common.Address

	endpoint transport.Endpoint
	ledger   token.Ledger
	nonces   *nonces.Ledger
	remotes  *remotes.Registry
	journal  *journal.Journal
	log      log.Logger

	feeBPS    uint64
	txCounter uint256.Int

	outbound      uint64
	inbound       uint64
	volumeOut     *big.Int
	volumeIn      *big.Int
	feesCollected *big.Int

	mu sync.RWMutex
}

var _ transport.Receiver = (*Bridge)(nil)

// New assembles a bridge over its collaborators. db backs both the
// processed-nonce ledger and the audit journal; it must be durable in any
// deployment that has to survive restarts.
func New(cfg Config, endpoint transport.Endpoint, ledger token.Ledger,
	db database.Database, logger log.Logger) (*Bridge, error) {

	jr, err := journal.New(db)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	return &Bridge{
		owner:         cfg.Owner,
		chainID:       cfg.ChainID,
		self:          cfg.Self,
		endpoint:      endpoint,
		ledger:        ledger,
		nonces:        nonces.NewLedger(db),
		remotes:       remotes.NewRegistry(),
		journal:       jr,
		log:           logger,
		feeBPS:        cfg.FeeBPS,
		volumeOut:     big.NewInt(0),
		volumeIn:      big.NewInt(0),
		feesCollected: big.NewInt(0),
	}, nil
}

// Owner returns the admin principal.
func (b *Bridge) Owner() common.Address { return b.owner }

// ChainID returns the chain this bridge lives on.
func (b *Bridge) ChainID() uint16 { return b.chainID }

// FeeBPS returns the current transfer fee in basis points.
func (b *Bridge) FeeBPS() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.feeBPS
}

// TxCounter returns the current outbound sequence counter. The next
// outbound transfer will carry this value plus one.
func (b *Bridge) TxCounter() *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.txCounter.ToBig()
}

// TrustedRemote returns the configured peer address bytes for a chain, nil
// when unconfigured.
func (b *Bridge) TrustedRemote(chain uint16) []byte {
	return b.remotes.Get(chain)
}

// IsProcessed reports whether an inbound message identity has already been
// accepted.
func (b *Bridge) IsProcessed(remote []byte, srcChain uint16, nonce uint64) (bool, error) {
	return b.nonces.Seen(remote, srcChain, nonce)
}

// Journal exposes the audit journal for off-chain indexing.
func (b *Bridge) Journal() *journal.Journal {
	return b.journal
}

// Stats returns copies of the cumulative transfer counters.
func (b *Bridge) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Stats{
		OutboundTransfers: b.outbound,
		InboundTransfers:  b.inbound,
		OutboundVolume:    new(big.Int).Set(b.volumeOut),
		InboundVolume:     new(big.Int).Set(b.volumeIn),
		FeesCollected:     new(big.Int).Set(b.feesCollected),
	}
}

// record appends an audit event. Journal failures never unwind protocol
// state that is already final; they are surfaced in the log instead.
func (b *Bridge) record(kind string, ev any) {
	if err := b.journal.Append(kind, ev); err != nil {
		b.log.Error("audit journal append failed", "kind", kind, "err", err)
	}
}

// feeFor computes floor(amount * bps / 10000).
func feeFor(amount *big.Int, bps uint64) *big.Int {
	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(bps))
	return fee.Div(fee, big.NewInt(BPSDenominator))
}

// transferID derives the correlation hash for one transfer from its route
// and encoded payload. Both legs hash the same bytes, so the initiated and
// completed events for a transfer share the ID.
func transferID(srcChain, dstChain uint16, data []byte) common.Hash {
	var route [4]byte
	binary.BigEndian.PutUint16(route[0:2], srcChain)
	binary.BigEndian.PutUint16(route[2:4], dstChain)
	return common.BytesToHash(crypto.Keccak256(route[:], data))
}
