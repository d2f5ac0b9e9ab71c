// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/hiyoungaroo/wrappedAUC/payload"
)

// Receive is the transport's inbound callback: authenticate the message
// against the trusted remote for its source chain, reject replays, then
// mint to the payload's receiver.
//
// The (srcAddress, srcChain, nonce) triple is marked processed before the
// mint so that a partially failed and retried mint hits replay protection
// instead of double-crediting.
func (b *Bridge) Receive(caller common.Address, srcChain uint16, srcAddress []byte, nonce uint64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.endpoint.Addr() {
		return ErrUnauthorizedCaller
	}

	if !b.remotes.Matches(srcChain, srcAddress) {
		return ErrSourceAddressMismatch
	}

	seen, err := b.nonces.Seen(srcAddress, srcChain, nonce)
	if err != nil {
		return err
	}
	if seen {
		return ErrDuplicateNonce
	}

	if err := b.nonces.Mark(srcAddress, srcChain, nonce); err != nil {
		return err
	}

	transfer, err := payload.Decode(data)
	if err != nil {
		return fmt.Errorf("inbound payload: %w", err)
	}

	if err := b.ledger.Mint(transfer.Receiver, transfer.Amount); err != nil {
		return fmt.Errorf("mint: %w", err)
	}

	b.inbound++
	b.volumeIn.Add(b.volumeIn, transfer.Amount)

	id := transferID(srcChain, b.chainID, data)
	b.record(KindBridgingCompleted, BridgingCompleted{
		ID:         id,
		SrcChain:   srcChain,
		DstChain:   b.chainID,
		SrcTxIndex: transfer.Sequence,
		Receiver:   transfer.Receiver,
		Amount:     transfer.Amount,
	})
	b.log.Info("bridging completed",
		"id", id, "srcChain", srcChain, "nonce", nonce, "sequence", transfer.Sequence,
		"receiver", transfer.Receiver, "amount", transfer.Amount)
	return nil
}
