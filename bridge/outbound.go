// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/hiyoungaroo/wrappedAUC/payload"
	"github.com/hiyoungaroo/wrappedAUC/token"
)

// SendTokens burns amount from the sender's balance and hands the
// fee-adjusted remainder to the transport for minting on dstChain.
//
// Once the burn has succeeded it is final: a transport failure after that
// point is returned to the caller but does not restore the balance, and the
// outbound counter keeps its increment. There is no refund path; recovering
// a burned-but-undelivered transfer is an operational matter outside this
// core.
func (b *Bridge) SendTokens(ctx context.Context, from, receiver common.Address, amount *big.Int,
	dstChain uint16, adapterParams []byte, attachedValue *big.Int) error {

	if amount == nil {
		return ErrNilAmount
	}
	if amount.Sign() < 0 {
		return token.ErrNegativeAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.remotes.Configured(dstChain) {
		return ErrUnconfiguredDestination
	}

	// Fee math is validated before the burn so a fee rate above 100%
	// cannot destroy tokens it has no way to forward.
	fees := feeFor(amount, b.feeBPS)
	finalAmount := new(big.Int).Sub(amount, fees)
	if finalAmount.Sign() < 0 {
		return ErrFeeExceedsAmount
	}

	balanceBefore := b.ledger.BalanceOf(from)
	if err := b.ledger.Burn(from, amount); err != nil {
		return err
	}

	// Double-check the ledger actually removed what we asked it to.
	burned := new(big.Int).Sub(balanceBefore, b.ledger.BalanceOf(from))
	if burned.Cmp(amount) != 0 {
		return ErrBurnAccountingMismatch
	}

	b.txCounter.AddUint64(&b.txCounter, 1)
	sequence := b.txCounter.ToBig()

	data, err := payload.Encode(payload.Transfer{
		Receiver: receiver,
		Amount:   finalAmount,
		Sequence: sequence,
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	dstAddress := b.remotes.Get(dstChain)
	if err := b.endpoint.Send(ctx, dstChain, dstAddress, data, from, common.Address{}, adapterParams, attachedValue); err != nil {
		b.log.Warn("transport send failed after burn",
			"dstChain", dstChain, "sequence", sequence, "amount", finalAmount, "err", err)
		return fmt.Errorf("endpoint send: %w", err)
	}

	b.outbound++
	b.volumeOut.Add(b.volumeOut, finalAmount)
	b.feesCollected.Add(b.feesCollected, fees)

	id := transferID(b.chainID, dstChain, data)
	b.record(KindBridgingInitiated, BridgingInitiated{
		ID:         id,
		SrcChain:   b.chainID,
		DstChain:   dstChain,
		SrcTxIndex: sequence,
		Receiver:   receiver,
		Amount:     finalAmount,
		Fees:       fees,
	})
	b.log.Info("bridging initiated",
		"id", id, "dstChain", dstChain, "sequence", sequence,
		"receiver", receiver, "amount", finalAmount, "fees", fees)
	return nil
}

// EstimateSendFee quotes the transport's delivery fee for a transfer shaped
// exactly like SendTokens would produce, using the current counter value
// without incrementing it. The quote is transport currency only; the
// bridge's own basis-point fee comes out of the transferred amount and must
// be budgeted separately.
func (b *Bridge) EstimateSendFee(receiver common.Address, amount *big.Int, dstChain uint16,
	adapterParams []byte, feeToken common.Address) (*big.Int, *big.Int, error) {

	if amount == nil {
		return nil, nil, ErrNilAmount
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	fees := feeFor(amount, b.feeBPS)
	finalAmount := new(big.Int).Sub(amount, fees)
	if finalAmount.Sign() < 0 {
		return nil, nil, ErrFeeExceedsAmount
	}

	data, err := payload.Encode(payload.Transfer{
		Receiver: receiver,
		Amount:   finalAmount,
		Sequence: b.txCounter.ToBig(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("encode payload: %w", err)
	}

	payInFeeToken := feeToken != (common.Address{})
	return b.endpoint.EstimateFees(dstChain, b.self, data, payInFeeToken, adapterParams)
}
