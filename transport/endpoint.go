// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package transport abstracts the cross-chain messaging endpoint the bridge
// hands outbound payloads to and receives inbound callbacks from. Delivery
// is asynchronous and out of the sender's control; the bridge trusts the
// endpoint for delivery only, never for message origin (that is what the
// trusted remote check is for).
package transport

import (
	"context"
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
)

var (
	ErrNoRoute         = errors.New("no endpoint for destination")
	ErrUnknownReceiver = errors.New("no application at destination address")
	ErrInsufficientFee = errors.New("attached value below delivery fee")
	ErrNotRegistered   = errors.New("endpoint has no registered application")
)

// Receiver is the inbound callback surface an application registers with
// its endpoint. The endpoint invokes it once per delivered message.
type Receiver interface {
	Receive(caller common.Address, srcChain uint16, srcAddress []byte, nonce uint64, payload []byte) error
}

// Endpoint is the messaging transport as seen by one chain's bridge.
type Endpoint interface {
	// Addr is the endpoint's own address; inbound callbacks authenticate
	// their caller against it.
	Addr() common.Address

	// Send hands a payload to the transport for delivery to dstAddress on
	// dstChain. attachedValue pays the transport's delivery fee; refund
	// receives any excess. adapterParams tune relayer behavior and pass
	// through opaque.
	Send(ctx context.Context, dstChain uint16, dstAddress []byte, payload []byte,
		refund common.Address, feeToken common.Address, adapterParams []byte,
		attachedValue *big.Int) error

	// EstimateFees quotes the delivery cost of payload to dstChain, in
	// native currency and (when payInFeeToken is set) in the fee token.
	EstimateFees(dstChain uint16, userApp common.Address, payload []byte,
		payInFeeToken bool, adapterParams []byte) (native *big.Int, feeToken *big.Int, err error)

	// Configuration passthrough, owner-gated at the bridge layer.
	SetSendVersion(version uint16) error
	SetReceiveVersion(version uint16) error
	SetConfig(version uint16, chain uint16, configType uint64, cfg []byte) error

	// ForceResumeReceive unblocks a stuck inbound channel.
	ForceResumeReceive(srcChain uint16, srcAddress []byte) error
}
