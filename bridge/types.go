// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
)

// BPSDenominator is the basis-point fee denominator: fees are parts per 10000.
const BPSDenominator = 10000

// DefaultFeeBPS is the default transfer fee, 0.5%.
const DefaultFeeBPS = 50

// Config carries the bridge's identity and initial policy.
type Config struct {
	// Owner holds the admin capability; only it may reconfigure the bridge.
	Owner common.Address
	// ChainID identifies the chain this bridge instance lives on.
	ChainID uint16
	// Self is the bridge's own address, quoted to the transport when
	// estimating fees.
	Self common.Address
	// FeeBPS is the outbound transfer fee in basis points. Deliberately
	// unbounded above; bounding it is a governance decision.
	FeeBPS uint64
}

// DefaultConfig returns a Config with the default fee rate.
func DefaultConfig(owner, self common.Address, chainID uint16) Config {
	return Config{
		Owner:   owner,
		ChainID: chainID,
		Self:    self,
		FeeBPS:  DefaultFeeBPS,
	}
}

// Bridge errors
var (
	ErrUnconfiguredDestination = errors.New("destination chain has no trusted remote")
	ErrBurnAccountingMismatch  = errors.New("ledger balance did not decrease by burn amount")
	ErrFeeExceedsAmount        = errors.New("fee exceeds transfer amount")
	ErrUnauthorizedCaller      = errors.New("unauthorized caller")
	ErrSourceAddressMismatch   = errors.New("source address does not match trusted remote")
	ErrDuplicateNonce          = errors.New("message nonce already processed")
	ErrNilAmount               = errors.New("nil amount")
)

// Journal event kinds
const (
	KindBridgingInitiated     = "BridgingInitiated"
	KindBridgingCompleted     = "BridgingCompleted"
	KindEndpointUpdated       = "EndpointUpdated"
	KindTrustedRemoteUpdated  = "TrustedRemoteUpdated"
	KindTransferFeeUpdated    = "TransferFeeUpdated"
	KindSendVersionUpdated    = "SendVersionUpdated"
	KindReceiveVersionUpdated = "ReceiveVersionUpdated"
	KindConfigUpdated         = "ConfigUpdated"
	KindReceiveResumed        = "ReceiveResumed"
)

// BridgingInitiated records a completed outbound transfer: tokens burned
// locally, fee-adjusted amount handed to the transport.
type BridgingInitiated struct {
	ID         common.Hash    `json:"id"`
	SrcChain   uint16         `json:"srcChain"`
	DstChain   uint16         `json:"dstChain"`
	SrcTxIndex *big.Int       `json:"srcTxIndex"`
	Receiver   common.Address `json:"receiver"`
	Amount     *big.Int       `json:"amount"`
	Fees       *big.Int       `json:"fees"`
}

// BridgingCompleted records a completed inbound transfer: an authenticated,
// deduplicated message whose amount has been minted to the receiver.
type BridgingCompleted struct {
	ID         common.Hash    `json:"id"`
	SrcChain   uint16         `json:"srcChain"`
	DstChain   uint16         `json:"dstChain"`
	SrcTxIndex *big.Int       `json:"srcTxIndex"`
	Receiver   common.Address `json:"receiver"`
	Amount     *big.Int       `json:"amount"`
}

// EndpointUpdated records a transport replacement.
type EndpointUpdated struct {
	Before common.Address `json:"before"`
	After  common.Address `json:"after"`
}

// TrustedRemoteUpdated records a trusted remote change for one chain.
type TrustedRemoteUpdated struct {
	Chain  uint16        `json:"chain"`
	Before hexutil.Bytes `json:"before"`
	After  hexutil.Bytes `json:"after"`
}

// TransferFeeUpdated records a fee rate change, in basis points.
type TransferFeeUpdated struct {
	Before uint64 `json:"before"`
	After  uint64 `json:"after"`
}

// SendVersionUpdated records a transport send protocol version change.
type SendVersionUpdated struct {
	After uint16 `json:"after"`
}

// ReceiveVersionUpdated records a transport receive protocol version change.
type ReceiveVersionUpdated struct {
	After uint16 `json:"after"`
}

// ConfigUpdated records a transport configuration blob passthrough.
type ConfigUpdated struct {
	Version    uint16        `json:"version"`
	Chain      uint16        `json:"chain"`
	ConfigType uint64        `json:"configType"`
	Value      hexutil.Bytes `json:"value"`
}

// ReceiveResumed records a forced resume of a stuck inbound channel.
type ReceiveResumed struct {
	SrcChain   uint16        `json:"srcChain"`
	SrcAddress hexutil.Bytes `json:"srcAddress"`
}

// Stats are the bridge's cumulative counters since construction.
type Stats struct {
	OutboundTransfers uint64
	InboundTransfers  uint64
	// OutboundVolume sums fee-adjusted amounts handed to the transport.
	OutboundVolume *big.Int
	// InboundVolume sums amounts minted from inbound messages.
	InboundVolume *big.Int
	// FeesCollected sums the basis-point fees retained on outbound sends.
	FeesCollected *big.Int
}
