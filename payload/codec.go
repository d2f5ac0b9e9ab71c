// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package payload encodes and decodes the cross-chain message body exchanged
// between bridge peers: an ABI-encoded (receiver, amount, sequence) tuple.
// The format deliberately carries no version discriminator; both ends of a
// channel must agree on this exact shape.
package payload

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
)

var (
	ErrNilAmount   = errors.New("payload amount is nil")
	ErrNilSequence = errors.New("payload sequence is nil")
	ErrBadPayload  = errors.New("malformed payload")
)

// Transfer is the decoded message body: who receives, how much arrives
// (already fee-adjusted by the sender), and the sender's outbound sequence
// number for tracing.
type Transfer struct {
	Receiver common.Address
	Amount   *big.Int
	Sequence *big.Int
}

var transferArgs = abi.Arguments{
	{Name: "receiver", Type: mustNewType("address")},
	{Name: "amount", Type: mustNewType("uint256")},
	{Name: "sequence", Type: mustNewType("uint256")},
}

func mustNewType(solidityType string) abi.Type {
	typ, err := abi.NewType(solidityType, "", nil)
	if err != nil {
		panic(fmt.Sprintf("abi type %q: %v", solidityType, err))
	}
	return typ
}

// Encode packs a Transfer into wire bytes.
func Encode(t Transfer) ([]byte, error) {
	if t.Amount == nil {
		return nil, ErrNilAmount
	}
	if t.Sequence == nil {
		return nil, ErrNilSequence
	}
	data, err := transferArgs.Pack(t.Receiver, t.Amount, t.Sequence)
	if err != nil {
		return nil, fmt.Errorf("pack transfer: %w", err)
	}
	return data, nil
}

// Decode unpacks wire bytes into a Transfer.
func Decode(data []byte) (Transfer, error) {
	values, err := transferArgs.Unpack(data)
	if err != nil {
		return Transfer{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(values) != 3 {
		return Transfer{}, ErrBadPayload
	}

	receiver, ok := values[0].(common.Address)
	if !ok {
		return Transfer{}, ErrBadPayload
	}
	amount, ok := values[1].(*big.Int)
	if !ok {
		return Transfer{}, ErrBadPayload
	}
	sequence, ok := values[2].(*big.Int)
	if !ok {
		return Transfer{}, ErrBadPayload
	}

	return Transfer{Receiver: receiver, Amount: amount, Sequence: sequence}, nil
}
