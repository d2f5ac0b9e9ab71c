// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token defines the balance ledger the bridge burns from and mints
// into. The bridge only ever calls Burn, Mint and BalanceOf; transfer and
// allowance mechanics live with whatever implements the interface.
package token

import (
	"errors"
	"math/big"
	"sync"

	"github.com/luxfi/geth/common"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSupplyOverflow      = errors.New("mint overflows maximum supply")
	ErrNegativeAmount      = errors.New("negative amount")
	ErrNilAmount           = errors.New("nil amount")
)

// Ledger is the token collaborator interface. Burn and Mint are atomic:
// they either apply fully or leave balances untouched.
type Ledger interface {
	BalanceOf(holder common.Address) *big.Int
	Burn(holder common.Address, amount *big.Int) error
	Mint(receiver common.Address, amount *big.Int) error
}

// MaxSupply is 2^256-1, the largest representable token supply.
var MaxSupply = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Book is an in-process Ledger with total-supply tracking. It backs the
// bridge tests and any single-node deployment that keeps balances locally.
type Book struct {
	balances map[common.Address]*big.Int
	supply   *big.Int

	mu sync.RWMutex
}

var _ Ledger = (*Book)(nil)

// NewBook creates an empty ledger with zero supply.
func NewBook() *Book {
	return &Book{
		balances: make(map[common.Address]*big.Int),
		supply:   big.NewInt(0),
	}
}

// BalanceOf returns a copy of the holder's balance, zero if absent.
func (b *Book) BalanceOf(holder common.Address) *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	bal, ok := b.balances[holder]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(bal)
}

// TotalSupply returns a copy of the current total supply.
func (b *Book) TotalSupply() *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return new(big.Int).Set(b.supply)
}

// Burn removes amount from the holder's balance and the total supply.
func (b *Book) Burn(holder common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	bal, ok := b.balances[holder]
	if !ok {
		if amount.Sign() == 0 {
			return nil
		}
		return ErrInsufficientBalance
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	bal.Sub(bal, amount)
	b.supply.Sub(b.supply, amount)
	return nil
}

// Mint credits amount to the receiver and grows the total supply, refusing
// to grow past MaxSupply.
func (b *Book) Mint(receiver common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	next := new(big.Int).Add(b.supply, amount)
	if next.Cmp(MaxSupply) > 0 {
		return ErrSupplyOverflow
	}

	bal, ok := b.balances[receiver]
	if !ok {
		bal = big.NewInt(0)
		b.balances[receiver] = bal
	}
	bal.Add(bal, amount)
	b.supply.Set(next)
	return nil
}

func checkAmount(amount *big.Int) error {
	if amount == nil {
		return ErrNilAmount
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	return nil
}
