// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"math/big"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
)

func TestBookMintAndBalance(t *testing.T) {
	b := NewBook()
	require.Zero(t, b.BalanceOf(alice).Sign())

	require.NoError(t, b.Mint(alice, big.NewInt(10000)))
	require.Equal(t, int64(10000), b.BalanceOf(alice).Int64())
	require.Equal(t, int64(10000), b.TotalSupply().Int64())

	require.NoError(t, b.Mint(alice, big.NewInt(1)))
	require.Equal(t, int64(10001), b.BalanceOf(alice).Int64())
}

func TestBookBurn(t *testing.T) {
	b := NewBook()
	require.NoError(t, b.Mint(alice, big.NewInt(100)))

	require.NoError(t, b.Burn(alice, big.NewInt(40)))
	require.Equal(t, int64(60), b.BalanceOf(alice).Int64())
	require.Equal(t, int64(60), b.TotalSupply().Int64())

	// Burning more than held fails and changes nothing.
	err := b.Burn(alice, big.NewInt(61))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.Equal(t, int64(60), b.BalanceOf(alice).Int64())

	// Unknown holder has nothing to burn.
	err = b.Burn(bob, big.NewInt(1))
	require.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestBookZeroAmounts(t *testing.T) {
	b := NewBook()

	// Zero mint and zero burn are valid no-ops, even on accounts the
	// ledger has never seen.
	require.NoError(t, b.Mint(alice, big.NewInt(0)))
	require.NoError(t, b.Burn(alice, big.NewInt(0)))
	require.NoError(t, b.Burn(bob, big.NewInt(0)))
	require.Zero(t, b.TotalSupply().Sign())
}

func TestBookRejectsBadAmounts(t *testing.T) {
	b := NewBook()

	require.ErrorIs(t, b.Mint(alice, nil), ErrNilAmount)
	require.ErrorIs(t, b.Burn(alice, nil), ErrNilAmount)
	require.ErrorIs(t, b.Mint(alice, big.NewInt(-1)), ErrNegativeAmount)
	require.ErrorIs(t, b.Burn(alice, big.NewInt(-1)), ErrNegativeAmount)
}

func TestBookSupplyOverflow(t *testing.T) {
	b := NewBook()
	require.NoError(t, b.Mint(alice, MaxSupply))

	err := b.Mint(bob, big.NewInt(1))
	require.ErrorIs(t, err, ErrSupplyOverflow)
	require.Zero(t, b.BalanceOf(bob).Sign())
	require.Zero(t, b.TotalSupply().Cmp(MaxSupply))
}

func TestBookBalanceCopies(t *testing.T) {
	b := NewBook()
	require.NoError(t, b.Mint(alice, big.NewInt(5)))

	bal := b.BalanceOf(alice)
	bal.SetInt64(0)
	require.Equal(t, int64(5), b.BalanceOf(alice).Int64())
}
