// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiyoungaroo/wrappedAUC/transport"
)

var intruder = sender

func TestAdminOwnerGating(t *testing.T) {
	p := newPair(t)

	require.ErrorIs(t, p.a.SetTrustedRemote(intruder, chainB, []byte{0x01}), ErrUnauthorizedCaller)
	require.ErrorIs(t, p.a.SetFeeBPS(intruder, 0), ErrUnauthorizedCaller)
	require.ErrorIs(t, p.a.SetEndpoint(intruder, p.epA), ErrUnauthorizedCaller)
	require.ErrorIs(t, p.a.SetSendVersion(intruder, 2), ErrUnauthorizedCaller)
	require.ErrorIs(t, p.a.SetReceiveVersion(intruder, 2), ErrUnauthorizedCaller)
	require.ErrorIs(t, p.a.SetConfig(intruder, 1, chainB, 6, nil), ErrUnauthorizedCaller)
	require.ErrorIs(t, p.a.ForceResumeReceive(intruder, chainB, bridgeAddrB.Bytes()), ErrUnauthorizedCaller)

	// Nothing changed.
	require.Equal(t, uint64(DefaultFeeBPS), p.a.FeeBPS())
	require.Equal(t, bridgeAddrB.Bytes(), p.a.TrustedRemote(chainB))
}

func TestSetFeeBPSEvent(t *testing.T) {
	p := newPair(t)
	require.NoError(t, p.a.SetFeeBPS(owner, 125))
	require.Equal(t, uint64(125), p.a.FeeBPS())

	recs, err := p.a.Journal().All()
	require.NoError(t, err)
	last := recs[len(recs)-1]
	require.Equal(t, KindTransferFeeUpdated, last.Kind)

	var ev TransferFeeUpdated
	require.NoError(t, json.Unmarshal(last.Body, &ev))
	require.Equal(t, uint64(DefaultFeeBPS), ev.Before)
	require.Equal(t, uint64(125), ev.After)
}

func TestSetTrustedRemoteEvent(t *testing.T) {
	p := newPair(t)
	require.NoError(t, p.a.SetTrustedRemote(owner, 7, []byte{0xAB}))
	require.NoError(t, p.a.SetTrustedRemote(owner, 7, []byte{0xCD}))

	recs, err := p.a.Journal().All()
	require.NoError(t, err)
	last := recs[len(recs)-1]
	require.Equal(t, KindTrustedRemoteUpdated, last.Kind)

	var ev TrustedRemoteUpdated
	require.NoError(t, json.Unmarshal(last.Body, &ev))
	require.Equal(t, uint16(7), ev.Chain)
	require.Equal(t, []byte{0xAB}, []byte(ev.Before))
	require.Equal(t, []byte{0xCD}, []byte(ev.After))
}

func TestClearingTrustedRemoteDisablesBothDirections(t *testing.T) {
	p := newPair(t)
	require.NoError(t, p.bookA.Mint(sender, big.NewInt(100)))

	require.NoError(t, p.a.SetTrustedRemote(owner, chainB, nil))

	// Outbound to the cleared chain fails.
	err := p.a.SendTokens(context.Background(), sender, remote, big.NewInt(100), chainB, nil, big.NewInt(0))
	require.ErrorIs(t, err, ErrUnconfiguredDestination)

	// Inbound claiming to come from it fails too.
	err = p.a.Receive(epAddrA, chainB, bridgeAddrB.Bytes(), 1, encodeTransfer(t, remote, 100, 1))
	require.ErrorIs(t, err, ErrSourceAddressMismatch)
}

func TestSetEndpoint(t *testing.T) {
	p := newPair(t)

	bus2 := transport.NewBus(big.NewInt(0), big.NewInt(0))
	ep2 := bus2.Endpoint(chainA, epAddrB)
	ep2.Register(p.a, bridgeAddrA.Bytes())

	require.NoError(t, p.a.SetEndpoint(owner, ep2))

	// The old endpoint's callbacks are no longer authorized.
	err := p.a.Receive(epAddrA, chainB, bridgeAddrB.Bytes(), 1, encodeTransfer(t, remote, 5, 1))
	require.ErrorIs(t, err, ErrUnauthorizedCaller)

	// The new endpoint's are.
	require.NoError(t, p.a.Receive(epAddrB, chainB, bridgeAddrB.Bytes(), 1, encodeTransfer(t, remote, 5, 1)))
	require.Equal(t, int64(5), p.bookA.BalanceOf(remote).Int64())

	recs, err := p.a.Journal().All()
	require.NoError(t, err)

	var ev EndpointUpdated
	found := false
	for _, rec := range recs {
		if rec.Kind == KindEndpointUpdated {
			require.NoError(t, json.Unmarshal(rec.Body, &ev))
			found = true
		}
	}
	require.True(t, found)
	require.Equal(t, epAddrA, ev.Before)
	require.Equal(t, epAddrB, ev.After)
}

func TestTransportPassthroughs(t *testing.T) {
	p := newPair(t)

	require.NoError(t, p.a.SetSendVersion(owner, 2))
	require.NoError(t, p.a.SetReceiveVersion(owner, 3))
	send, recv := p.epA.Versions()
	require.Equal(t, uint16(2), send)
	require.Equal(t, uint16(3), recv)

	require.NoError(t, p.a.SetConfig(owner, 2, chainB, 6, []byte{0xBE, 0xEF}))
	require.Equal(t, []byte{0xBE, 0xEF}, p.epA.Config(2, chainB, 6))

	kinds := map[string]bool{}
	recs, err := p.a.Journal().All()
	require.NoError(t, err)
	for _, rec := range recs {
		kinds[rec.Kind] = true
	}
	require.True(t, kinds[KindSendVersionUpdated])
	require.True(t, kinds[KindReceiveVersionUpdated])
	require.True(t, kinds[KindConfigUpdated])
}

func TestForceResumeReceiveDrainsStuckChannel(t *testing.T) {
	p := newPair(t)
	require.NoError(t, p.bookA.Mint(sender, big.NewInt(20000)))

	// Jam the B side of the A->B channel, then send into it.
	p.epB.Block(chainA, bridgeAddrA.Bytes())
	require.NoError(t, p.a.SendTokens(context.Background(), sender, remote, big.NewInt(10000), chainB, nil, big.NewInt(0)))
	require.NoError(t, p.a.SendTokens(context.Background(), sender, remote, big.NewInt(10000), chainB, nil, big.NewInt(0)))
	require.Zero(t, p.bookB.BalanceOf(remote).Sign())

	// The owner force-resumes on the destination bridge; both queued
	// messages land, each minted once.
	require.NoError(t, p.b.ForceResumeReceive(owner, chainA, bridgeAddrA.Bytes()))
	require.Equal(t, int64(2*9950), p.bookB.BalanceOf(remote).Int64())
	require.Equal(t, uint64(2), p.b.Stats().InboundTransfers)
}
