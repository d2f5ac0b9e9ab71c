// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/hiyoungaroo/wrappedAUC/transport"
)

// Admin surface. Every operation is owner-gated and journals a before/after
// event. These are plain field assignments, but they gate the correctness
// of the send and receive paths: in particular, setting an empty trusted
// remote for a chain deterministically disables traffic with it in both
// directions.

// SetEndpoint replaces the message transport.
func (b *Bridge) SetEndpoint(caller common.Address, endpoint transport.Endpoint) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.owner {
		return ErrUnauthorizedCaller
	}

	before := b.endpoint.Addr()
	b.endpoint = endpoint

	b.record(KindEndpointUpdated, EndpointUpdated{Before: before, After: endpoint.Addr()})
	b.log.Info("endpoint updated", "before", before, "after", endpoint.Addr())
	return nil
}

// SetTrustedRemote installs (or, with an empty remote, clears) the expected
// peer address for a chain.
func (b *Bridge) SetTrustedRemote(caller common.Address, chain uint16, remote []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.owner {
		return ErrUnauthorizedCaller
	}

	before := b.remotes.Get(chain)
	b.remotes.Set(chain, remote)

	b.record(KindTrustedRemoteUpdated, TrustedRemoteUpdated{
		Chain:  chain,
		Before: before,
		After:  b.remotes.Get(chain),
	})
	b.log.Info("trusted remote updated", "chain", chain, "remoteLen", len(remote))
	return nil
}

// SetFeeBPS replaces the outbound transfer fee rate. No upper bound is
// enforced here; see Config.FeeBPS.
func (b *Bridge) SetFeeBPS(caller common.Address, bps uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.owner {
		return ErrUnauthorizedCaller
	}

	before := b.feeBPS
	b.feeBPS = bps

	b.record(KindTransferFeeUpdated, TransferFeeUpdated{Before: before, After: bps})
	b.log.Info("transfer fee updated", "beforeBPS", before, "afterBPS", bps)
	return nil
}

// SetSendVersion selects the transport's outbound protocol version.
func (b *Bridge) SetSendVersion(caller common.Address, version uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.owner {
		return ErrUnauthorizedCaller
	}

	if err := b.endpoint.SetSendVersion(version); err != nil {
		return fmt.Errorf("endpoint send version: %w", err)
	}
	b.record(KindSendVersionUpdated, SendVersionUpdated{After: version})
	return nil
}

// SetReceiveVersion selects the transport's inbound protocol version.
func (b *Bridge) SetReceiveVersion(caller common.Address, version uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.owner {
		return ErrUnauthorizedCaller
	}

	if err := b.endpoint.SetReceiveVersion(version); err != nil {
		return fmt.Errorf("endpoint receive version: %w", err)
	}
	b.record(KindReceiveVersionUpdated, ReceiveVersionUpdated{After: version})
	return nil
}

// SetConfig passes an opaque configuration blob through to the transport.
func (b *Bridge) SetConfig(caller common.Address, version uint16, chain uint16, configType uint64, cfg []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.owner {
		return ErrUnauthorizedCaller
	}

	if err := b.endpoint.SetConfig(version, chain, configType, cfg); err != nil {
		return fmt.Errorf("endpoint config: %w", err)
	}
	b.record(KindConfigUpdated, ConfigUpdated{
		Version:    version,
		Chain:      chain,
		ConfigType: configType,
		Value:      cfg,
	})
	return nil
}

// ForceResumeReceive asks the transport to unblock a stuck inbound channel.
// The endpoint may deliver the queued messages synchronously, re-entering
// Receive, so the state lock is not held across the call.
func (b *Bridge) ForceResumeReceive(caller common.Address, srcChain uint16, srcAddress []byte) error {
	if caller != b.owner {
		return ErrUnauthorizedCaller
	}

	b.mu.RLock()
	endpoint := b.endpoint
	b.mu.RUnlock()

	if err := endpoint.ForceResumeReceive(srcChain, srcAddress); err != nil {
		return fmt.Errorf("endpoint resume: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(KindReceiveResumed, ReceiveResumed{SrcChain: srcChain, SrcAddress: srcAddress})
	b.log.Info("receive channel resumed", "srcChain", srcChain)
	return nil
}
