// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package remotes tracks the expected peer bridge address bytes for every
// chain this bridge is allowed to talk to. A chain with no entry (or an
// empty entry) is unconfigured: both outbound sends to it and inbound
// receives claiming to originate from it must be refused by the caller.
package remotes

import (
	"sync"

	"github.com/zeebo/blake3"
)

// Registry is the per-chain trusted remote map. Remote address bytes are
// opaque: their length and encoding are whatever the peer chain uses.
type Registry struct {
	peers map[uint16][]byte
	sums  map[uint16][32]byte

	mu sync.RWMutex
}

// NewRegistry creates an empty trusted remote registry.
func NewRegistry() *Registry {
	return &Registry{
		peers: make(map[uint16][]byte),
		sums:  make(map[uint16][32]byte),
	}
}

// Set installs the trusted remote for a chain, replacing any previous value.
// An empty or nil remote clears the entry and disables the chain.
func (r *Registry) Set(chain uint16, remote []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(remote) == 0 {
		delete(r.peers, chain)
		delete(r.sums, chain)
		return
	}

	cp := make([]byte, len(remote))
	copy(cp, remote)
	r.peers[chain] = cp
	r.sums[chain] = blake3.Sum256(cp)
}

// Get returns a copy of the trusted remote for a chain, or nil when the
// chain is unconfigured.
func (r *Registry) Get(chain uint16) []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()

	remote, ok := r.peers[chain]
	if !ok {
		return nil
	}
	cp := make([]byte, len(remote))
	copy(cp, remote)
	return cp
}

// Configured reports whether a chain has a non-empty trusted remote.
func (r *Registry) Configured(chain uint16) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.peers[chain]) > 0
}

// Matches reports whether candidate is byte-exact equal to the trusted
// remote configured for chain. Length is checked first, then content via
// blake3 digest. An unconfigured chain never matches anything.
func (r *Registry) Matches(chain uint16, candidate []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	remote, ok := r.peers[chain]
	if !ok || len(candidate) != len(remote) {
		return false
	}
	return blake3.Sum256(candidate) == r.sums[chain]
}

// Chains returns the chain IDs that currently have a trusted remote.
func (r *Registry) Chains() []uint16 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chains := make([]uint16, 0, len(r.peers))
	for chain := range r.peers {
		chains = append(chains, chain)
	}
	return chains
}
