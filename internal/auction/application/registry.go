package application

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/auction/domain"
)

// Registry holds the single live ledger. The runner swaps it when the
// schedule's active auction changes; use cases resolve it by ID so a
// request aimed at a stale auction fails instead of hitting the wrong
// ledger.
type Registry struct {
	mu     sync.RWMutex
	active *domain.AuctionState
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Activate installs the ledger for the newly active auction, discarding
// the previous one.
func (r *Registry) Activate(st *domain.AuctionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = st
}

// Clear drops the live ledger once its auction has been completed.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = nil
}

// Active returns the live ledger, if any.
func (r *Registry) Active() (*domain.AuctionState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active, r.active != nil
}

// Get returns the live ledger for the given auction, or
// domain.ErrAuctionNotFound when it is not the active one.
func (r *Registry) Get(id uuid.UUID) (*domain.AuctionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil || r.active.Definition().ID != id {
		return nil, domain.ErrAuctionNotFound
	}
	return r.active, nil
}
