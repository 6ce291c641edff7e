package ports

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Reservations is the reservation set of a single run. It is filled from the
// ecosystem's persisted artifacts on first use and grows in memory with every
// allocation. It is not safe for concurrent use; chains are processed one at
// a time.
type Reservations struct {
	load func(ctx context.Context) (Set, error)
	set  Set
}

func NewReservations(load func(ctx context.Context) (Set, error)) *Reservations {
	return &Reservations{load: load}
}

// Allocate reserves a band for one chain, loading the set first if needed.
func (r *Reservations) Allocate(ctx context.Context, preferred Triple) (Triple, error) {
	if r.set == nil {
		set, err := r.load(ctx)
		if err != nil {
			return Triple{}, fmt.Errorf("failed to scan reserved ports: %w", err)
		}
		if set == nil {
			set = NewSet()
		}
		log.Debug().Int("count", len(set)).Msg("reserved ports loaded")
		r.set = set
	}
	return Allocate(preferred, r.set)
}

// Snapshot returns the ports reserved so far.
func (r *Reservations) Snapshot() []uint16 {
	if r.set == nil {
		return nil
	}
	return r.set.Sorted()
}
