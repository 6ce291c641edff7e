// Package ports hands out collision-free port triples for backend services.
//
// Allocation shifts the whole triple by a fixed offset until none of its
// ports is reserved, so every chain lands in its own band and the spacing
// inside a triple stays constant. Gaps left by removed chains are never
// reclaimed; for a single operator workstation the port space is plentiful.
package ports

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Offset is the distance between two consecutive bands.
const Offset = 100

var ErrInvalidTriple = errors.New("port triple must hold three distinct non-zero ports")

// Triple is the port band of one chain's backend services.
type Triple struct {
	API         uint16 `yaml:"api"`
	DataFetcher uint16 `yaml:"data_fetcher"`
	Worker      uint16 `yaml:"worker"`
}

// DefaultExplorerTriple is the band tried first for explorer backends.
var DefaultExplorerTriple = Triple{API: 3002, DataFetcher: 3040, Worker: 3001}

func (t Triple) Ports() [3]uint16 {
	return [3]uint16{t.API, t.DataFetcher, t.Worker}
}

func (t Triple) String() string {
	return fmt.Sprintf("{api:%d data-fetcher:%d worker:%d}", t.API, t.DataFetcher, t.Worker)
}

// Valid reports whether the three ports are set and distinct.
func (t Triple) Valid() bool {
	return t.API != 0 && t.DataFetcher != 0 && t.Worker != 0 &&
		t.API != t.DataFetcher && t.API != t.Worker && t.DataFetcher != t.Worker
}

// shift moves the triple one band up. ok is false when a port would leave
// the valid range.
func (t Triple) shift() (Triple, bool) {
	for _, p := range t.Ports() {
		if int(p)+Offset > math.MaxUint16 {
			return t, false
		}
	}
	return Triple{API: t.API + Offset, DataFetcher: t.DataFetcher + Offset, Worker: t.Worker + Offset}, true
}

// ExhaustionError is returned when no band above the preferred triple is free.
type ExhaustionError struct {
	Preferred Triple
	Last      Triple
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("no free port band starting from %s (last tried %s)", e.Preferred, e.Last)
}

// Set is the set of ports known to be in use.
type Set map[uint16]struct{}

func NewSet(ports ...uint16) Set {
	s := make(Set, len(ports))
	for _, p := range ports {
		s.Add(p)
	}
	return s
}

func (s Set) Add(p uint16) {
	if p != 0 {
		s[p] = struct{}{}
	}
}

func (s Set) Contains(p uint16) bool {
	_, ok := s[p]
	return ok
}

func (s Set) Sorted() []uint16 {
	out := make([]uint16, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (s Set) collides(t Triple) bool {
	for _, p := range t.Ports() {
		if s.Contains(p) {
			return true
		}
	}
	return false
}

// Allocate returns the first band at or above preferred whose three ports are
// all free in reserved, and adds them to reserved before returning.
func Allocate(preferred Triple, reserved Set) (Triple, error) {
	if !preferred.Valid() {
		return Triple{}, fmt.Errorf("%w: %s", ErrInvalidTriple, preferred)
	}

	t := preferred
	for reserved.collides(t) {
		next, ok := t.shift()
		if !ok {
			return Triple{}, &ExhaustionError{Preferred: preferred, Last: t}
		}
		t = next
	}

	for _, p := range t.Ports() {
		reserved.Add(p)
	}
	return t, nil
}
