// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package methpair

import (
	"fmt"
	"sync"

	"github.com/SorenHeidelbach/MotifPairMeth/motif"
)

// cell accumulates state counts for one (motif pair, reference) key.
type cell struct {
	counts [NState]uint64
	// considered excludes NoCall occurrences.
	considered uint64
	scanned    uint64
}

// Aggregator folds classified occurrences into per-(motif pair, reference)
// state counts.  Workers processing distinct references share one
// Aggregator; Add serializes, so workers never mutate shared counts
// directly.
type Aggregator struct {
	refs    []string
	pairs   []*motif.PairSpec
	refIdx  map[string]int
	pairIdx map[*motif.PairSpec]int

	mu    sync.Mutex
	cells []cell // len(pairs) * len(refs), ref-major
}

// NewAggregator prepares an aggregator for the given references and motif
// pairs.  Report rows are ordered by reference in the order given here,
// then by motif pair in the order given here; a row exists for every
// combination even when no occurrence was scanned.
func NewAggregator(refs []string, pairs []*motif.PairSpec) *Aggregator {
	a := &Aggregator{
		refs:    refs,
		pairs:   pairs,
		refIdx:  make(map[string]int, len(refs)),
		pairIdx: make(map[*motif.PairSpec]int, len(pairs)),
		cells:   make([]cell, len(refs)*len(pairs)),
	}
	for i, r := range refs {
		a.refIdx[r] = i
	}
	for i, p := range pairs {
		a.pairIdx[p] = i
	}
	return a
}

// Add folds one batch of classified occurrences into the counts.  It takes
// the lock once per batch, not per occurrence.
func (a *Aggregator) Add(batch []Classified) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range batch {
		ri, ok := a.refIdx[c.Occ.Ref]
		if !ok {
			return fmt.Errorf("methpair.Aggregator: unknown reference %q", c.Occ.Ref)
		}
		pi, ok := a.pairIdx[c.Occ.Pair]
		if !ok {
			return fmt.Errorf("methpair.Aggregator: unknown motif pair %q", c.Occ.Pair)
		}
		cl := &a.cells[ri*len(a.pairs)+pi]
		cl.counts[c.State]++
		cl.scanned++
		if c.State != NoCall {
			cl.considered++
		}
	}
	return nil
}

// Row is one finalized report row.
type Row struct {
	Ref        string
	Pair       *motif.PairSpec
	Counts     [NState]uint64
	Considered uint64
	Scanned    uint64
}

// Rows finalizes the report: one row per (reference, motif pair) in input
// order.  Call only after all Add calls have completed.
func (a *Aggregator) Rows() []Row {
	a.mu.Lock()
	defer a.mu.Unlock()
	rows := make([]Row, 0, len(a.cells))
	for ri, ref := range a.refs {
		for pi, pair := range a.pairs {
			cl := &a.cells[ri*len(a.pairs)+pi]
			rows = append(rows, Row{
				Ref:        ref,
				Pair:       pair,
				Counts:     cl.counts,
				Considered: cl.considered,
				Scanned:    cl.scanned,
			})
		}
	}
	return rows
}
