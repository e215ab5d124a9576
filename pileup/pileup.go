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

// Package pileup parses modkit-style bedMethyl pileups of per-position
// modification calls and builds the read-only, position-keyed index the
// classification engine queries.
package pileup

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SorenHeidelbach/MotifPairMeth/motif"
	"github.com/grailbio/base/log"
)

// Unmodified is the Call value of a position whose reads support the
// canonical (unmodified) base.
const Unmodified = "-"

// bedMethyl column indices consumed here.  The full modkit pileup line has
// 18 columns; the ones we skip carry score/color/percentage fields that are
// derivable from the count columns.
const (
	colRef           = 0
	colPos           = 1
	colModCode       = 3
	colStrand        = 5
	colValidCov      = 9
	colNMod          = 11
	colNCanon        = 12
	colNDiff         = 17
	minBedMethylCols = 18
)

// Record is one per-(reference, position, strand) observation: a discrete
// modification call plus the coverage supporting it.  Pos is 0-based, as in
// BED-derived formats.
type Record struct {
	Ref    string
	Pos    int
	Strand motif.Strand
	// Call is the modification-type label reported at this site, or
	// Unmodified when the reads support the canonical base.
	Call string
	// Cov is the number of reads with a valid call at this site.
	Cov uint32
	// NMod, NCanonical and NDiff are the raw bedMethyl count columns: reads
	// calling the modification, reads calling the canonical base, and reads
	// calling a different modification.
	NMod       uint32
	NCanonical uint32
	NDiff      uint32
}

// MalformedLineError is the fatal error produced when a pileup line cannot
// be parsed.  Classification depends on trusted coverage values, so the
// reader refuses to skip bad lines.
type MalformedLineError struct {
	LineNum int
	Line    string
	Reason  string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("pileup: malformed line %d (%s): %q", e.LineNum, e.Reason, e.Line)
}

type posKey struct {
	ref    string
	pos    int
	strand motif.Strand
}

// Index is a lookup table of pileup records keyed by (reference, position,
// strand).  It is built once by ReadIndex and read-only afterwards, so it
// may be shared across goroutines without synchronization.
type Index struct {
	records map[posKey]Record
	// nSkipped counts records referencing sequences absent from the
	// reference set.
	nSkipped int
}

// Get returns the record at (ref, pos, strand), if any.
func (x *Index) Get(ref string, pos int, strand motif.Strand) (Record, bool) {
	rec, ok := x.records[posKey{ref, pos, strand}]
	return rec, ok
}

// Len returns the number of indexed positions.
func (x *Index) Len() int { return len(x.records) }

// SkippedUnknownRef returns the number of input records that were dropped
// because their reference was not in the loaded reference set.
func (x *Index) SkippedUnknownRef() int { return x.nSkipped }

// ReadIndex streams a bedMethyl pileup from r into an Index.  knownRef, if
// non-nil, restricts indexing to references it accepts; records for other
// references are skipped with a warning (pileups routinely cover more
// sequences than the requested reference subset).  Any malformed line
// aborts with a MalformedLineError.  Duplicate (reference, position,
// strand) entries overwrite: last one wins.
func ReadIndex(r io.Reader, knownRef func(string) bool) (*Index, error) {
	idx := &Index{records: make(map[posKey]Record)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		rec, err := parseLine(line, lineNum)
		if err != nil {
			return nil, err
		}
		if knownRef != nil && !knownRef(rec.Ref) {
			if idx.nSkipped == 0 {
				log.Error.Printf("pileup: line %d references unknown sequence %q; skipping (further such records elided)", lineNum, rec.Ref)
			}
			idx.nSkipped++
			continue
		}
		idx.records[posKey{rec.Ref, rec.Pos, rec.Strand}] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pileup: read failed at line %d: %v", lineNum, err)
	}
	if idx.nSkipped != 0 {
		log.Error.Printf("pileup: skipped %d record(s) for sequences absent from the reference set", idx.nSkipped)
	}
	return idx, nil
}

func parseLine(line string, lineNum int) (Record, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < minBedMethylCols {
		return Record{}, &MalformedLineError{lineNum, line, fmt.Sprintf("want >=%d tab-separated columns, got %d", minBedMethylCols, len(cols))}
	}
	pos, err := strconv.Atoi(cols[colPos])
	if err != nil || pos < 0 {
		return Record{}, &MalformedLineError{lineNum, line, "bad position column"}
	}
	strand, ok := motif.ParseStrand(cols[colStrand])
	if !ok {
		return Record{}, &MalformedLineError{lineNum, line, fmt.Sprintf("bad strand column %q", cols[colStrand])}
	}
	code := cols[colModCode]
	if code == "" {
		return Record{}, &MalformedLineError{lineNum, line, "empty modification code column"}
	}
	cov, err := parseCount(cols[colValidCov])
	if err != nil {
		return Record{}, &MalformedLineError{lineNum, line, "bad valid-coverage column"}
	}
	nMod, err := parseCount(cols[colNMod])
	if err != nil {
		return Record{}, &MalformedLineError{lineNum, line, "bad modified-count column"}
	}
	if nMod > cov {
		return Record{}, &MalformedLineError{lineNum, line, fmt.Sprintf("modified count %d exceeds valid coverage %d", nMod, cov)}
	}
	nCanon, err := parseCount(cols[colNCanon])
	if err != nil {
		return Record{}, &MalformedLineError{lineNum, line, "bad canonical-count column"}
	}
	nDiff, err := parseCount(cols[colNDiff])
	if err != nil {
		return Record{}, &MalformedLineError{lineNum, line, "bad other-mod-count column"}
	}
	rec := Record{
		Ref:        cols[colRef],
		Pos:        pos,
		Strand:     strand,
		Call:       Unmodified,
		Cov:        cov,
		NMod:       nMod,
		NCanonical: nCanon,
		NDiff:      nDiff,
	}
	// Binarize the count columns into a discrete per-site call: the site
	// carries the line's modification code iff a strict majority of
	// valid-coverage reads support it.  Widened to avoid uint32 overflow
	// for extreme counts.
	if uint64(nMod)*2 > uint64(cov) {
		rec.Call = code
	}
	return rec, nil
}

func parseCount(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}
