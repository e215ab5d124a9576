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
package motif

// Strand identifies which reference strand a motif occurrence or pileup
// observation lies on.
type Strand byte

const (
	// StrandFwd is the forward (+) strand.
	StrandFwd Strand = iota
	// StrandRev is the reverse (-) strand.
	StrandRev
)

// strandToASCIITable is the Strand -> ASCII mapping.
var strandToASCIITable = [...]byte{'+', '-'}

func (s Strand) String() string {
	return string(strandToASCIITable[s])
}

// ParseStrand converts a pileup strand column ("+" or "-") to a Strand.
func ParseStrand(s string) (Strand, bool) {
	switch s {
	case "+":
		return StrandFwd, true
	case "-":
		return StrandRev, true
	}
	return StrandFwd, false
}

// Occurrence is one match of a motif pair on a reference sequence.  Mod1Pos
// and Mod2Pos are the 0-based genomic positions of the bases carrying the
// spec's mod1 and mod2 labels; both always lie inside the matched window.
// For reverse-strand occurrences the offsets are mirrored against the motif
// length, so Mod1Pos labels the base that is mod1-modified on the reverse
// strand.
type Occurrence struct {
	Ref     string
	Strand  Strand
	Start   int
	Mod1Pos int
	Mod2Pos int
	Pair    *PairSpec
}

// matchAt reports whether pattern matches seq starting at position p.
// Caller guarantees p+len(pattern) <= len(seq).
func matchAt(seq, pattern string, p int) bool {
	for i := 0; i != len(pattern); i++ {
		if !BaseMatch(seq[p+i], pattern[i]) {
			return false
		}
	}
	return true
}

// Scan finds every occurrence of pair's motif in seq, on both strands, and
// returns them in position order (forward and reverse occurrences
// interleaved by start).  The scan advances one position at a time, so
// overlapping occurrences are all reported.  An empty result is not an
// error.
//
// Forward match starting at p: Mod1Pos=p+mod1.Offset, Mod2Pos=p+mod2.Offset.
// Reverse-complement match starting at p (an occurrence on the reverse
// strand): offsets are mirrored, Mod1Pos=p+len-1-mod1.Offset and
// Mod2Pos=p+len-1-mod2.Offset, preserving the mod1/mod2 labels of the bases
// they annotate under base-pair complementarity.
//
// A self-complementary motif (CCWGG, GATC, ...) matches in both
// orientations at every hit; reporting both would double-count the same
// pair of sites, so such windows yield a single forward occurrence and no
// reverse-strand occurrence.
func Scan(ref, seq string, pair *PairSpec) []Occurrence {
	var out []Occurrence
	ScanFunc(ref, seq, pair, func(occ Occurrence) {
		out = append(out, occ)
	})
	return out
}

// ScanFunc is the streaming form of Scan: emit is called once per
// occurrence, in position order.
func ScanFunc(ref, seq string, pair *PairSpec, emit func(Occurrence)) {
	n := len(pair.Seq)
	if n == 0 || n > len(seq) {
		return
	}
	rc := ReverseComplement(pair.Seq)
	// A self-complementary motif (e.g. CCWGG) matches both orientations at
	// every hit; report such hits once, as forward occurrences.
	palindrome := rc == pair.Seq
	end := len(seq) - n
	for p := 0; p <= end; p++ {
		fwd := matchAt(seq, pair.Seq, p)
		if fwd {
			emit(Occurrence{
				Ref:     ref,
				Strand:  StrandFwd,
				Start:   p,
				Mod1Pos: p + pair.Mod1.Offset,
				Mod2Pos: p + pair.Mod2.Offset,
				Pair:    pair,
			})
		}
		if fwd && palindrome {
			continue
		}
		if matchAt(seq, rc, p) {
			emit(Occurrence{
				Ref:     ref,
				Strand:  StrandRev,
				Start:   p,
				Mod1Pos: p + n - 1 - pair.Mod1.Offset,
				Mod2Pos: p + n - 1 - pair.Mod2.Offset,
				Pair:    pair,
			})
		}
	}
}
