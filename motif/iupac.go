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

// Package motif implements IUPAC-aware motif-pair definitions and a scanner
// that locates motif occurrences (and the genomic positions of their declared
// modification sites) on both strands of a reference sequence.
package motif

import "strings"

// iupacBits maps an ASCII nucleotide symbol to a 4-bit base set.
//   bit 0 = A, bit 1 = C, bit 2 = G, bit 3 = T
// Ambiguity codes are the union of their member bases; symbols outside the
// IUPAC alphabet map to 0.  Both cases are populated so sequence and motif
// comparisons are case-insensitive without per-position ToUpper calls.
var iupacBits [256]byte

// iupacComplement maps an IUPAC symbol to its complement symbol (uppercase).
// Non-IUPAC bytes map to 0.
var iupacComplement [256]byte

func init() {
	set := func(c byte, bits, comp byte) {
		iupacBits[c] = bits
		iupacBits[c|0x20] = bits // lowercase alias
		iupacComplement[c] = comp
		iupacComplement[c|0x20] = comp
	}
	const (
		a = 1
		c = 2
		g = 4
		t = 8
	)
	set('A', a, 'T')
	set('C', c, 'G')
	set('G', g, 'C')
	set('T', t, 'A')
	set('R', a|g, 'Y')
	set('Y', c|t, 'R')
	set('S', c|g, 'S')
	set('W', a|t, 'W')
	set('K', g|t, 'M')
	set('M', a|c, 'K')
	set('B', c|g|t, 'V')
	set('D', a|g|t, 'H')
	set('H', a|c|t, 'D')
	set('V', a|c|g, 'B')
	set('N', a|c|g|t, 'N')
}

// IsIUPAC reports whether b is a recognized IUPAC nucleotide symbol
// (either case).
func IsIUPAC(b byte) bool {
	return iupacBits[b] != 0
}

// BaseMatch reports whether reference base ref is covered by motif symbol
// sym: the base set denoted by ref must be a subset of the set denoted by
// sym.  In particular an unambiguous reference base matches any ambiguity
// code containing it, while a reference 'N' matches only motif 'N'.
// Non-IUPAC reference bytes never match.
func BaseMatch(ref, sym byte) bool {
	rb := iupacBits[ref]
	return rb != 0 && rb&^iupacBits[sym] == 0
}

// Complement returns the complement of a single IUPAC symbol, or 0 for
// non-IUPAC input.
func Complement(b byte) byte {
	return iupacComplement[b]
}

// ReverseComplement returns the reverse complement of an IUPAC sequence.
// Unrecognized bytes are passed through unchanged.
func ReverseComplement(seq string) string {
	var sb strings.Builder
	sb.Grow(len(seq))
	for i := len(seq) - 1; i >= 0; i-- {
		c := iupacComplement[seq[i]]
		if c == 0 {
			c = seq[i]
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
