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
package motif_test

import (
	"testing"

	"github.com/SorenHeidelbach/MotifPairMeth/motif"
	"github.com/grailbio/testutil/expect"
)

const iupacAlphabet = "ACGTRYSWKMBDHVN"

func TestBaseMatch(t *testing.T) {
	// Unambiguous bases match themselves and every code containing them.
	expect.EQ(t, motif.BaseMatch('A', 'A'), true)
	expect.EQ(t, motif.BaseMatch('a', 'A'), true)
	expect.EQ(t, motif.BaseMatch('A', 'W'), true)
	expect.EQ(t, motif.BaseMatch('T', 'W'), true)
	expect.EQ(t, motif.BaseMatch('t', 'w'), true)
	expect.EQ(t, motif.BaseMatch('C', 'W'), false)
	expect.EQ(t, motif.BaseMatch('G', 'B'), true)
	expect.EQ(t, motif.BaseMatch('A', 'B'), false)
	for i := 0; i != len(iupacAlphabet); i++ {
		expect.EQ(t, motif.BaseMatch(iupacAlphabet[i], 'N'), true)
	}
	// A reference ambiguity code matches only codes covering its whole set:
	// N in the reference matches nothing but motif N.
	expect.EQ(t, motif.BaseMatch('N', 'W'), false)
	expect.EQ(t, motif.BaseMatch('N', 'N'), true)
	expect.EQ(t, motif.BaseMatch('W', 'W'), true)
	expect.EQ(t, motif.BaseMatch('W', 'D'), true)
	// Non-IUPAC reference bytes are hard mismatches.
	expect.EQ(t, motif.BaseMatch('-', 'N'), false)
	expect.EQ(t, motif.BaseMatch(0, 'N'), false)
}

func TestComplementInvolution(t *testing.T) {
	for i := 0; i != len(iupacAlphabet); i++ {
		b := iupacAlphabet[i]
		c := motif.Complement(b)
		expect.EQ(t, motif.IsIUPAC(c), true)
		expect.EQ(t, motif.Complement(c), b)
	}
	expect.EQ(t, motif.Complement('x'), byte(0))
}

func TestReverseComplement(t *testing.T) {
	expect.EQ(t, motif.ReverseComplement("ACGT"), "ACGT")
	expect.EQ(t, motif.ReverseComplement("CCWGG"), "CCWGG")
	expect.EQ(t, motif.ReverseComplement("ACGG"), "CCGT")
	expect.EQ(t, motif.ReverseComplement("gatc"), "GATC")
	expect.EQ(t, motif.ReverseComplement("RYN"), "NRY")
}
