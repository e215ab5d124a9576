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
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func mustParse(t *testing.T, token string) *motif.PairSpec {
	p, err := motif.ParsePair(token)
	assert.NoError(t, err)
	return p
}

func TestScanForward(t *testing.T) {
	pair := mustParse(t, "CCWGG_a_0_m_4")
	occs := motif.Scan("seq1", "ACCWGGT", pair)
	assert.EQ(t, len(occs), 1)
	expect.EQ(t, occs[0], motif.Occurrence{
		Ref:     "seq1",
		Strand:  motif.StrandFwd,
		Start:   1,
		Mod1Pos: 1,
		Mod2Pos: 5,
		Pair:    pair,
	})
}

func TestScanAmbiguity(t *testing.T) {
	pair := mustParse(t, "CCWGG_a_0_m_4")
	// W in the motif covers both A and T in the reference.
	for _, seq := range []string{"CCAGG", "CCTGG", "cctgg"} {
		occs := motif.Scan("s", seq, pair)
		assert.EQ(t, len(occs), 1, "seq %s", seq)
		expect.EQ(t, occs[0].Strand, motif.StrandFwd)
	}
	// N and mismatching bases do not.
	for _, seq := range []string{"CCNGG", "CCGGG", "CCACG"} {
		expect.EQ(t, len(motif.Scan("s", seq, pair)), 0, "seq %s", seq)
	}
}

func TestScanReverseMirrorsOffsets(t *testing.T) {
	pair := mustParse(t, "ACGG_a_0_m_3")
	// The reverse complement of ACGG is CCGT; it occurs at position 6.
	occs := motif.Scan("s", "TTTTTTCCGTTT", pair)
	assert.EQ(t, len(occs), 1)
	expect.EQ(t, occs[0].Strand, motif.StrandRev)
	expect.EQ(t, occs[0].Start, 6)
	// Offsets mirror against the motif length: the mod1-labeled base sits at
	// the window's far end, the mod2-labeled base at its start.
	expect.EQ(t, occs[0].Mod1Pos, 9)
	expect.EQ(t, occs[0].Mod2Pos, 6)
}

func TestScanPalindromeReportedOnce(t *testing.T) {
	// ACGT is self-complementary: a window matching forward also matches in
	// reverse.  Such hits are reported once, as forward occurrences.
	pair := mustParse(t, "ACGT_a_0_m_3")
	occs := motif.Scan("s", "GGACGTGG", pair)
	assert.EQ(t, len(occs), 1)
	expect.EQ(t, occs[0].Strand, motif.StrandFwd)
	expect.EQ(t, occs[0].Mod1Pos, 2)
	expect.EQ(t, occs[0].Mod2Pos, 5)
}

func TestScanOverlapping(t *testing.T) {
	pair := mustParse(t, "AA_a_0_m_1")
	occs := motif.Scan("s", "AAAA", pair)
	// The scan advances one position at a time, so overlapping hits are all
	// reported: starts 0, 1, 2.
	assert.EQ(t, len(occs), 3)
	for i, occ := range occs {
		expect.EQ(t, occ.Start, i)
		expect.EQ(t, occ.Mod1Pos, i)
		expect.EQ(t, occ.Mod2Pos, i+1)
	}
}

func TestScanBounds(t *testing.T) {
	pair := mustParse(t, "GATC_a_1_a_2")
	// No occurrence may start within len(motif)-1 of the end.
	expect.EQ(t, len(motif.Scan("s", "GAT", pair)), 0)
	occs := motif.Scan("s", "GATC", pair)
	assert.EQ(t, len(occs), 1)
	for _, occ := range occs {
		expect.EQ(t, occ.Mod1Pos >= 0 && occ.Mod1Pos < 4, true)
		expect.EQ(t, occ.Mod2Pos >= 0 && occ.Mod2Pos < 4, true)
	}
}
