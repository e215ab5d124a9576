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
package pileup_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/SorenHeidelbach/MotifPairMeth/motif"
	"github.com/SorenHeidelbach/MotifPairMeth/pileup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bedMethylLine builds an 18-column modkit pileup line, filling the columns
// the reader ignores with placeholders.
func bedMethylLine(ref string, pos int, code, strand string, cov, nMod, nCanon, nDiff uint32) string {
	cols := make([]string, 18)
	for i := range cols {
		cols[i] = "."
	}
	cols[0] = ref
	cols[1] = strconv.Itoa(pos)
	cols[2] = strconv.Itoa(pos + 1)
	cols[3] = code
	cols[5] = strand
	cols[9] = strconv.FormatUint(uint64(cov), 10)
	cols[11] = strconv.FormatUint(uint64(nMod), 10)
	cols[12] = strconv.FormatUint(uint64(nCanon), 10)
	cols[17] = strconv.FormatUint(uint64(nDiff), 10)
	return strings.Join(cols, "\t")
}

func TestReadIndex(t *testing.T) {
	input := strings.Join([]string{
		bedMethylLine("contig_1", 1, "a", "+", 10, 8, 2, 0),
		bedMethylLine("contig_1", 5, "m", "+", 10, 3, 7, 0),
		bedMethylLine("contig_1", 5, "m", "-", 12, 12, 0, 0),
		bedMethylLine("contig_2", 0, "21839", "+", 7, 7, 0, 0),
	}, "\n") + "\n"

	idx, err := pileup.ReadIndex(strings.NewReader(input), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	rec, ok := idx.Get("contig_1", 1, motif.StrandFwd)
	require.True(t, ok)
	assert.Equal(t, "a", rec.Call)
	assert.Equal(t, uint32(10), rec.Cov)
	assert.Equal(t, uint32(8), rec.NMod)
	assert.Equal(t, uint32(2), rec.NCanonical)

	// A minority of modified reads yields an unmodified call.
	rec, ok = idx.Get("contig_1", 5, motif.StrandFwd)
	require.True(t, ok)
	assert.Equal(t, pileup.Unmodified, rec.Call)

	// Same position, opposite strand, is a distinct entry.
	rec, ok = idx.Get("contig_1", 5, motif.StrandRev)
	require.True(t, ok)
	assert.Equal(t, "m", rec.Call)

	// ChEBI-style numeric codes are opaque labels.
	rec, ok = idx.Get("contig_2", 0, motif.StrandFwd)
	require.True(t, ok)
	assert.Equal(t, "21839", rec.Call)

	_, ok = idx.Get("contig_1", 2, motif.StrandFwd)
	assert.False(t, ok)
	_, ok = idx.Get("contig_3", 1, motif.StrandFwd)
	assert.False(t, ok)
}

func TestReadIndexDuplicateLastWins(t *testing.T) {
	input := bedMethylLine("c", 3, "a", "+", 10, 10, 0, 0) + "\n" +
		bedMethylLine("c", 3, "a", "+", 20, 0, 20, 0) + "\n"
	idx, err := pileup.ReadIndex(strings.NewReader(input), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
	rec, ok := idx.Get("c", 3, motif.StrandFwd)
	require.True(t, ok)
	assert.Equal(t, uint32(20), rec.Cov)
	assert.Equal(t, pileup.Unmodified, rec.Call)
}

func TestReadIndexMalformed(t *testing.T) {
	for _, test := range []struct {
		name  string
		line  string
		wants string
	}{
		{"too few columns", "c\t12\ta\t+", "tab-separated columns"},
		{"bad position", strings.Replace(bedMethylLine("c", 3, "a", "+", 1, 1, 0, 0), "\t3\t", "\tx\t", 1), "bad position"},
		{"bad strand", bedMethylLine("c", 3, "a", "?", 1, 1, 0, 0), "bad strand"},
		{"bad coverage", strings.Replace(bedMethylLine("c", 3, "a", "+", 7, 1, 0, 0), "\t7\t", "\t-7\t", 1), "bad valid-coverage"},
		{"modified exceeds coverage", bedMethylLine("c", 3, "a", "+", 5, 6, 0, 0), "exceeds valid coverage"},
	} {
		input := bedMethylLine("c", 0, "a", "+", 5, 5, 0, 0) + "\n" + test.line + "\n"
		_, err := pileup.ReadIndex(strings.NewReader(input), nil)
		require.Error(t, err, test.name)
		malformed, ok := err.(*pileup.MalformedLineError)
		require.True(t, ok, test.name)
		assert.Equal(t, 2, malformed.LineNum, test.name)
		assert.Equal(t, test.line, malformed.Line, test.name)
		assert.Contains(t, err.Error(), test.wants, test.name)
		// The message quotes the raw line; tabs render escaped.
		assert.Contains(t, err.Error(), strconv.Quote(test.line), test.name)
	}
}

func TestReadIndexUnknownRefSkipped(t *testing.T) {
	input := bedMethylLine("known", 0, "a", "+", 5, 5, 0, 0) + "\n" +
		bedMethylLine("unknown", 0, "a", "+", 5, 5, 0, 0) + "\n" +
		bedMethylLine("unknown", 1, "a", "-", 5, 5, 0, 0) + "\n"
	idx, err := pileup.ReadIndex(strings.NewReader(input), func(ref string) bool { return ref == "known" })
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, 2, idx.SkippedUnknownRef())
	_, ok := idx.Get("unknown", 0, motif.StrandFwd)
	assert.False(t, ok)
}
