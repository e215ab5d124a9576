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

import (
	"fmt"
	"strconv"
	"strings"
)

// ModSite declares one modified position within a motif: the modification
// type label (an opaque string such as "a", "m", "4mC") and the 0-based
// offset of the modified base inside the motif.
type ModSite struct {
	Type   string
	Offset int
}

// PairSpec is a parsed motif-pair definition: a motif over the IUPAC
// alphabet plus two modification-site declarations on complementary
// strands of its occurrences.  PairSpec values are immutable after
// ParsePair returns them.
type PairSpec struct {
	Seq  string
	Mod1 ModSite
	Mod2 ModSite
}

// String renders the canonical MOTIF_TYPE1_POS1_TYPE2_POS2 form; the result
// of ParsePair(s.String()) is equal to s.
func (s *PairSpec) String() string {
	return s.Seq +
		"_" + s.Mod1.Type + "_" + strconv.Itoa(s.Mod1.Offset) +
		"_" + s.Mod2.Type + "_" + strconv.Itoa(s.Mod2.Offset)
}

// ParsePair parses a motif-pair token of the form MOTIF_TYPE1_POS1_TYPE2_POS2
// (e.g. "CCWGG_4mC_0_5mC_3").  The motif must be nonempty and composed of
// IUPAC symbols only; it is stored uppercased.  The two positions must be
// distinct integers in [0, len(motif)).  Type labels are opaque and not
// validated beyond being nonempty.
func ParsePair(token string) (*PairSpec, error) {
	parts := strings.Split(token, "_")
	if len(parts) != 5 {
		return nil, fmt.Errorf("motif.ParsePair: %q: want 5 _-separated fields (MOTIF_TYPE1_POS1_TYPE2_POS2), got %d", token, len(parts))
	}
	seq := strings.ToUpper(parts[0])
	if len(seq) == 0 {
		return nil, fmt.Errorf("motif.ParsePair: %q: empty motif", token)
	}
	for i := 0; i != len(seq); i++ {
		if !IsIUPAC(seq[i]) {
			return nil, fmt.Errorf("motif.ParsePair: %q: non-IUPAC symbol %q in motif", token, seq[i])
		}
	}
	mod1, err := parseModSite(parts[1], parts[2], len(seq), token)
	if err != nil {
		return nil, err
	}
	mod2, err := parseModSite(parts[3], parts[4], len(seq), token)
	if err != nil {
		return nil, err
	}
	if mod1.Offset == mod2.Offset {
		return nil, fmt.Errorf("motif.ParsePair: %q: modification offsets must be distinct", token)
	}
	return &PairSpec{Seq: seq, Mod1: mod1, Mod2: mod2}, nil
}

func parseModSite(typ, posStr string, motifLen int, token string) (ModSite, error) {
	if typ == "" {
		return ModSite{}, fmt.Errorf("motif.ParsePair: %q: empty modification type", token)
	}
	pos, err := strconv.Atoi(posStr)
	if err != nil {
		return ModSite{}, fmt.Errorf("motif.ParsePair: %q: bad modification position %q", token, posStr)
	}
	if pos < 0 || pos >= motifLen {
		return ModSite{}, fmt.Errorf("motif.ParsePair: %q: modification position %d out of range [0, %d)", token, pos, motifLen)
	}
	return ModSite{Type: typ, Offset: pos}, nil
}

// ParsePairs parses a list of motif-pair tokens, failing on the first
// invalid one.
func ParsePairs(tokens []string) ([]*PairSpec, error) {
	pairs := make([]*PairSpec, 0, len(tokens))
	for _, tok := range tokens {
		p, err := ParsePair(tok)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}
