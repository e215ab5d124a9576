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
	"github.com/SorenHeidelbach/MotifPairMeth/motif"
	"github.com/SorenHeidelbach/MotifPairMeth/pileup"
)

// Classified is one classified motif occurrence.  Site1/Site2 hold the
// pileup records backing the classification; they are zero-valued when the
// corresponding lookup missed (state NoCall).
type Classified struct {
	Occ    motif.Occurrence
	State  State
	Site1  pileup.Record
	Site2  pileup.Record
	Found1 bool
	Found2 bool
}

// Classify looks up both modification sites of occ in idx (on the strand
// the occurrence lies on) and derives its paired state:
//
//	a lookup missed            -> NoCall
//	either coverage < minCov   -> LowCoverage
//	otherwise the expected-type matches at the two sites select one of
//	BothModified / Mod1Only / Mod2Only / NeitherModified.
//
// A site whose call is some third modification type counts as
// not-expected, same as an unmodified call.  Classify is total: it cannot
// fail.
func Classify(occ motif.Occurrence, idx *pileup.Index, minCov uint32) Classified {
	out := Classified{Occ: occ}
	out.Site1, out.Found1 = idx.Get(occ.Ref, occ.Mod1Pos, occ.Strand)
	out.Site2, out.Found2 = idx.Get(occ.Ref, occ.Mod2Pos, occ.Strand)
	if !out.Found1 || !out.Found2 {
		out.State = NoCall
		return out
	}
	if out.Site1.Cov < minCov || out.Site2.Cov < minCov {
		out.State = LowCoverage
		return out
	}
	mod1 := out.Site1.Call == occ.Pair.Mod1.Type
	mod2 := out.Site2.Call == occ.Pair.Mod2.Type
	switch {
	case mod1 && mod2:
		out.State = BothModified
	case mod1:
		out.State = Mod1Only
	case mod2:
		out.State = Mod2Only
	default:
		out.State = NeitherModified
	}
	return out
}
