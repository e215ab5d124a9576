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

// Package methpair joins motif-pair occurrences against a pileup index,
// classifies the paired methylation state of each occurrence, and
// aggregates per-(motif pair, reference) state counts into the final
// report.
package methpair

// State is the discrete paired-methylation state of one motif occurrence:
// the joint status of its two declared modification sites.
type State int

const (
	// BothModified: both sites report their expected modification type.
	BothModified State = iota
	// Mod1Only: only the mod1 site reports its expected type.
	Mod1Only
	// Mod2Only: only the mod2 site reports its expected type.
	Mod2Only
	// NeitherModified: neither site reports its expected type.
	NeitherModified
	// LowCoverage: at least one site is below the coverage threshold.
	// Excluded from the four positive states but still counted.
	LowCoverage
	// NoCall: at least one site is absent from the pileup.
	NoCall

	// NState is the number of distinct states.
	NState
)

var stateNames = [NState]string{
	"both_mod",
	"mod1_only",
	"mod2_only",
	"neither_mod",
	"low_cov",
	"no_call",
}

func (s State) String() string {
	if s < 0 || s >= NState {
		return "invalid"
	}
	return stateNames[s]
}
