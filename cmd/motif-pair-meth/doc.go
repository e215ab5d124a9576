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

/*
Given a reference FASTA and a modkit-style bedMethyl pileup,
motif-pair-meth locates every occurrence of the supplied complementary
motif pairs (both strands, IUPAC ambiguity codes honored) and classifies
the paired methylation state of each occurrence from the pileup's
modification calls and coverage.

A motif pair is given as MOTIF_TYPE1_POS1_TYPE2_POS2, e.g. "CCWGG_4mC_0_5mC_3":
the motif, then the modification type and 0-based motif offset of each of
the two modified sites.

Sample usage:

motif-pair-meth \
    -out report.tsv \
    -sites sites.tsv.gz \
    ref.fa pileup.bed \
    CCWGG_4mC_0_5mC_3 GATC_a_1_a_2
*/
package main
