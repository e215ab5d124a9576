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
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/SorenHeidelbach/MotifPairMeth/methpair"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	minCov      = flag.Uint("min-cov", uint(methpair.DefaultOpts.MinCov), "Minimum valid coverage at both sites for an occurrence to be classified; lower-covered occurrences are counted as low_cov")
	outPath     = flag.String("out", "motif-pair-meth.tsv", "Aggregate report output path; .gz suffix enables bgzf compression")
	sitesPath   = flag.String("sites", methpair.DefaultOpts.SitesPath, "Optional per-occurrence detail TSV output path; .gz suffix enables bgzf compression")
	parallelism = flag.Int("threads", methpair.DefaultOpts.Parallelism, "Maximum number of reference sequences processed concurrently; 0 = runtime.NumCPU()")
)

func motifPairMethUsage() {
	fmt.Printf("Usage: %s [OPTIONS] fapath pileuppath motifpair...\n", os.Args[0])
	fmt.Printf("Motif pairs are MOTIF_TYPE1_POS1_TYPE2_POS2 tokens, e.g. CCWGG_4mC_0_5mC_3.\n")
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = motifPairMethUsage
	shutdown := grail.Init()
	defer shutdown()

	args := flag.Args()
	if len(args) < 3 {
		log.Fatalf("Missing positional arguments (fapath, pileuppath and at least one motif pair required); got '%v'", args)
	}
	ctx := vcontext.Background()
	opts := methpair.Opts{
		MinCov:      uint32(*minCov),
		Parallelism: *parallelism,
		SitesPath:   *sitesPath,
	}
	if err := methpair.Run(ctx, args[0], args[1], args[2:], *outPath, &opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
