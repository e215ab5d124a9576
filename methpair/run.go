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
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/SorenHeidelbach/MotifPairMeth/encoding/fasta"
	"github.com/SorenHeidelbach/MotifPairMeth/motif"
	"github.com/SorenHeidelbach/MotifPairMeth/pileup"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Opts bundles the engine configuration.
type Opts struct {
	// MinCov is the minimum valid coverage at both sites for an occurrence
	// to be classified rather than marked low_cov.
	MinCov uint32
	// Parallelism caps the number of concurrent reference-sequence workers;
	// 0 means runtime.NumCPU().
	Parallelism int
	// SitesPath, if nonempty, is where the per-occurrence detail TSV is
	// written.
	SitesPath string
}

// DefaultOpts are the defaults presented by the CLI.
var DefaultOpts = Opts{
	MinCov:      5,
	Parallelism: 0,
}

// openInput opens path for reading, transparently decompressing gzip
// variants.  The returned closer releases both layers.
func openInput(ctx context.Context, path string) (*inputFile, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	r, _ := compress.NewReader(f.Reader(ctx))
	return &inputFile{f: f, r: r}, nil
}

type inputFile struct {
	f file.File
	r io.ReadCloser
}

func (in *inputFile) Close(ctx context.Context) (err error) {
	if e := in.r.Close(); e != nil {
		err = e
	}
	if e := in.f.Close(ctx); e != nil && err == nil {
		err = e
	}
	return
}

// Run executes one full engine pass: parse the motif-pair tokens, load the
// reference FASTA, index the pileup, scan and classify every reference in
// parallel, then write the aggregate report to outPath (and, if configured,
// the per-occurrence detail to opts.SitesPath).  Nothing is written unless
// the whole pass succeeds.
func Run(ctx context.Context, fapath, pileupPath string, motifTokens []string, outPath string, opts *Opts) (err error) {
	start := time.Now()
	if len(motifTokens) == 0 {
		return fmt.Errorf("methpair.Run: no motif pairs given")
	}
	pairs, err := motif.ParsePairs(motifTokens)
	if err != nil {
		return err
	}

	faIn, err := openInput(ctx, fapath)
	if err != nil {
		return err
	}
	fa, err := fasta.New(faIn.r)
	if e := faIn.Close(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return fmt.Errorf("methpair.Run: reading reference %s: %v", fapath, err)
	}
	refs := fa.SeqNames()
	log.Printf("methpair: loaded %d reference sequence(s) from %s", len(refs), fapath)

	pileIn, err := openInput(ctx, pileupPath)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(refs))
	for _, r := range refs {
		known[r] = true
	}
	idx, err := pileup.ReadIndex(pileIn.r, func(ref string) bool { return known[ref] })
	if e := pileIn.Close(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return err
	}
	log.Printf("methpair: indexed %d pileup position(s) from %s", idx.Len(), pileupPath)

	agg := NewAggregator(refs, pairs)
	// Per-reference slots for the detail rows; distinct workers write
	// distinct slots, so only the aggregate counts need the lock.
	var siteSlots [][]Classified
	if opts.SitesPath != "" {
		siteSlots = make([][]Classified, len(refs))
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(refs) {
		parallelism = len(refs)
	}
	err = traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(refs)) / parallelism
		endIdx := ((jobIdx + 1) * len(refs)) / parallelism
		for ri := startIdx; ri != endIdx; ri++ {
			ref := refs[ri]
			n, e := fa.Len(ref)
			if e != nil {
				return e
			}
			seq, e := fa.Get(ref, 0, n)
			if e != nil {
				return e
			}
			var batch []Classified
			for _, pair := range pairs {
				motif.ScanFunc(ref, seq, pair, func(occ motif.Occurrence) {
					batch = append(batch, Classify(occ, idx, opts.MinCov))
				})
			}
			if e := agg.Add(batch); e != nil {
				return e
			}
			if siteSlots != nil {
				siteSlots[ri] = batch
			}
			log.Debug.Printf("methpair: %s: classified %d occurrence(s)", ref, len(batch))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err = WriteReport(ctx, outPath, agg.Rows(), parallelism); err != nil {
		return err
	}
	if opts.SitesPath != "" {
		// Workers fill slots per reference and scan pair-by-pair in position
		// order, so flattening the slots yields the final output order:
		// reference input order, then motif input order, then position.
		var sites []Classified
		for _, slot := range siteSlots {
			sites = append(sites, slot...)
		}
		if err = WriteSites(ctx, opts.SitesPath, sites, parallelism); err != nil {
			return err
		}
	}
	log.Printf("methpair: finished in %v", time.Since(start))
	return nil
}
