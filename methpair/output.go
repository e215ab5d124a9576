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
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bgzf"
)

// All positions in the TSV outputs are 0-based, matching the bedMethyl
// input coordinates.

// openTSV creates path and returns a tsv.Writer over it, bgzf-compressed
// when path ends in .gz.  flush finishes the writer; call it before
// closing, and only on success.
func openTSV(ctx context.Context, path string, parallelism int) (dst file.File, tsvw *tsv.Writer, flush func() error, err error) {
	if dst, err = file.Create(ctx, path); err != nil {
		return
	}
	w := io.Writer(dst.Writer(ctx))
	if strings.HasSuffix(path, ".gz") {
		bgzfw := bgzf.NewWriter(w, parallelism)
		tsvw = tsv.NewWriter(bgzfw)
		flush = func() error {
			if e := tsvw.Flush(); e != nil {
				return e
			}
			return bgzfw.Close()
		}
		return
	}
	tsvw = tsv.NewWriter(w)
	flush = tsvw.Flush
	return
}

// closeOutput closes dst, removing the artifact when err is already set so
// failed runs leave no partial file behind.
func closeOutput(ctx context.Context, dst file.File, path string, err *error) {
	if e := dst.Close(ctx); e != nil && *err == nil {
		*err = e
	}
	if *err != nil {
		_ = file.Remove(ctx, path)
	}
}

// WriteReport writes the aggregate rows to path in their final order.  The
// column layout is fixed: reference, motif pair (canonical form), the six
// state counts, then the number of considered occurrences.
func WriteReport(ctx context.Context, path string, rows []Row, parallelism int) (err error) {
	dst, tsvw, flush, err := openTSV(ctx, path, parallelism)
	if err != nil {
		return err
	}
	defer closeOutput(ctx, dst, path, &err)

	tsvw.WriteString("#ref")
	tsvw.WriteString("motif")
	for s := State(0); s != NState; s++ {
		tsvw.WriteString("n_" + s.String())
	}
	tsvw.WriteString("n_considered")
	if err = tsvw.EndLine(); err != nil {
		return
	}
	for i := range rows {
		row := &rows[i]
		tsvw.WriteString(row.Ref)
		tsvw.WriteString(row.Pair.String())
		for s := State(0); s != NState; s++ {
			tsvw.WriteString(strconv.FormatUint(row.Counts[s], 10))
		}
		tsvw.WriteString(strconv.FormatUint(row.Considered, 10))
		if err = tsvw.EndLine(); err != nil {
			return
		}
	}
	err = flush()
	return
}

// WriteSites writes the per-occurrence detail rows to path.  sites must
// already be in output order (reference input order, then motif input
// order, then position).
func WriteSites(ctx context.Context, path string, sites []Classified, parallelism int) (err error) {
	dst, tsvw, flush, err := openTSV(ctx, path, parallelism)
	if err != nil {
		return err
	}
	defer closeOutput(ctx, dst, path, &err)

	tsvw.WriteString("#ref")
	tsvw.WriteString("start")
	tsvw.WriteString("motif")
	tsvw.WriteString("strand")
	tsvw.WriteString("state")
	for _, side := range []string{"mod1", "mod2"} {
		tsvw.WriteString(side + "_pos")
		tsvw.WriteString(side + "_type")
		tsvw.WriteString(side + "_call")
		tsvw.WriteString(side + "_cov")
		tsvw.WriteString(side + "_n_mod")
		tsvw.WriteString(side + "_n_diff")
	}
	if err = tsvw.EndLine(); err != nil {
		return
	}
	for i := range sites {
		c := &sites[i]
		tsvw.WriteString(c.Occ.Ref)
		tsvw.WriteUint32(uint32(c.Occ.Start))
		tsvw.WriteString(c.Occ.Pair.String())
		tsvw.WriteString(c.Occ.Strand.String())
		tsvw.WriteString(c.State.String())
		writeSiteCols(tsvw, c.Occ.Mod1Pos, c.Occ.Pair.Mod1.Type, c.Site1.Call, c.Site1.Cov, c.Site1.NMod, c.Site1.NDiff, c.Found1)
		writeSiteCols(tsvw, c.Occ.Mod2Pos, c.Occ.Pair.Mod2.Type, c.Site2.Call, c.Site2.Cov, c.Site2.NMod, c.Site2.NDiff, c.Found2)
		if err = tsvw.EndLine(); err != nil {
			return
		}
	}
	err = flush()
	return
}

func writeSiteCols(tsvw *tsv.Writer, pos int, typ, call string, cov, nMod, nDiff uint32, found bool) {
	tsvw.WriteUint32(uint32(pos))
	tsvw.WriteString(typ)
	if !found {
		call = "."
	}
	tsvw.WriteString(call)
	tsvw.WriteUint32(cov)
	tsvw.WriteUint32(nMod)
	tsvw.WriteUint32(nDiff)
}
