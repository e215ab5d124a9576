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

// Package fasta parses FASTA-formatted reference sequences.  A FASTA file
// is a series of named records; sequence lines may be wrapped at any width:
//
//	>contig_3 optional description
//	ACGTAC
//	GAGGAC
//
// The record name is the text between '>' and the first space; anything
// after the space is ignored.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Fasta holds a set of named sequences.
type Fasta interface {
	// Get returns the subsequence of seqName over the 0-based half-open
	// interval [start, end).  Get is thread-safe.
	Get(seqName string, start, end uint64) (string, error)

	// Len returns the length of the named sequence.
	Len(seqName string) (uint64, error)

	// SeqNames returns all sequence names, in file order.
	SeqNames() []string
}

type fasta struct {
	seqs     map[string]string
	seqNames []string
}

// New reads all FASTA records from r into memory.  Records must be
// nonempty, uniquely named, and preceded by a '>' header; carriage returns
// are stripped so CRLF files parse cleanly.
func New(r io.Reader) (Fasta, error) {
	f := &fasta{seqs: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1024*1024*256)
	var seqName string
	var seq strings.Builder
	flush := func() error {
		if seqName == "" {
			return nil
		}
		if seq.Len() == 0 {
			return errors.Errorf("fasta: record %q has no sequence", seqName)
		}
		if _, dup := f.seqs[seqName]; dup {
			return errors.Errorf("fasta: duplicate record name %q", seqName)
		}
		f.seqs[seqName] = seq.String()
		f.seqNames = append(f.seqNames, seqName)
		seq.Reset()
		return nil
	}
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			seqName = strings.SplitN(line[1:], " ", 2)[0]
			if seqName == "" {
				return nil, errors.New("fasta: empty record name")
			}
			continue
		}
		if seqName == "" {
			return nil, errors.Errorf("fasta: sequence data before first header: %q", line)
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "fasta: read failed")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(f.seqNames) == 0 {
		return nil, errors.New("fasta: no records found")
	}
	return f, nil
}

// Get implements Fasta.Get.
func (f *fasta) Get(seqName string, start, end uint64) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("fasta: sequence not found: %s", seqName)
	}
	if end < start || end > uint64(len(s)) {
		return "", errors.Errorf("fasta: invalid range [%d, %d) for sequence %s of length %d",
			start, end, seqName, len(s))
	}
	return s[start:end], nil
}

// Len implements Fasta.Len.
func (f *fasta) Len(seqName string) (uint64, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("fasta: sequence not found: %s", seqName)
	}
	return uint64(len(s)), nil
}

// SeqNames implements Fasta.SeqNames.
func (f *fasta) SeqNames() []string {
	return f.seqNames
}
