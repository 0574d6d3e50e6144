// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nbconv converts Jupyter notebooks into standalone HTML plus RST
stub files and an index, for publishing tutorial notebooks as
documentation.  Markdown cells render through goldmark, code cells are
syntax highlighted with chroma, and outputs are carried verbatim.
*/
package nbconv

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Source is notebook cell text, which the nbformat JSON stores either
// as one string or as a list of line strings
type Source string

func (s *Source) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		var lines []string
		if err := json.Unmarshal(b, &lines); err != nil {
			return err
		}
		*s = Source(strings.Join(lines, ""))
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*s = Source(one)
	return nil
}

// Output is one output of a code cell
type Output struct {

	// output_type: stream, execute_result, display_data, or error
	Type string `json:"output_type"`

	// stream text, for stream outputs
	Text Source `json:"text,omitempty"`

	// mime-type keyed data, for execute_result and display_data
	Data map[string]Source `json:"data,omitempty"`

	// error name, for error outputs
	Ename string `json:"ename,omitempty"`

	// error value
	Evalue string `json:"evalue,omitempty"`

	// traceback lines
	Traceback []string `json:"traceback,omitempty"`
}

// Cell is one notebook cell
type Cell struct {

	// cell_type: markdown, code, or raw
	Type string `json:"cell_type"`

	// cell text
	Source Source `json:"source"`

	// code cell outputs
	Outputs []Output `json:"outputs,omitempty"`
}

// Notebook is a Jupyter notebook document (nbformat 4)
type Notebook struct {

	// the cells, in document order
	Cells []Cell `json:"cells"`

	// major format version -- only 4 is supported
	NBFormat int `json:"nbformat"`
}

// Title returns the text of the first markdown heading, or fallback
// if the notebook has none.
func (nb *Notebook) Title(fallback string) string {
	for _, cl := range nb.Cells {
		if cl.Type != "markdown" {
			continue
		}
		for _, ln := range strings.Split(string(cl.Source), "\n") {
			ln = strings.TrimSpace(ln)
			if strings.HasPrefix(ln, "#") {
				return strings.TrimSpace(strings.TrimLeft(ln, "#"))
			}
		}
	}
	return fallback
}

// Parse decodes a notebook from JSON
func Parse(b []byte) (*Notebook, error) {
	nb := &Notebook{}
	if err := json.Unmarshal(b, nb); err != nil {
		return nil, fmt.Errorf("nbconv: not a valid notebook: %w", err)
	}
	if nb.NBFormat != 4 {
		return nil, fmt.Errorf("nbconv: unsupported nbformat %d, only 4 is supported", nb.NBFormat)
	}
	return nb, nil
}

// Open reads and decodes a notebook file
func Open(fnm string) (*Notebook, error) {
	b, err := os.ReadFile(fnm)
	if err != nil {
		return nil, fmt.Errorf("nbconv: %w", err)
	}
	nb, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("nbconv: %s: %w", fnm, err)
	}
	return nb, nil
}
