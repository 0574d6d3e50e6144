// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nbconv

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Converter converts a directory of notebooks into HTML renderings plus
// one RST stub per notebook and an index.rst with a toctree listing all
// stubs.  Conversion is fail-fast: the first error aborts.
type Converter struct {

	// output directory, created if needed
	OutDir string

	// index file name within OutDir
	IndexFile string `def:"index.rst"`

	// title of the index page
	IndexTitle string `def:"Notebooks"`
}

// NewConverter returns a converter writing into the given directory
func NewConverter(outDir string) *Converter {
	return &Converter{OutDir: outDir, IndexFile: "index.rst", IndexTitle: "Notebooks"}
}

// Notebooks returns the .ipynb files in dir, sorted by name -- the
// processing order, which is also the index order.
func Notebooks(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("nbconv: %w", err)
	}
	var fnms []string
	for _, ent := range ents {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".ipynb") {
			continue
		}
		fnms = append(fnms, filepath.Join(dir, ent.Name()))
	}
	sort.Strings(fnms)
	return fnms, nil
}

// ConvertDir converts every notebook in dir, writes the stubs and the
// index, and returns the stub base names in index order.
func (cv *Converter) ConvertDir(dir string) ([]string, error) {
	fnms, err := Notebooks(dir)
	if err != nil {
		return nil, err
	}
	if len(fnms) == 0 {
		return nil, fmt.Errorf("nbconv: no notebooks found in %s", dir)
	}
	if err := os.MkdirAll(cv.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("nbconv: %w", err)
	}
	var stubs []string
	for _, fnm := range fnms {
		stub, err := cv.ConvertFile(fnm)
		if err != nil {
			return nil, err
		}
		stubs = append(stubs, stub)
	}
	if err := cv.WriteIndex(stubs); err != nil {
		return nil, err
	}
	return stubs, nil
}

// ConvertFile converts one notebook: writes <base>.html and <base>.rst
// into OutDir and returns the stub base name.
func (cv *Converter) ConvertFile(fnm string) (string, error) {
	nb, err := Open(fnm)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(fnm), ".ipynb")
	title := nb.Title(base)

	htm, err := RenderHTML(nb, title)
	if err != nil {
		return "", fmt.Errorf("nbconv: %s: %w", fnm, err)
	}
	htmlName := base + ".html"
	if err := os.WriteFile(filepath.Join(cv.OutDir, htmlName), htm, 0644); err != nil {
		return "", fmt.Errorf("nbconv: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cv.OutDir, base+".rst"), StubRST(title, htmlName), 0644); err != nil {
		return "", fmt.Errorf("nbconv: %w", err)
	}
	return base, nil
}

// WriteIndex writes the index file listing the given stubs under one
// toctree directive, in the given order.
func (cv *Converter) WriteIndex(stubs []string) error {
	b := IndexRST(cv.IndexTitle, stubs)
	if err := os.WriteFile(filepath.Join(cv.OutDir, cv.IndexFile), b, 0644); err != nil {
		return fmt.Errorf("nbconv: %w", err)
	}
	return nil
}
