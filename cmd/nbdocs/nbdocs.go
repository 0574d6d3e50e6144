// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// nbdocs renders a directory of Jupyter tutorial notebooks into
// standalone HTML pages plus RST stubs and an index document, suitable
// for inclusion in a Sphinx doc tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/neuronsimulator/gonrn/nbconv"
)

// flags
var (
	outDir   = flag.String("out", "docs", "output directory for html, stubs and index")
	idxFile  = flag.String("index", "index.rst", "name of the generated index document")
	idxTitle = flag.String("title", "Notebooks", "title of the generated index document")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: nbdocs [flags] notebook-dir\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	cv := nbconv.NewConverter(*outDir)
	cv.IndexFile = *idxFile
	cv.IndexTitle = *idxTitle
	stubs, err := cv.ConvertDir(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("converted %d notebooks to %s\n", len(stubs), *outDir)
}
