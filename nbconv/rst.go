// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nbconv

import (
	"bytes"
	"fmt"
	"strings"
)

// StubRST returns the RST stub embedding an HTML rendering via a
// raw-include directive.  The html file name is relative to the stub.
func StubRST(title, htmlFile string) []byte {
	var b bytes.Buffer
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(title))) + "\n\n")
	b.WriteString(".. raw:: html\n")
	fmt.Fprintf(&b, "   :file: %s\n", htmlFile)
	return b.Bytes()
}

// IndexRST returns the index document with all stubs nested under a
// single toctree directive, in the given order.
func IndexRST(title string, stubs []string) []byte {
	var b bytes.Buffer
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(title))) + "\n\n")
	b.WriteString(".. toctree::\n")
	b.WriteString("   :maxdepth: 1\n\n")
	for _, st := range stubs {
		b.WriteString("   " + st + "\n")
	}
	return b.Bytes()
}
