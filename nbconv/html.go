// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nbconv

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// CodeLang is the chroma lexer used for code cells
var CodeLang = "python"

// CodeStyle is the chroma style used for code cells
var CodeStyle = "github"

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(ghtml.WithUnsafe()),
)

// RenderHTML renders the notebook as a standalone HTML document with
// the given page title.
func RenderHTML(nb *Notebook, title string) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>\nbody { max-width: 50em; margin: 2em auto; font-family: sans-serif; }\n.nb-code { margin: 1em 0; }\n.nb-output { background: #f5f5f5; padding: 0.5em; overflow-x: auto; }\n.nb-error { background: #fff0f0; padding: 0.5em; }\n</style>\n</head>\n<body>\n")
	for ci := range nb.Cells {
		if err := renderCell(&b, &nb.Cells[ci]); err != nil {
			return nil, fmt.Errorf("nbconv: cell %d: %w", ci, err)
		}
	}
	b.WriteString("</body>\n</html>\n")
	return b.Bytes(), nil
}

func renderCell(b *bytes.Buffer, cl *Cell) error {
	switch cl.Type {
	case "markdown":
		if err := md.Convert([]byte(cl.Source), b); err != nil {
			return err
		}
	case "code":
		b.WriteString("<div class=\"nb-code\">\n")
		if err := quick.Highlight(b, string(cl.Source), CodeLang, "html", CodeStyle); err != nil {
			return err
		}
		b.WriteString("</div>\n")
		for oi := range cl.Outputs {
			renderOutput(b, &cl.Outputs[oi])
		}
	case "raw":
		b.WriteString(string(cl.Source))
		b.WriteString("\n")
	default:
		return fmt.Errorf("unknown cell type %q", cl.Type)
	}
	return nil
}

func renderOutput(b *bytes.Buffer, out *Output) {
	switch out.Type {
	case "stream":
		fmt.Fprintf(b, "<pre class=\"nb-output\">%s</pre>\n", html.EscapeString(string(out.Text)))
	case "execute_result", "display_data":
		if png, ok := out.Data["image/png"]; ok {
			fmt.Fprintf(b, "<img src=\"data:image/png;base64,%s\">\n", strings.TrimSpace(string(png)))
			return
		}
		if txt, ok := out.Data["text/plain"]; ok {
			fmt.Fprintf(b, "<pre class=\"nb-output\">%s</pre>\n", html.EscapeString(string(txt)))
		}
	case "error":
		fmt.Fprintf(b, "<pre class=\"nb-error\">%s: %s\n%s</pre>\n",
			html.EscapeString(out.Ename), html.EscapeString(out.Evalue),
			html.EscapeString(strings.Join(out.Traceback, "\n")))
	}
}
