package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pico/internal/diag"
	"pico/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan),
		note:   mk(color.FgBlue, color.Bold),
		path:   mk(color.Bold),
		gutter: mk(color.FgHiBlack),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидается, что bag уже отсортирован.
//
//	examples/bad.pico:1:27: ERROR SYN2001: Expected STATEMENT_END but received END at 1:27
//	   1 | begin declare x, | x := 1 end
//	     |                           ^~~
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, &d, fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	header := fmt.Sprintf("%s:%d:%d:", formatPath(f, fs, opts.PathMode), start.Line, start.Col)
	if _, err := fmt.Fprintf(w, "%s %s %s: %s\n",
		pal.path.Sprint(header),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message,
	); err != nil {
		return err
	}
	if err := snippet(w, f, d.Primary, start, opts.Context, pal, pal.caret); err != nil {
		return err
	}
	if !opts.ShowNotes {
		return nil
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		ns, _ := fs.Resolve(n.Span)
		if _, err := fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
			pal.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg); err != nil {
			return err
		}
		if err := snippet(w, nf, n.Span, ns, 0, pal, pal.note); err != nil {
			return err
		}
	}
	return nil
}

// snippet prints the line holding span, context lines above it, and an
// underline whose start and width follow display width, not bytes.
func snippet(w io.Writer, f *source.File, span source.Span, start source.LineCol, context int, pal palette, mark *color.Color) error {
	first := start.Line
	for i := 0; i < context && first > 1; i++ {
		first--
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		if _, err := fmt.Fprintf(w, "%s %s\n",
			pal.gutter.Sprintf(" %*d |", gutterWidth, ln), expandTabs(f.GetLine(ln))); err != nil {
			return err
		}
	}

	text := f.GetLine(start.Line)
	runes := []rune(text)
	prefix := string(runes[:min(max(int(start.Col)-1, 0), len(runes))])
	pad := runewidth.StringWidth(expandTabs(prefix))

	width := 1
	if span.Len() > 0 {
		rest := text[min(len(prefix), len(text)):]
		n := min(int(span.Len()), len(rest))
		width = max(runewidth.StringWidth(expandTabs(rest[:n])), 1)
	}
	underline := "^" + strings.Repeat("~", width-1)
	_, err := fmt.Fprintf(w, "%s %s%s\n",
		pal.gutter.Sprintf(" %*s |", gutterWidth, ""), strings.Repeat(" ", pad), mark.Sprint(underline))
	return err
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
