package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"boundcheck/internal/diag"
	"boundcheck/internal/source"
)

const maxSnippetWidth = 100

var severityAttrs = map[diag.Severity][]color.Attribute{
	diag.SevInfo:    {color.FgCyan},
	diag.SevWarning: {color.FgYellow, color.Bold},
	diag.SevError:   {color.FgRed, color.Bold},
}

// colorSprint renders s through a fresh *color.Color built from attrs,
// forcing color on or off per useColor rather than deferring to fatih/color's
// process-global NoColor detection — callers of Pretty decide colorization
// (resolving "auto" against a terminal check happens above this package),
// and a fresh instance per call keeps concurrent Pretty calls from racing on
// shared color.Color state.
func colorSprint(useColor bool, s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if useColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// Pretty renders bag as human-readable, optionally colorized, text.
//
// It walks bag.Items() (bag.Sort should have been called by the caller so
// diagnostics are grouped by file/position first); diagnostics sharing an
// identical primary span are then re-ordered by message using a
// locale-aware collator, so a run against the same input always prints
// those diagnostics in the same order regardless of map/slice iteration
// elsewhere in the pipeline.
//
// Each diagnostic is rendered as:
//
//	<path>:<line>:<col>: <SEVERITY> <CODE>: <message>
//	  <source line>
//	  <caret underline>
//	note: <message> (at <path>:<line>:<col>, if it differs from the primary)
//	fix: <title>
//
// Color is applied exactly per opts.Color: Pretty does no terminal detection
// of its own. A caller resolving a `--color auto|on|off` flag should decide
// against term.IsTerminal(int(os.Stdout.Fd())) before setting opts.Color.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	items := groupAndOrder(bag.Items())

	for i, d := range items {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := printDiagnostic(w, fs, d, opts, opts.Color); err != nil {
			return err
		}
	}
	return nil
}

// groupAndOrder returns a copy of items with runs that share an identical
// primary span reordered by message, using a Unicode-collation-aware
// comparison rather than a raw byte compare.
func groupAndOrder(items []diag.Diagnostic) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(items))
	copy(out, items)

	col := collate.New(language.Und)

	start := 0
	for i := 1; i <= len(out); i++ {
		if i < len(out) && out[i].Primary == out[start].Primary {
			continue
		}
		run := out[start:i]
		sort.SliceStable(run, func(a, b int) bool {
			return col.CompareString(run[a].Message, run[b].Message) < 0
		})
		start = i
	}
	return out
}

func printDiagnostic(w io.Writer, fs *source.FileSet, d diag.Diagnostic, opts PrettyOpts, useColor bool) error {
	loc := makeLocation(d.Primary, fs, opts.PathMode, true)
	header := fmt.Sprintf("%s:%d:%d:", loc.File, loc.StartLine, loc.StartCol)

	sevText := d.Severity.String()
	if attrs, ok := severityAttrs[d.Severity]; ok {
		sevText = colorSprint(useColor, sevText, attrs...)
	}
	header = colorSprint(useColor, header, color.FgHiBlack)

	if _, err := fmt.Fprintf(w, "%s %s %s: %s\n", header, sevText, d.Code.ID(), d.Message); err != nil {
		return err
	}

	if fs != nil {
		if err := printSnippet(w, fs, d.Primary, useColor); err != nil {
			return err
		}
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nloc := makeLocation(n.Span, fs, opts.PathMode, true)
			if n.Span == d.Primary {
				if _, err := fmt.Fprintf(w, "  note: %s\n", n.Msg); err != nil {
					return err
				}
			} else if _, err := fmt.Fprintf(w, "  note: %s (at %s:%d:%d)\n", n.Msg, nloc.File, nloc.StartLine, nloc.StartCol); err != nil {
				return err
			}
		}
	}

	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			title := colorSprint(useColor, fix.Title, color.FgCyan)
			if _, err := fmt.Fprintf(w, "  fix: %s\n", title); err != nil {
				return err
			}
		}
	}

	return nil
}

// printSnippet prints the source line span touches plus a caret underline
// sized in display columns (not bytes), so combining marks and East-Asian
// wide characters line up under the right run of the source text.
func printSnippet(w io.Writer, fs *source.FileSet, span source.Span, useColor bool) error {
	f := fs.Get(span.File)
	if f == nil {
		return nil
	}
	startPos, endPos := fs.Resolve(span)
	line := f.GetLine(startPos.Line)
	if line == "" {
		return nil
	}
	line = strings.TrimRight(line, "\r\n")

	col := int(startPos.Col)
	if col < 1 {
		col = 1
	}
	width := int(endPos.Col) - col
	if endPos.Line != startPos.Line || width < 1 {
		width = 1
	}

	display := line
	truncated := false
	if runewidth.StringWidth(display) > maxSnippetWidth {
		display = runewidth.Truncate(display, maxSnippetWidth-3, "...")
		truncated = true
	}
	if _, err := fmt.Fprintf(w, "  %s\n", display); err != nil {
		return err
	}
	if truncated && col > maxSnippetWidth {
		// caret would land past the truncated snippet; skip it rather than
		// print a misleading underline.
		return nil
	}

	prefixWidth := runewidth.StringWidth(runewidth.Truncate(line, col-1, ""))
	caretWidth := runewidth.StringWidth(runewidth.Truncate(line[byteOffsetForCol(line, col):], width, ""))
	if caretWidth < 1 {
		caretWidth = 1
	}

	caret := colorSprint(useColor, strings.Repeat(" ", prefixWidth)+strings.Repeat("^", caretWidth), color.FgGreen, color.Bold)
	_, err := fmt.Fprintf(w, "  %s\n", caret)
	return err
}

// byteOffsetForCol converts a 1-based display column back to a byte offset
// within line, walking rune-by-rune since columns count runes, not bytes.
func byteOffsetForCol(line string, col int) int {
	if col <= 1 {
		return 0
	}
	n := 0
	for i, r := range line {
		n++
		if n >= col {
			return i
		}
		_ = r
	}
	return len(line)
}
