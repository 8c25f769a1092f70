package diagfmt

import (
	"encoding/json"
	"io"

	"boundcheck/internal/diag"
	"boundcheck/internal/source"
)

// LocationJSON is a Span rendered for machine consumption.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is one diag.Note rendered for machine consumption.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is one diag.FixEdit rendered for machine consumption.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON is one diag.Fix rendered for machine consumption.
type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diag.Diagnostic rendered for machine consumption.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root JSON payload for a `boundcheck check --json` run.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	var path string
	if fs != nil {
		f := fs.Get(span.File)
		switch pathMode {
		case PathModeAbsolute:
			path = f.FormatPath("absolute", "")
		case PathModeRelative:
			path = f.FormatPath("relative", fs.BaseDir())
		case PathModeBasename:
			path = f.FormatPath("basename", "")
		default:
			path = f.FormatPath("auto", "")
		}
	}

	loc := LocationJSON{File: path, StartByte: span.Start, EndByte: span.End}
	if includePositions && fs != nil {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine, loc.StartCol = startPos.Line, startPos.Col
		loc.EndLine, loc.EndCol = endPos.Line, endPos.Col
	}
	return loc
}

// BuildDiagnosticsOutput assembles bag's JSON shape without serializing it,
// so a caller (e.g. a test, or a future SARIF-shaped renderer) can inspect
// the structure directly.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := 0; i < maxItems; i++ {
		d := items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}

		if opts.IncludeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, n := range d.Notes {
				dj.Notes[j] = NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, fs, opts.PathMode, opts.IncludePositions)}
			}
		}

		if opts.IncludeFixes && len(d.Fixes) > 0 {
			dj.Fixes = make([]FixJSON, len(d.Fixes))
			for j, fix := range d.Fixes {
				fj := FixJSON{Title: fix.Title, Edits: make([]FixEditJSON, len(fix.Edits))}
				for k, e := range fix.Edits {
					ej := FixEditJSON{Location: makeLocation(e.Span, fs, opts.PathMode, opts.IncludePositions), NewText: e.NewText}
					if opts.IncludePreviews && fs != nil {
						if preview, err := buildFixEditPreview(fs, fixEditLike{Span: e.Span, NewText: e.NewText}); err == nil {
							ej.BeforeLines = append([]string(nil), preview.before...)
							ej.AfterLines = append([]string(nil), preview.after...)
						}
					}
					fj.Edits[k] = ej
				}
				dj.Fixes[j] = fj
			}
		}

		diagnostics = append(diagnostics, dj)
	}

	return DiagnosticsOutput{Diagnostics: diagnostics, Count: len(diagnostics)}
}

// JSON writes bag to w as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output := BuildDiagnosticsOutput(bag, fs, opts)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
