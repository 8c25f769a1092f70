package diag

import (
	"testing"

	"boundcheck/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	moduleFile := fs.Add("/workspace/mod/list.sf", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     BoundUp,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: moduleFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: moduleFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     NormInfiniteLoop,
			Message:  "another",
			Primary:  source.Span{File: moduleFile, Start: 2, End: 3},
		},
	}

	expected := "error BND2004 mod/list.sf:1:1 first line second\n" +
		"note BND2004 mod/list.sf:2:1 note line\n" +
		"warning NORM1004 mod/list.sf:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
