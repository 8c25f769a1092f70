package diagfmt

// PathMode controls how a diagnostic's file path is rendered.
type PathMode uint8

const (
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures Pretty's colorized text rendering.
type PrettyOpts struct {
	Color     bool
	Context   int8
	PathMode  PathMode
	ShowNotes bool
	ShowFixes bool
}

// JSONOpts configures JSON's structured rendering.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}
