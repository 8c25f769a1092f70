package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"boundcheck/internal/cache"
	"boundcheck/internal/checkast"
	"boundcheck/internal/diagfmt"
	"boundcheck/internal/driver"
	"boundcheck/internal/ident"
	"boundcheck/internal/project"
	"boundcheck/internal/registry"
	"boundcheck/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Normalize and bound-check a project's module fixtures",
	Long:  "check reads boundcheck.toml, decodes every *.module.mp file it names, and reports whether every array access it contains can be proven in bounds.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  checkExecution,
}

func init() {
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("json", false, "emit diagnostics as JSON instead of colorized text")
	checkCmd.Flags().Bool("notes", true, "include notes attached to diagnostics")
	checkCmd.Flags().Bool("fixes", true, "include suggested fixes attached to diagnostics")
}

func checkExecution(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	manifest, ok, err := project.LoadManifest(startDir)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no %s found searching upward from %s", project.ManifestFile, startDir)
	}

	paths, err := project.DiscoverModuleFiles(manifest)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%s: [check].paths matched no %s files", manifest.Path, project.ModuleFileExt)
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	colorValue, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	colorModeValue, err := readColorMode(colorValue)
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	showNotes, err := cmd.Flags().GetBool("notes")
	if err != nil {
		return err
	}
	showFixes, err := cmd.Flags().GetBool("fixes")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	if !cmd.Root().PersistentFlags().Changed("max-diagnostics") || maxDiagnostics <= 0 {
		maxDiagnostics = manifest.Config.Check.MaxDiagnostics
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = manifest.Config.Check.Jobs
	}
	useCache, err := cmd.Root().PersistentFlags().GetBool("cache")
	if err != nil {
		return err
	}
	if !cmd.Root().PersistentFlags().Changed("cache") {
		useCache = manifest.Config.Check.Cache
	}

	idents := ident.NewTable()
	reg := registry.NewDefault(idents)

	units := make([]driver.Unit, 0, len(paths))
	for _, p := range paths {
		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", p, readErr)
		}
		mod, decodeErr := checkast.UnmarshalModule(data)
		if decodeErr != nil {
			return fmt.Errorf("decoding %s: %w", p, decodeErr)
		}
		units = append(units, driver.Unit{Path: p, Module: mod})
	}

	var diskCache *cache.DiskCache
	if useCache {
		diskCache, err = cache.Open("boundcheck")
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}
	if diskCache != nil {
		opts.Cache = diskCache
	}

	useTUI := shouldUseTUI(uiModeValue) && !jsonOutput
	useColor := shouldUseColor(colorModeValue) && !jsonOutput

	var results []driver.Result
	if useTUI {
		results, err = runCheckWithUI(cmd.Context(), "boundcheck check", reg, units, opts)
	} else {
		results, err = driver.CheckModules(cmd.Context(), reg, units, opts)
	}
	if err != nil {
		return err
	}
	driver.SortByPath(results)

	fs := fileSetForResults(results)

	hasErrors := false
	for _, res := range results {
		if res.Bag.HasErrors() {
			hasErrors = true
		}
		if !res.CacheHit && uint16(len(res.Bag.Items())) >= res.Bag.Cap() {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: hit --max-diagnostics (%d); some diagnostics were not reported\n", res.Path, res.Bag.Cap())
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     showNotes,
			IncludeFixes:     showFixes,
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, res := range results {
			output[res.Path] = diagfmt.BuildDiagnosticsOutput(res.Bag, fs, jsonOpts)
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("encoding diagnostics: %w", err)
		}
	} else {
		printed := false
		for _, res := range results {
			if len(res.Bag.Items()) == 0 {
				continue
			}
			if printed {
				fmt.Fprintln(out)
			}
			printed = true
			if !quiet {
				fmt.Fprintf(out, "== %s ==\n", res.Path)
			}
			prettyOpts := diagfmt.PrettyOpts{
				Color:     useColor,
				PathMode:  diagfmt.PathModeRelative,
				ShowNotes: showNotes,
				ShowFixes: showFixes,
			}
			if err := diagfmt.Pretty(out, res.Bag, fs, prettyOpts); err != nil {
				return err
			}
		}
	}

	if hasErrors {
		// Suppress cobra's usage/error banner: the diagnostics above already
		// explain the failure.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnosed
	}
	return nil
}

// errDiagnosed signals a nonzero exit for a run that completed normally but
// found bound-check errors: the diagnostics above already explained why, so
// cobra's own error banner is silenced.
var errDiagnosed = fmt.Errorf("")

// fileSetForResults builds a FileSet wide enough to resolve every span any
// result's diagnostics touch. Module fixtures carry no source text, so every
// entry is an empty virtual file; diagfmt degrades gracefully for such
// files, printing file:line:col from byte offsets but no source snippet.
// Entries are indexed by File ID directly, matching the producer's own
// span.File numbering, so FileSet.Get never runs off the end of the slice.
func fileSetForResults(results []driver.Result) *source.FileSet {
	maxID := uint32(0)
	for _, res := range results {
		for _, d := range res.Bag.Items() {
			if uint32(d.Primary.File) > maxID {
				maxID = uint32(d.Primary.File)
			}
			for _, n := range d.Notes {
				if uint32(n.Span.File) > maxID {
					maxID = uint32(n.Span.File)
				}
			}
		}
	}

	fs := source.NewFileSet()
	pathByFile := make(map[uint32]string)
	for _, res := range results {
		for _, d := range res.Bag.Items() {
			pathByFile[uint32(d.Primary.File)] = res.Path
		}
	}
	for id := uint32(0); id <= maxID; id++ {
		name := pathByFile[id]
		if name == "" {
			name = fmt.Sprintf("<module %d>", id)
		}
		fs.AddVirtual(name, nil)
	}
	return fs
}
