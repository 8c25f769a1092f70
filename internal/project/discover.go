package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ModuleFileExt is the on-disk extension for a msgpack-encoded
// checkast.Module, the typed AST producer's handoff format this project
// takes as given. Discovery below only walks directories and
// matches this suffix — it never lexes or parses file contents, matching
// this project's non-goal of implementing a front end.
const ModuleFileExt = ".module.mp"

// DiscoverModuleFiles resolves m's [check].paths against m.Root into a
// sorted, deduplicated list of module files, walking directory entries
// recursively and matching plain file entries directly, since this project
// has no module-installation step to resolve against.
func DiscoverModuleFiles(m *Manifest) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range m.Config.Check.Paths {
		abs := filepath.Join(m.Root, filepath.FromSlash(p))
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%s: [check].paths entry %q: %w", m.Path, p, err)
		}
		if !info.IsDir() {
			if !strings.HasSuffix(abs, ModuleFileExt) {
				return nil, fmt.Errorf("%s: [check].paths entry %q is not a %s file", m.Path, p, ModuleFileExt)
			}
			if !seen[abs] {
				seen[abs] = true
				out = append(out, abs)
			}
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ModuleFileExt) {
				return nil
			}
			if !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%s: [check].paths entry %q: %w", m.Path, p, err)
		}
	}
	sort.Strings(out)
	return out, nil
}
