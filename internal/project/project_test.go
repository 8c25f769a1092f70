package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestFindManifestWalksUpFromNestedDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname=\"demo\"\n[check]\npaths=[\"src\"]\n")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("expected to find manifest, got ok=%v err=%v", ok, err)
	}
	want := filepath.Join(root, ManifestFile)
	if path != want {
		t.Fatalf("expected %q, got %q", want, path)
	}
}

func TestFindManifestReportsNotFound(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := FindManifest(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest to be found in an empty tree")
	}
}

func TestLoadManifestRejectsMissingPackageName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\n[check]\npaths=[\"src\"]\n")
	_, _, err := LoadManifest(dir)
	if err == nil {
		t.Fatalf("expected an error for a manifest missing [package].name")
	}
}

func TestLoadManifestRejectsMissingCheckPaths(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname=\"demo\"\n[check]\n")
	_, _, err := LoadManifest(dir)
	if err == nil {
		t.Fatalf("expected an error for a manifest missing [check].paths")
	}
}

func TestLoadManifestDefaultsMaxDiagnostics(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname=\"demo\"\n[check]\npaths=[\"src\"]\n")
	m, ok, err := LoadManifest(dir)
	if err != nil || !ok {
		t.Fatalf("expected a manifest, got ok=%v err=%v", ok, err)
	}
	if m.Config.Check.MaxDiagnostics != DefaultMaxDiagnostics {
		t.Fatalf("expected default max diagnostics %d, got %d", DefaultMaxDiagnostics, m.Config.Check.MaxDiagnostics)
	}
}

func TestLoadManifestPreservesExplicitMaxDiagnostics(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname=\"demo\"\n[check]\npaths=[\"src\"]\nmax_diagnostics=7\n")
	m, ok, err := LoadManifest(dir)
	if err != nil || !ok {
		t.Fatalf("expected a manifest, got ok=%v err=%v", ok, err)
	}
	if m.Config.Check.MaxDiagnostics != 7 {
		t.Fatalf("expected explicit max diagnostics 7, got %d", m.Config.Check.MaxDiagnostics)
	}
}

func TestDiscoverModuleFilesWalksDirectoriesAndSorts(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	nested := filepath.Join(src, "nested")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeManifest(t, root, "[package]\nname=\"demo\"\n[check]\npaths=[\"src\"]\n")

	must := func(path, content string) {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	must(filepath.Join(src, "b.module.mp"), "b")
	must(filepath.Join(nested, "a.module.mp"), "a")
	must(filepath.Join(src, "ignore.txt"), "not a module")

	m, ok, err := LoadManifest(root)
	if err != nil || !ok {
		t.Fatalf("expected a manifest, got ok=%v err=%v", ok, err)
	}
	files, err := DiscoverModuleFiles(m)
	if err != nil {
		t.Fatalf("DiscoverModuleFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 module files, got %v", files)
	}
	if files[0] != filepath.Join(nested, "a.module.mp") || files[1] != filepath.Join(src, "b.module.mp") {
		t.Fatalf("expected sorted nested-then-flat order, got %v", files)
	}
}

func TestDiscoverModuleFilesRejectsNonModuleFileEntry(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname=\"demo\"\n[check]\npaths=[\"main.txt\"]\n")
	if err := os.WriteFile(filepath.Join(root, "main.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, ok, err := LoadManifest(root)
	if err != nil || !ok {
		t.Fatalf("expected a manifest, got ok=%v err=%v", ok, err)
	}
	if _, err := DiscoverModuleFiles(m); err == nil {
		t.Fatalf("expected an error for a non-%s path entry", ModuleFileExt)
	}
}
