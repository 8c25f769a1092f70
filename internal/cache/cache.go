package cache

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
	"boundcheck/internal/source"
)

// schemaVersion guards against decoding a payload written by a previous,
// incompatible layout of diagPayload.
const schemaVersion uint16 = 1

// DiskCache stores each module's diagnostic bag on disk, keyed by its
// content digest: an XDG_CACHE_HOME-rooted directory, one file per key
// under a "mods" subdirectory, sync.RWMutex-guarded, written atomically via
// a temp file plus rename.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a disk cache at the standard per-app cache location.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "mods", hex.EncodeToString(key[:])+".mp")
}

// diagPayload is the on-disk shape of a diag.Diagnostic. Every fixed-width
// field is widened to int64 so that a future schema revision can enlarge
// diag's own field widths without invalidating every cache entry ever
// written under the old, narrower ones; narrowing back to the runtime
// types happens explicitly at decode time via fortio.org/safecast.Conv,
// the same narrowing-conversion idiom used at interner slot-index
// boundaries elsewhere in this codebase.
type diagPayload struct {
	Severity int64
	Code     int64
	Message  string
	Primary  spanPayload
	Notes    []notePayload
	Fixes    []fixPayload
}

type spanPayload struct {
	File  int64
	Start int64
	End   int64
}

type notePayload struct {
	Span spanPayload
	Msg  string
}

type fixEditPayload struct {
	Span    spanPayload
	NewText string
}

type fixPayload struct {
	Title string
	Edits []fixEditPayload
}

// diskPayload is the top-level on-disk record for one module.
type diskPayload struct {
	Schema uint16
	Diags  []diagPayload
}

func spanToPayload(sp source.Span) spanPayload {
	return spanPayload{File: int64(sp.File), Start: int64(sp.Start), End: int64(sp.End)}
}

// payloadToSpan narrows the on-disk widened fields back into source.Span's
// uint32 fields, returning an error rather than silently truncating if a
// future producer ever wrote a value that no longer fits.
func payloadToSpan(sp spanPayload) (source.Span, error) {
	file, err := safecast.Conv[uint32](sp.File)
	if err != nil {
		return source.Span{}, err
	}
	start, err := safecast.Conv[uint32](sp.Start)
	if err != nil {
		return source.Span{}, err
	}
	end, err := safecast.Conv[uint32](sp.End)
	if err != nil {
		return source.Span{}, err
	}
	return source.Span{File: source.FileID(file), Start: start, End: end}, nil
}

func diagnosticToPayload(d diag.Diagnostic) diagPayload {
	notes := make([]notePayload, len(d.Notes))
	for i, n := range d.Notes {
		notes[i] = notePayload{Span: spanToPayload(n.Span), Msg: n.Msg}
	}
	fixes := make([]fixPayload, len(d.Fixes))
	for i, f := range d.Fixes {
		edits := make([]fixEditPayload, len(f.Edits))
		for j, e := range f.Edits {
			edits[j] = fixEditPayload{Span: spanToPayload(e.Span), NewText: e.NewText}
		}
		fixes[i] = fixPayload{Title: f.Title, Edits: edits}
	}
	return diagPayload{
		Severity: int64(d.Severity),
		Code:     int64(d.Code),
		Message:  d.Message,
		Primary:  spanToPayload(d.Primary),
		Notes:    notes,
		Fixes:    fixes,
	}
}

// payloadToDiagnostic narrows every widened field back to diag.Diagnostic's
// declared types. A decode failure here means the on-disk record no longer
// fits the runtime schema; the caller treats that the same as a cache miss.
func payloadToDiagnostic(p diagPayload) (diag.Diagnostic, error) {
	sev, err := safecast.Conv[uint8](p.Severity)
	if err != nil {
		return diag.Diagnostic{}, err
	}
	code, err := safecast.Conv[uint16](p.Code)
	if err != nil {
		return diag.Diagnostic{}, err
	}
	primary, err := payloadToSpan(p.Primary)
	if err != nil {
		return diag.Diagnostic{}, err
	}
	notes := make([]diag.Note, len(p.Notes))
	for i, n := range p.Notes {
		sp, err := payloadToSpan(n.Span)
		if err != nil {
			return diag.Diagnostic{}, err
		}
		notes[i] = diag.Note{Span: sp, Msg: n.Msg}
	}
	fixes := make([]diag.Fix, len(p.Fixes))
	for i, f := range p.Fixes {
		edits := make([]diag.FixEdit, len(f.Edits))
		for j, e := range f.Edits {
			sp, err := payloadToSpan(e.Span)
			if err != nil {
				return diag.Diagnostic{}, err
			}
			edits[j] = diag.FixEdit{Span: sp, NewText: e.NewText}
		}
		fixes[i] = diag.Fix{Title: f.Title, Edits: edits}
	}
	return diag.Diagnostic{
		Severity: diag.Severity(sev),
		Code:     diag.Code(code),
		Message:  p.Message,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	}, nil
}

// Lookup implements driver.Cache: a hit replays the stored diagnostics into
// a fresh Bag sized to hold exactly them, in the order Store wrote them.
func (c *DiskCache) Lookup(m *checkast.Module) (*diag.Bag, bool) {
	key := DigestModule(m)

	c.mu.RLock()
	f, err := os.Open(c.pathFor(key))
	c.mu.RUnlock()
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != schemaVersion {
		return nil, false
	}

	bag := diag.NewBag(len(payload.Diags))
	for _, dp := range payload.Diags {
		d, err := payloadToDiagnostic(dp)
		if err != nil {
			return nil, false
		}
		bag.Add(d)
	}
	return bag, true
}

// Store implements driver.Cache: writes bag's diagnostics under m's content
// digest, atomically (temp file plus rename), so a crash mid-write never
// leaves a corrupt cache entry for a concurrent reader to observe.
func (c *DiskCache) Store(m *checkast.Module, bag *diag.Bag) {
	key := DigestModule(m)
	items := bag.Items()
	diags := make([]diagPayload, len(items))
	for i, d := range items {
		diags[i] = diagnosticToPayload(d)
	}
	payload := diskPayload{Schema: schemaVersion, Diags: diags}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
	}
}

// DropAll removes every cached entry, for use after a schema bump.
func (c *DiskCache) DropAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := os.RemoveAll(c.dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
