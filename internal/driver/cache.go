package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"cxxlint/internal/config"
	"cxxlint/internal/errors"
	"cxxlint/internal/rewrite"
	"cxxlint/internal/source"
)

// Bump when Entry or anything it embeds changes shape.
const cacheSchema uint16 = 1

// Digest is a SHA-256 sum.
type Digest [sha256.Size]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Cache stores analysis results on disk keyed by dump content and
// configuration. It is safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// OpenCache opens the cache in dir, or in the user cache directory when
// dir is empty.
func OpenCache(dir string) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate cache directory: %w", err)
		}
		dir = filepath.Join(base, "cxxlint")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the directory the cache lives in.
func (c *Cache) Dir() string {
	return c.dir
}

// Key identifies the result of analyzing text under cfg. Settings that
// cannot change the result are left out.
func Key(text string, cfg *config.Config) (Digest, error) {
	fp := *cfg
	fp.Path, fp.Jobs, fp.Cache = "", 0, ""
	enc, err := msgpack.Marshal(&fp)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to encode configuration: %w", err)
	}

	h := sha256.New()
	fmt.Fprintf(h, "cxxlint-cache-%d\x00", cacheSchema)
	h.Write(enc)
	h.Write([]byte{0})
	_, _ = io.WriteString(h, text)

	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "results", key.String()+".mp")
}

// Entry is one cached result. Files records the sources the result was
// computed from so that edits to them invalidate it.
type Entry struct {
	Schema      uint16
	Files       []CachedFile
	Diagnostics []errors.Diagnostic
	Edits       []rewrite.FileEdit
}

// CachedFile is a file of the dump's file table. Embedded text is kept;
// files read from disk are represented by their content hash, zero when
// they could not be read.
type CachedFile struct {
	Path string
	Text *string
	Hash Digest
}

// NewEntry captures r for caching.
func NewEntry(r *FileResult) *Entry {
	e := &Entry{Schema: cacheSchema, Diagnostics: r.Diagnostics, Edits: r.Edits}
	if r.Sources == nil {
		return e
	}
	for _, f := range r.Sources.Files() {
		cf := CachedFile{Path: f.Path, Text: f.Text}
		if f.Text == nil {
			cf.Hash = hashFile(r.Sources.ResolvePath(f.ID))
		}
		e.Files = append(e.Files, cf)
	}
	return e
}

func hashFile(path string) Digest {
	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the dump being analyzed
	if err != nil {
		return Digest{}
	}
	return sha256.Sum256(data)
}

// Fresh reports whether the entry was written by this schema and no file
// it was computed from has changed. baseDir resolves relative paths.
func (e *Entry) Fresh(baseDir string) bool {
	if e.Schema != cacheSchema {
		return false
	}
	for _, f := range e.Files {
		if f.Text != nil {
			continue
		}
		path := f.Path
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		if hashFile(path) != f.Hash {
			return false
		}
	}
	return true
}

// Result rebuilds a FileResult for the dump at path.
func (e *Entry) Result(path string) *FileResult {
	m := source.NewManager()
	m.SetBaseDir(filepath.Dir(path))
	for _, f := range e.Files {
		id := m.AddFile(f.Path, 0)
		if f.Text != nil {
			m.SetFileText(id, *f.Text)
		}
	}
	return &FileResult{
		Path:        path,
		Diagnostics: e.Diagnostics,
		Edits:       e.Edits,
		Sources:     m,
		Cached:      true,
	}
}

// Put writes an entry, replacing any previous one atomically.
func (c *Cache) Put(key Digest, e *Entry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(e); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Get reads the entry for key into out. ok is false when there is none.
func (c *Cache) Get(key Digest, out *Entry) (ok bool, err error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "results"))
}
