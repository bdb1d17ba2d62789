package object

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
//
// Files hold the zlib-compressed framed object. The store takes no locks:
// two writers of the same content produce the same bytes at the same path.
type Store struct {
	dir   string
	level int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCompressionLevel sets the zlib level used by Write. Invalid levels
// fall back to DefaultCompression.
func WithCompressionLevel(level int) StoreOption {
	return func(s *Store) {
		if ValidCompressionLevel(level) {
			s.level = level
		}
	}
}

// NewStore creates a Store over the given objects directory. Fan-out
// directories are created lazily on first write.
func NewStore(dir string, opts ...StoreOption) *Store {
	s := &Store{dir: dir, level: DefaultCompression}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the objects directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the filesystem path for a given hash.
func (s *Store) Path(h Hash) string {
	hex := h.String()
	return filepath.Join(s.dir, hex[:2], hex[2:])
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) (bool, error) {
	_, err := os.Stat(s.Path(h))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &IOError{Op: "stat object", Path: s.Path(h), Err: err}
}

// Write stores obj and returns its hash. The compressed bytes go to a temp
// file in the fan-out directory which is then renamed into place, so
// readers never observe a partial object. Writing an object that already
// exists rewrites identical bytes.
func (s *Store) Write(obj *Object) (Hash, error) {
	if !obj.Kind.Valid() {
		return ZeroHash, fmt.Errorf("object write: %w: %s", ErrUnsupportedKind, obj.Kind)
	}
	h := obj.Hash()

	compressed, err := Deflate(obj.Encode(), s.level)
	if err != nil {
		return ZeroHash, fmt.Errorf("object write %s: %w", h, err)
	}

	dest := s.Path(h)
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ZeroHash, &IOError{Op: "object write mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return ZeroHash, &IOError{Op: "object write tmpfile", Path: dir, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return ZeroHash, &IOError{Op: "object write", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ZeroHash, &IOError{Op: "object write close", Path: tmpName, Err: err}
	}
	if err := os.Chmod(tmpName, 0o444); err != nil {
		os.Remove(tmpName)
		return ZeroHash, &IOError{Op: "object write chmod", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return ZeroHash, &IOError{Op: "object write rename", Path: dest, Err: err}
	}

	return h, nil
}

// Read retrieves an object by hash. A missing file is ErrNotFound; a file
// that cannot be inflated or decoded is a *CorruptObjectError.
func (s *Store) Read(h Hash) (*Object, error) {
	path := s.Path(h)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("object %s: %w", h, ErrNotFound)
		}
		return nil, &IOError{Op: "object read", Path: path, Err: err}
	}
	defer f.Close()

	obj, err := ReadCompressed(bufio.NewReader(f))
	if err != nil {
		return nil, &CorruptObjectError{Hash: h, Err: err}
	}
	return obj, nil
}

// Walk calls fn for every loose object in fan-out order. Temp files and
// names that are not object paths are skipped.
func (s *Store) Walk(fn func(Hash) error) error {
	fanouts, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &IOError{Op: "walk objects", Path: s.dir, Err: err}
	}
	for _, fanout := range fanouts {
		if !fanout.IsDir() || len(fanout.Name()) != 2 {
			continue
		}
		sub := filepath.Join(s.dir, fanout.Name())
		entries, err := os.ReadDir(sub)
		if err != nil {
			return &IOError{Op: "walk objects", Path: sub, Err: err}
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			h, err := ParseHash(fanout.Name() + entry.Name())
			if err != nil {
				continue
			}
			if err := fn(h); err != nil {
				return err
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	obj, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	b, err := obj.AsBlob()
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return b, nil
}

// ReadTree reads and deserializes a Tree.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	obj, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	tr, err := obj.AsTree()
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return tr, nil
}

// ReadCommit reads and deserializes a Commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	obj, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	c, err := obj.AsCommit()
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}
