package object

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSumKnownVector(t *testing.T) {
	if got := Sum(nil).String(); got != "da39a3ee5e6b4b0d3255bfef95601890afd80709" {
		t.Fatalf("Sum(empty) = %s", got)
	}
}

func TestHashObjectKnownVectors(t *testing.T) {
	tests := []struct {
		kind    Kind
		payload string
		want    string
	}{
		{KindBlob, "Hello World\n", "557db03de997c86a4a028e1ebd3a1ceb225be238"},
		{KindTree, "", "4b825dc642cb6eb9a060e54bf8d69288fbee4904"},
		{KindBlob, "", "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
	}
	for _, tc := range tests {
		if got := HashObject(tc.kind, []byte(tc.payload)).String(); got != tc.want {
			t.Errorf("HashObject(%s, %q) = %s, want %s", tc.kind, tc.payload, got, tc.want)
		}
	}
}

func TestHashObjectMatchesFramedSum(t *testing.T) {
	obj := NewBlob([]byte("hello"))
	if obj.Hash() != Sum(obj.Encode()) {
		t.Fatal("HashObject differs from Sum over the framed bytes")
	}
}

func TestHashObjectSensitivity(t *testing.T) {
	data := []byte("hello")
	h1 := HashObject(KindBlob, data)
	if h1 != HashObject(KindBlob, data) {
		t.Error("HashObject not deterministic")
	}
	if h1 == Sum(data) {
		t.Error("HashObject should differ from Sum due to envelope")
	}
	if h1 == HashObject(KindCommit, data) {
		t.Error("Different kinds should produce different hashes")
	}
	if h1 == HashObject(KindBlob, []byte("hellp")) {
		t.Error("Different payloads should produce different hashes")
	}
}

func TestParseHash(t *testing.T) {
	const hex = "557db03de997c86a4a028e1ebd3a1ceb225be238"
	h, err := ParseHash(hex)
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if h.String() != hex {
		t.Errorf("String = %s, want %s", h, hex)
	}
	upper, err := ParseHash("557DB03DE997C86A4A028E1EBD3A1CEB225BE238")
	if err != nil {
		t.Fatalf("ParseHash(upper): %v", err)
	}
	if upper != h {
		t.Error("upper-case hex parsed to a different hash")
	}
	for _, bad := range []string{"", "557db0", hex + "00", "zz7db03de997c86a4a028e1ebd3a1ceb225be238"} {
		if _, err := ParseHash(bad); err == nil {
			t.Errorf("ParseHash(%q) succeeded", bad)
		}
	}
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "objects"))
}

// writeRaw places compressed bytes at the path for h, bypassing Write.
func writeRaw(t *testing.T, s *Store, h Hash, framed []byte) {
	t.Helper()
	compressed, err := Deflate(framed, DefaultCompression)
	if err != nil {
		t.Fatalf("Deflate: %v", err)
	}
	writeFile(t, s.Path(h), compressed)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestStoreWriteReadRoundTrip(t *testing.T) {
	s := tempStore(t)
	tree := NewTree(&Tree{Entries: []TreeEntry{
		{Mode: ModeFile, Name: "a.txt", Hash: HashObject(KindBlob, []byte("a"))},
	}})
	objects := []*Object{
		NewBlob([]byte("hello world")),
		NewBlob(nil),
		tree,
		NewTree(&Tree{}),
		NewCommit(&Commit{Tree: tree.Hash(), Author: "a", Committer: "c", Message: "msg"}),
	}
	for _, obj := range objects {
		h, err := s.Write(obj)
		if err != nil {
			t.Fatalf("Write(%s): %v", obj.Kind, err)
		}
		if h != obj.Hash() {
			t.Fatalf("Write returned %s, want %s", h, obj.Hash())
		}
		got, err := s.Read(h)
		if err != nil {
			t.Fatalf("Read(%s): %v", h, err)
		}
		if got.Kind != obj.Kind {
			t.Errorf("Kind: got %s, want %s", got.Kind, obj.Kind)
		}
		if got.Size() != obj.Size() {
			t.Errorf("Size: got %d, want %d", got.Size(), obj.Size())
		}
		if !bytes.Equal(got.Payload, obj.Payload) {
			t.Errorf("Payload: got %q, want %q", got.Payload, obj.Payload)
		}
	}
}

func TestStoreFanoutLayout(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(NewBlob([]byte("Hello World\n")))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	objPath := filepath.Join(s.Dir(), "55", "7db03de997c86a4a028e1ebd3a1ceb225be238")
	if s.Path(h) != objPath {
		t.Fatalf("Path = %s, want %s", s.Path(h), objPath)
	}
	if _, err := os.Stat(objPath); err != nil {
		t.Fatalf("expected fan-out file at %s: %v", objPath, err)
	}
	ok, err := s.Has(h)
	if err != nil || !ok {
		t.Fatalf("Has = %v, %v; want true, nil", ok, err)
	}
}

func TestStoreDuplicateWriteIsByteIdentical(t *testing.T) {
	s := tempStore(t)
	obj := NewBlob([]byte("duplicate"))
	h1, err := s.Write(obj)
	if err != nil {
		t.Fatalf("Write 1: %v", err)
	}
	first, err := os.ReadFile(s.Path(h1))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	h2, err := s.Write(obj)
	if err != nil {
		t.Fatalf("Write 2: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("duplicate write hashes differ: %s vs %s", h1, h2)
	}
	second, err := os.ReadFile(s.Path(h2))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("rewriting the same object changed the stored bytes")
	}
	entries, err := os.ReadDir(filepath.Dir(s.Path(h1)))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("fan-out dir holds %d entries, want 1 (temp files leaked?)", len(entries))
	}
}

func TestStoreCompressionLevelDoesNotChangeHash(t *testing.T) {
	obj := NewBlob(bytes.Repeat([]byte("level "), 100))
	fast := NewStore(filepath.Join(t.TempDir(), "objects"), WithCompressionLevel(1))
	best := NewStore(filepath.Join(t.TempDir(), "objects"), WithCompressionLevel(9))
	h1, err := fast.Write(obj)
	if err != nil {
		t.Fatalf("Write(fast): %v", err)
	}
	h2, err := best.Write(obj)
	if err != nil {
		t.Fatalf("Write(best): %v", err)
	}
	if h1 != h2 {
		t.Fatalf("hash depends on compression level: %s vs %s", h1, h2)
	}
	got, err := best.Read(h2)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got.Payload, obj.Payload) {
		t.Fatal("payload mismatch after level 9 round trip")
	}
}

func TestStoreWriteRejectsInvalidKind(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Write(&Object{Kind: Kind(42), Payload: []byte("x")}); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("Write error = %v, want %v", err, ErrUnsupportedKind)
	}
}

func TestStoreReadNotFound(t *testing.T) {
	s := tempStore(t)
	_, err := s.Read(HashObject(KindBlob, []byte("never written")))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read error = %v, want %v", err, ErrNotFound)
	}
	if errors.Is(err, ErrCorrupt) {
		t.Fatal("missing object reported as corrupt")
	}
}

func TestStoreReadCorrupt(t *testing.T) {
	tests := []struct {
		name   string
		framed string
		want   error
	}{
		{"truncated payload", "blob 10\x00abc", ErrSizeMismatch},
		{"trailing garbage", "blob 3\x00abcdef", ErrSizeMismatch},
		{"unknown kind", "tag 3\x00abc", ErrUnsupportedKind},
		{"bad header", "blob three\x00abc", ErrFormat},
	}
	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := tempStore(t)
			h := HashObject(KindBlob, []byte{byte(i)})
			writeRaw(t, s, h, []byte(tc.framed))

			obj, err := s.Read(h)
			if obj != nil {
				t.Fatalf("Read returned object %+v for corrupt file", obj)
			}
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("Read error = %v, want %v", err, ErrCorrupt)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Read error = %v, want %v", err, tc.want)
			}
			var corrupt *CorruptObjectError
			if !errors.As(err, &corrupt) || corrupt.Hash != h {
				t.Fatalf("Read error = %#v, want *CorruptObjectError for %s", err, h)
			}
		})
	}
}

func TestStoreReadNotCompressed(t *testing.T) {
	s := tempStore(t)
	h := HashObject(KindBlob, []byte("raw"))
	writeFile(t, s.Path(h), []byte("blob 3\x00raw"))
	if _, err := s.Read(h); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Read error = %v, want %v", err, ErrCorrupt)
	}
}

func TestStoreTypedReadKindMismatch(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(NewBlob([]byte("not a tree")))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := s.ReadTree(h); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("ReadTree error = %v, want %v", err, ErrKindMismatch)
	}
	if _, err := s.ReadCommit(h); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("ReadCommit error = %v, want %v", err, ErrKindMismatch)
	}
	b, err := s.ReadBlob(h)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(b.Data) != "not a tree" {
		t.Fatalf("ReadBlob data = %q", b.Data)
	}
}

func TestStoreWalk(t *testing.T) {
	s := tempStore(t)
	if err := s.Walk(func(Hash) error { return errors.New("called on empty store") }); err != nil {
		t.Fatalf("Walk on missing dir: %v", err)
	}

	want := make(map[Hash]bool)
	for _, data := range []string{"one", "two", "three"} {
		h, err := s.Write(NewBlob([]byte(data)))
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		want[h] = true
	}
	// Noise that Walk must skip.
	writeFile(t, filepath.Join(s.Dir(), "ab", ".tmp-123"), []byte("x"))
	writeFile(t, filepath.Join(s.Dir(), "info", "packs"), []byte("x"))

	got := make(map[Hash]bool)
	if err := s.Walk(func(h Hash) error {
		got[h] = true
		return nil
	}); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Walk visited %d objects, want %d", len(got), len(want))
	}
	for h := range want {
		if !got[h] {
			t.Errorf("Walk missed %s", h)
		}
	}

	stop := errors.New("stop")
	if err := s.Walk(func(Hash) error { return stop }); !errors.Is(err, stop) {
		t.Fatalf("Walk error = %v, want callback error", err)
	}
}

func TestReachableSet(t *testing.T) {
	s := tempStore(t)
	blob := NewBlob([]byte("leaf"))
	sub := NewTree(&Tree{Entries: []TreeEntry{{Mode: ModeFile, Name: "leaf.txt", Hash: blob.Hash()}}})
	root := NewTree(&Tree{Entries: []TreeEntry{{Mode: ModeDir, Name: "sub", Hash: sub.Hash()}}})
	first := NewCommit(&Commit{Tree: root.Hash(), Author: "a", Committer: "a", Message: "one"})
	parent := first.Hash()
	second := NewCommit(&Commit{Tree: root.Hash(), Parent: &parent, Author: "a", Committer: "a", Message: "two"})

	for _, obj := range []*Object{blob, sub, root, first, second} {
		if _, err := s.Write(obj); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	reachable, missing, err := s.ReachableSet([]Hash{second.Hash()})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
	for _, obj := range []*Object{blob, sub, root, first, second} {
		if _, ok := reachable[obj.Hash()]; !ok {
			t.Errorf("%s %s not reachable", obj.Kind, obj.Hash())
		}
	}

	if err := os.Remove(s.Path(blob.Hash())); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	_, missing, err = s.ReachableSet([]Hash{second.Hash()})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}
	if len(missing) != 1 || missing[0] != blob.Hash() {
		t.Fatalf("missing = %v, want [%s]", missing, blob.Hash())
	}
}
