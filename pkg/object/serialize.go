package object

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// NewBlob returns a blob object holding a copy of data.
func NewBlob(data []byte) *Object {
	return New(KindBlob, data)
}

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// AsBlob returns the payload of a blob object.
func (o *Object) AsBlob() (*Blob, error) {
	if err := o.expect(KindBlob); err != nil {
		return nil, err
	}
	return UnmarshalBlob(o.Payload)
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// NewTree returns the tree object for tr.
func NewTree(tr *Tree) *Object {
	return &Object{Kind: KindTree, Payload: MarshalTree(tr)}
}

// MarshalTree serializes a Tree. Entries are sorted by name in byte order,
// which makes the tree hash independent of the order entries were added.
// Each entry is
//
//	<mode> <name>\0<20 raw digest bytes>
func MarshalTree(tr *Tree) []byte {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	size := 0
	for _, e := range sorted {
		size += len(e.Mode) + len(e.Name) + 2 + HashSize
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	for _, e := range sorted {
		buf.WriteString(treeModeOrDefault(e.Mode))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.Hash[:])
	}
	return buf.Bytes()
}

// UnmarshalTree parses a Tree from its serialized form. Entry order is
// preserved as stored.
func UnmarshalTree(data []byte) (*Tree, error) {
	tr := &Tree{}
	for len(data) > 0 {
		sp := bytes.IndexByte(data, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: entry without mode separator", ErrFormat)
		}
		mode, err := parseTreeMode(string(data[:sp]))
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		data = data[sp+1:]

		nul := bytes.IndexByte(data, 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: entry without name terminator", ErrFormat)
		}
		name := string(data[:nul])
		if name == "" || strings.ContainsRune(name, '/') {
			return nil, fmt.Errorf("unmarshal tree: %w: invalid entry name %q", ErrFormat, name)
		}
		data = data[nul+1:]

		if len(data) < HashSize {
			return nil, fmt.Errorf("unmarshal tree: %w: entry %q has truncated hash", ErrFormat, name)
		}
		var h Hash
		copy(h[:], data[:HashSize])
		data = data[HashSize:]

		tr.Entries = append(tr.Entries, TreeEntry{Mode: mode, Name: name, Hash: h})
	}
	return tr, nil
}

// AsTree parses the payload of a tree object.
func (o *Object) AsTree() (*Tree, error) {
	if err := o.expect(KindTree); err != nil {
		return nil, err
	}
	return UnmarshalTree(o.Payload)
}

func treeModeOrDefault(mode string) string {
	switch mode {
	case "":
		return ModeFile
	case modeDirPadded:
		return ModeDir
	default:
		return mode
	}
}

func parseTreeMode(mode string) (string, error) {
	switch mode {
	case ModeDir, modeDirPadded:
		return ModeDir, nil
	case ModeFile, ModeExecutable, ModeSymlink, ModeSubmodule:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrFormat, mode)
	}
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// NewCommit returns the commit object for c.
func NewCommit(c *Commit) *Object {
	return &Object{Kind: KindCommit, Payload: MarshalCommit(c)}
}

// MarshalCommit serializes a Commit:
//
//	tree H
//	parent H     (optional)
//	author A
//	committer C
//
//	message
//
// Hashes are rendered as hex, unlike tree entries.
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree)
	if c.Parent != nil {
		fmt.Fprintf(&buf, "parent %s\n", *c.Parent)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	fmt.Fprintf(&buf, "committer %s\n", c.Committer)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its serialized form. Headers it does
// not model (for example gpgsig blocks written by other tools) are skipped.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: %w: missing header/message separator", ErrFormat)
	}
	header := string(data[:idx])
	message := strings.TrimSuffix(string(data[idx+2:]), "\n")

	c := &Commit{Message: message}
	sawTree := false
	for _, line := range strings.Split(header, "\n") {
		if strings.HasPrefix(line, " ") {
			// continuation of a multi-line header value
			continue
		}
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: %w: malformed header line %q", ErrFormat, line)
		}
		switch key {
		case "tree":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: %w: %v", ErrFormat, err)
			}
			c.Tree = h
			sawTree = true
		case "parent":
			if c.Parent != nil {
				return nil, fmt.Errorf("unmarshal commit: %w: multiple parents", ErrFormat)
			}
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: %w: %v", ErrFormat, err)
			}
			c.Parent = &h
		case "author":
			c.Author = val
		case "committer":
			c.Committer = val
		}
	}
	if !sawTree {
		return nil, fmt.Errorf("unmarshal commit: %w: missing tree header", ErrFormat)
	}
	return c, nil
}

// AsCommit parses the payload of a commit object.
func (o *Object) AsCommit() (*Commit, error) {
	if err := o.expect(KindCommit); err != nil {
		return nil, err
	}
	return UnmarshalCommit(o.Payload)
}

func (o *Object) expect(kind Kind) error {
	if o.Kind != kind {
		return fmt.Errorf("%w: got %s, want %s", ErrKindMismatch, o.Kind, kind)
	}
	return nil
}
