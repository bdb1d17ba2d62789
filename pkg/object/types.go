package object

import "fmt"

// Kind identifies the type of a stored object. The set is closed: every
// switch over Kind handles KindBlob, KindTree and KindCommit and treats
// anything else as invalid.
type Kind uint8

const (
	KindBlob Kind = iota + 1
	KindTree
	KindCommit
)

// String returns the header token for k.
func (k Kind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindTree:
		return "tree"
	case KindCommit:
		return "commit"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBlob, KindTree, KindCommit:
		return true
	default:
		return false
	}
}

// ParseKind maps a header token to its Kind.
func ParseKind(token string) (Kind, error) {
	switch token {
	case "blob":
		return KindBlob, nil
	case "tree":
		return KindTree, nil
	case "commit":
		return KindCommit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, token)
	}
}

const (
	// Tree mode strings. Subtrees use the unpadded five-character form.
	ModeFile       = "100644"
	ModeExecutable = "100755"
	ModeSymlink    = "120000"
	ModeDir        = "40000"
	ModeSubmodule  = "160000"

	// modeDirPadded is accepted on read and normalized to ModeDir.
	modeDirPadded = "040000"
)

// Object is the unit of storage: a kind plus its raw payload. The header
// is derived from both and never stored on the struct.
type Object struct {
	Kind    Kind
	Payload []byte
}

// New returns an Object holding a private copy of payload.
func New(kind Kind, payload []byte) *Object {
	out := make([]byte, len(payload))
	copy(out, payload)
	return &Object{Kind: kind, Payload: out}
}

// Size returns the payload length, excluding the header.
func (o *Object) Size() int {
	return len(o.Payload)
}

// Hash returns the content digest of the framed object.
func (o *Object) Hash() Hash {
	return HashObject(o.Kind, o.Payload)
}

// Encode returns the framed bytes "kind len\0payload".
func (o *Object) Encode() []byte {
	return Encode(o.Kind, o.Payload)
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Mode string
	Name string
	Hash Hash
}

// IsDir reports whether the entry refers to a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Mode == ModeDir
}

// Kind returns the kind of object the entry points at. Submodule entries
// point at commits in another repository.
func (e TreeEntry) Kind() Kind {
	switch e.Mode {
	case ModeDir:
		return KindTree
	case ModeSubmodule:
		return KindCommit
	default:
		return KindBlob
	}
}

// Tree holds a list of entries sorted by name.
type Tree struct {
	Entries []TreeEntry
}

// Commit is a snapshot pointing at a tree and at most one parent.
type Commit struct {
	Tree      Hash
	Parent    *Hash
	Author    string
	Committer string
	Message   string
}
