package object

import (
	"errors"
	"fmt"
)

var (
	ErrFormat               = errors.New("malformed object header")
	ErrUnsupportedKind      = errors.New("unsupported object kind")
	ErrSizeMismatch         = errors.New("object size mismatch")
	ErrNotFound             = errors.New("object not found")
	ErrCorrupt              = errors.New("corrupt object")
	ErrKindMismatch         = errors.New("object kind mismatch")
	ErrPathKindMismatch     = errors.New("path kind mismatch")
	ErrNotADirectory        = errors.New("not a directory")
	ErrNotAFile             = errors.New("not a regular file")
	ErrUnsupportedEntryType = errors.New("unsupported directory entry type")
)

// IOError reports a filesystem failure together with the action and path
// that failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CorruptObjectError is returned by Store.Read when an object file exists
// but cannot be inflated or decoded. It matches ErrCorrupt as well as the
// codec error that caused it.
type CorruptObjectError struct {
	Hash Hash
	Err  error
}

func (e *CorruptObjectError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("object %s: %s: %v", e.Hash, ErrCorrupt, e.Err)
}

func (e *CorruptObjectError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *CorruptObjectError) Is(target error) bool {
	return target == ErrCorrupt
}

// PathKindError reports a build operation invoked on a path of the wrong
// filesystem type. Want is ErrNotADirectory or ErrNotAFile.
type PathKindError struct {
	Path string
	Want error
}

func (e *PathKindError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Want)
}

func (e *PathKindError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Want
}

func (e *PathKindError) Is(target error) bool {
	return target == ErrPathKindMismatch
}

// UnsupportedEntryError reports a directory entry that is neither a
// regular file nor a directory.
type UnsupportedEntryError struct {
	Path string
	Type string
}

func (e *UnsupportedEntryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s (%s)", e.Path, ErrUnsupportedEntryType, e.Type)
}

func (e *UnsupportedEntryError) Is(target error) bool {
	return target == ErrUnsupportedEntryType
}
