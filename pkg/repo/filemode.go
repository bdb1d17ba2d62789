package repo

import (
	"io/fs"

	"github.com/odvcencio/grit/pkg/object"
)

// modeFromType maps a directory entry type to its tree mode. Every regular
// file is recorded as ModeFile regardless of permission bits; anything that
// is neither a regular file nor a directory is rejected.
func modeFromType(path string, t fs.FileMode) (string, error) {
	switch {
	case t.IsDir():
		return object.ModeDir, nil
	case t.IsRegular():
		return object.ModeFile, nil
	default:
		return "", &object.UnsupportedEntryError{Path: path, Type: describeType(t)}
	}
}

func describeType(t fs.FileMode) string {
	switch {
	case t&fs.ModeSymlink != 0:
		return "symlink"
	case t&fs.ModeNamedPipe != 0:
		return "named pipe"
	case t&fs.ModeSocket != 0:
		return "socket"
	case t&fs.ModeCharDevice != 0:
		return "character device"
	case t&fs.ModeDevice != 0:
		return "device"
	default:
		return "irregular file"
	}
}
