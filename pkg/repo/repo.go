package repo

import (
	"github.com/odvcencio/grit/pkg/object"
)

// DefaultMetaDir is the name of the metadata directory under the root.
const DefaultMetaDir = ".git"

// Repo represents an opened repository. It is the explicit context passed
// to every operation; nothing depends on the process working directory.
type Repo struct {
	RootDir    string        // working tree root
	MetaDir    string        // <root>/<meta>
	ObjectsDir string        // <root>/<meta>/objects
	Store      *object.Store // content-addressed object store
	Config     *Config
}

// Option customizes Init and Open.
type Option func(*options)

type options struct {
	metaDir       string
	defaultBranch string
	compression   *int
}

func defaultOptions() *options {
	return &options{
		metaDir:       DefaultMetaDir,
		defaultBranch: DefaultBranch,
	}
}

// WithMetaDir sets the metadata directory name (default ".git").
func WithMetaDir(name string) Option {
	return func(o *options) {
		if name != "" {
			o.metaDir = name
		}
	}
}

// WithDefaultBranch sets the branch HEAD points at after Init.
func WithDefaultBranch(name string) Option {
	return func(o *options) {
		if name != "" {
			o.defaultBranch = name
		}
	}
}

// WithCompressionLevel overrides the zlib level from the repository config.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		o.compression = &level
	}
}

func newRepo(root, metaDir string, cfg *Config, o *options) *Repo {
	level := cfg.Core.Compression
	if o.compression != nil {
		level = *o.compression
	}
	objectsDir := objectsPath(metaDir)
	return &Repo{
		RootDir:    root,
		MetaDir:    metaDir,
		ObjectsDir: objectsDir,
		Store:      object.NewStore(objectsDir, object.WithCompressionLevel(level)),
		Config:     cfg,
	}
}
