package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBranch is the branch HEAD points at in a new repository.
const DefaultBranch = "master"

var (
	ErrRepoExists     = errors.New("repository already exists")
	ErrNotARepo       = errors.New("not a repository")
	ErrInvalidRefName = errors.New("invalid branch name")
)

func objectsPath(metaDir string) string {
	return filepath.Join(metaDir, "objects")
}

// Init creates a new repository at root. It creates the metadata directory
// structure: objects/, refs/heads/, HEAD pointing at the default branch,
// and the grit config file. Returns an error if the metadata directory
// already exists.
func Init(root string, opts ...Option) (*Repo, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := validateBranchName(o.defaultBranch); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	cfg := DefaultConfig()
	if o.compression != nil {
		cfg.Core.Compression = *o.compression
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	metaDir := filepath.Join(abs, o.metaDir)

	if _, err := os.Stat(metaDir); err == nil {
		return nil, fmt.Errorf("init: %w at %s", ErrRepoExists, metaDir)
	}

	dirs := []string{
		objectsPath(metaDir),
		filepath.Join(metaDir, "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(metaDir, "HEAD")
	head := "ref: refs/heads/" + o.defaultBranch + "\n"
	if err := os.WriteFile(headPath, []byte(head), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	if err := writeConfig(configPath(metaDir), cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	return newRepo(abs, metaDir, cfg, o), nil
}

// Open searches upward from path for the metadata directory and opens the
// repository. Returns ErrNotARepo if none is found.
func Open(path string, opts ...Option) (*Repo, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		metaDir := filepath.Join(cur, o.metaDir)
		info, err := os.Stat(metaDir)
		if err == nil && info.IsDir() {
			cfg, err := readConfig(configPath(metaDir))
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return newRepo(cur, metaDir, cfg, o), nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: %w (or any parent up to /): %s", ErrNotARepo, abs)
		}
		cur = parent
	}
}

// Head reads the default branch pointer. For a symbolic HEAD it returns the
// ref path (e.g. "refs/heads/master").
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.MetaDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")
	return strings.TrimPrefix(content, "ref: "), nil
}

func validateBranchName(name string) error {
	if name == "" || strings.HasPrefix(name, "-") || strings.HasPrefix(name, "/") ||
		strings.HasSuffix(name, "/") || strings.Contains(name, "..") ||
		strings.ContainsAny(name, " ~^:?*[\\\x00\n") {
		return fmt.Errorf("%w: %q", ErrInvalidRefName, name)
	}
	return nil
}
