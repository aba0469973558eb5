package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/fsutil"
)

// FS loads modules from a directory tree. A name `x` maps to every `.hcl`
// file below `root/x`, or to the single file `root/x.hcl`.
type FS struct {
	root string
}

// NewFS creates a loader rooted at the given directory.
func NewFS(root string) *FS {
	return &FS{root: root}
}

// ResolveAndLoad implements Loader.
func (l *FS) ResolveAndLoad(ctx context.Context, name string) (*Module, error) {
	logger := ctxlog.FromContext(ctx).With("module", name)
	if !validName(name) {
		return nil, fmt.Errorf("invalid module name %q: %w", name, ErrNotFound)
	}

	paths, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved module sources.", "count", len(paths))

	mod := &Module{Name: name, Sources: make([]Source, 0, len(paths))}
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading module %q: %w", name, err)
		}
		mod.Sources = append(mod.Sources, Source{Path: p, Bytes: b})
	}
	return mod, nil
}

func (l *FS) resolve(name string) ([]string, error) {
	dir := filepath.Join(l.root, filepath.FromSlash(name))
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		files, err := fsutil.FindFilesByExtension(dir, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("listing module %q: %w", name, err)
		}
		return files, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("accessing module %q: %w", name, err)
	}

	file := dir + ".hcl"
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		return []string{file}, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("accessing module %q: %w", name, err)
	}
	return nil, fmt.Errorf("module %q under %s: %w", name, l.root, ErrNotFound)
}
