package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FSStore serves objects from a local directory.
type FSStore struct {
	root string
	fsys fs.FS
}

// NewFSStore returns a store rooted at dir. The directory must exist.
func NewFSStore(dir string) (*FSStore, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open asset root: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("asset root %s is not a directory", dir)
	}
	return &FSStore{root: dir, fsys: os.DirFS(dir)}, nil
}

func (s *FSStore) Driver() Driver { return DriverFS }

func (s *FSStore) Get(_ context.Context, key string) (Info, io.ReadCloser, error) {
	info, err := s.stat(key)
	if err != nil {
		return Info{}, nil, err
	}
	f, err := s.fsys.Open(info.Key)
	if err != nil {
		return Info{}, nil, mapFSError(info.Key, err)
	}
	return info, f, nil
}

func (s *FSStore) Head(_ context.Context, key string) (Info, error) {
	return s.stat(key)
}

// List globs prefix + "**" and returns regular files in key order.
func (s *FSStore) List(_ context.Context, prefix string) ([]Info, error) {
	clean, err := cleanPrefix(prefix)
	if err != nil {
		return nil, err
	}

	pattern := "**"
	dir := clean
	if clean != "" && !strings.HasSuffix(clean, "/") {
		// A partial final segment matches like an S3 prefix.
		dir = path.Dir(clean)
		if dir == "." {
			dir = ""
		} else {
			dir += "/"
		}
	}
	if dir != "" {
		pattern = dir + "**"
	}

	matches, err := doublestar.Glob(s.fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}

	infos := make([]Info, 0, len(matches))
	for _, m := range matches {
		if !strings.HasPrefix(m, clean) {
			continue
		}
		info, err := s.stat(m)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (s *FSStore) stat(key string) (Info, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return Info{}, err
	}
	st, err := fs.Stat(s.fsys, clean)
	if err != nil {
		return Info{}, mapFSError(clean, err)
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("%w: %s is a directory", ErrNotFound, clean)
	}
	return Info{
		Key:          clean,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(strings.ToLower(path.Ext(clean))),
		LastModified: st.ModTime().UTC(),
	}, nil
}

func mapFSError(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return err
}
