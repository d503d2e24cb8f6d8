// Package source resolves asset references found in render descriptors to
// local image files, so previews can show real pictures instead of
// placeholders.
package source

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrAssetNotFound is returned when no local file matches a reference.
var ErrAssetNotFound = errors.New("asset not found")

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Assets looks references up by base name in one directory and caches
// decoded images. It is safe for concurrent use.
type Assets struct {
	dir string

	mu    sync.Mutex
	cache map[string]image.Image
}

func NewAssets(dir string) (*Assets, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("assets: %s is not a directory", dir)
	}
	return &Assets{dir: dir, cache: make(map[string]image.Image)}, nil
}

// List returns the image files of the directory, sorted.
func (a *Assets) List() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(a.dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Resolve maps a reference (URL or path) to a file in the directory. Only
// the last path element of the reference is used.
func (a *Assets) Resolve(ref string) (string, error) {
	name := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		name = u.Path
	}
	name = path.Base(filepath.ToSlash(name))
	if name == "." || name == "/" || !imageExts[strings.ToLower(path.Ext(name))] {
		return "", fmt.Errorf("%w: %q", ErrAssetNotFound, ref)
	}

	p := filepath.Join(a.dir, name)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("%w: %q", ErrAssetNotFound, ref)
	}
	return p, nil
}

// Image decodes the file behind ref, once per reference.
func (a *Assets) Image(ref string) (image.Image, error) {
	a.mu.Lock()
	img, ok := a.cache[ref]
	a.mu.Unlock()
	if ok {
		return img, nil
	}

	p, err := a.Resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err = image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}

	a.mu.Lock()
	a.cache[ref] = img
	a.mu.Unlock()
	return img, nil
}
