// Package assets serves the page's static files, either from the binary or
// from a directory on disk during development.
package assets

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/katariyakhushi/umbrella-customiser/web"
)

// FS returns the static asset tree. An empty dir selects the embedded copy.
func FS(dir string) (fs.FS, error) {
	if dir == "" {
		sub, err := fs.Sub(web.FS, "static")
		if err != nil {
			return nil, fmt.Errorf("embedded assets: %w", err)
		}
		return sub, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("assets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets directory %q is not a directory", dir)
	}
	return os.DirFS(dir), nil
}
