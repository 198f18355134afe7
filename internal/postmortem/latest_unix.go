//go:build unix

package postmortem

import (
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/spf13/afero"
)

// linkLatest atomically repoints link at target. Only the OS file system has
// links; other file systems are left alone.
func linkLatest(fs afero.Fs, link, target string) error {
	if _, ok := fs.(*afero.OsFs); !ok {
		return nil
	}
	return renameio.Symlink(filepath.Base(target), link)
}
