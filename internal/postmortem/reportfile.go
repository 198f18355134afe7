package postmortem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"

	"github.com/hugo-lorenzo-mato/postmortem/internal/core"
)

// ReportBaseName is the collision-free name of a report file:
// <prefix>_<prog>.<pid>. Collisions append ".<n>".
func ReportBaseName(prefix, prog string, pid int) string {
	return prefix + "_" + prog + "." + strconv.Itoa(pid)
}

// CreateReportFile creates a new report file in dir with exclusive-create
// semantics and owner-only permissions. On a name collision it retries with
// suffixes .1 through .maxSuffix, then gives up with a resource error.
func CreateReportFile(fs afero.Fs, dir, prefix, prog string, pid, maxSuffix int) (afero.File, string, error) {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return nil, "", fmt.Errorf("creating report dir: %w", err)
	}

	base := filepath.Join(dir, ReportBaseName(prefix, prog, pid))
	path := base
	for n := 0; ; n++ {
		if n > 0 {
			path = base + "." + strconv.Itoa(n)
		}
		f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("creating report file: %w", err)
		}
		if n >= maxSuffix {
			return nil, "", core.ErrResource(core.CodeNameSpaceExceeded,
				"report names exhausted for "+base).WithDetail("max_suffix", maxSuffix)
		}
	}
}
