package postmortem

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// LatestSuffix names the link to the newest report of a program.
const LatestSuffix = ".latest"

func latestLinkPath(dir, prefix, prog string) string {
	return filepath.Join(dir, prefix+"_"+prog+LatestSuffix)
}

// LatestReport returns the newest report for prog in dir. It follows the
// latest link when the file system supports links and falls back to the
// newest matching file by modification time.
func LatestReport(fs afero.Fs, dir, prefix, prog string) (string, error) {
	link := latestLinkPath(dir, prefix, prog)
	if lr, ok := fs.(afero.LinkReader); ok {
		if target, err := lr.ReadlinkIfPossible(link); err == nil {
			if !filepath.IsAbs(target) {
				target = filepath.Join(dir, target)
			}
			if _, err := fs.Stat(target); err == nil {
				return target, nil
			}
		}
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", fmt.Errorf("reading report dir: %w", err)
	}
	stem := prefix + "_" + prog + "."
	var newest string
	var newestTime time.Time
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, stem) || !isReportTail(name[len(stem):]) {
			continue
		}
		if newest == "" || e.ModTime().After(newestTime) {
			newest = name
			newestTime = e.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no reports for %s in %s", prog, dir)
	}
	return filepath.Join(dir, newest), nil
}

// isReportTail accepts the part of a report name after "<prefix>_<prog>.":
// "<pid>" or "<pid>.<suffix>", digits only. Anything else belongs to another
// program whose name extends prog with a dot, or is the latest link.
func isReportTail(tail string) bool {
	pid, suffix, found := strings.Cut(tail, ".")
	return allDigits(pid) && (!found || allDigits(suffix))
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
