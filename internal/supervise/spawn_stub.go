//go:build !unix && !windows

package supervise

import "github.com/hugo-lorenzo-mato/postmortem/internal/core"

// DefaultSpawner refuses to spawn: this platform has no process creation.
var DefaultSpawner Spawner = unsupportedSpawner{}

type unsupportedSpawner struct{}

func (unsupportedSpawner) Spawn(path string, _ []string, _ SpawnOptions) (Child, error) {
	return nil, core.ErrUnsupported(core.CodeSpawnFailed, "process creation is unsupported on this platform: "+path)
}
