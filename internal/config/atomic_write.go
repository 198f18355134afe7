package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfigExists is returned by WriteDefault when the file is already there
// and force is false.
var ErrConfigExists = errors.New("config file already exists")

// AtomicWrite writes data to path atomically, keeping the permissions of an
// existing file. New files are created 0600.
func AtomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	perm := os.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return atomicWriteFile(path, data, perm)
}

// WriteDefault writes DefaultConfigYAML to path. An existing file is only
// replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("checking config: %w", err)
		}
	}
	if err := AtomicWrite(path, []byte(DefaultConfigYAML)); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
