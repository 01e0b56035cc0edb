package config

import (
	"path/filepath"
)

// CfgPath is a path from the config file. Relative paths are relative to
// the directory holding the config file.
type CfgPath string

func (c CfgPath) Resolve(base string) CfgPath {
	p := string(c)
	if p == "" || filepath.IsAbs(p) {
		return c
	}
	return CfgPath(filepath.Join(base, p))
}

func (c CfgPath) String() string {
	return string(c)
}
