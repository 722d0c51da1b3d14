// Package model defines the data structures shared by the pyrig commands.
package model

import (
	"fmt"
	"strings"
)

// Path represents a file system path.
type Path string

// Mode selects which tox environment profile runs.
type Mode string

const (
	// ModePackage runs the project as an installed package.
	// Chosen when setup.py or pyproject.toml is present.
	ModePackage Mode = "pkg"

	// ModeRequirements installs requirements files only.
	ModeRequirements Mode = "req"
)

// PackageMarkers are the file names that make a directory a package.
var PackageMarkers = []string{"setup.py", "pyproject.toml"}

// ParseMode validates a user-supplied mode string.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.TrimSpace(value)) {
	case ModePackage:
		return ModePackage, nil
	case ModeRequirements:
		return ModeRequirements, nil
	}

	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidMode, value, ModePackage, ModeRequirements)
}

func (m Mode) String() string {
	return string(m)
}
