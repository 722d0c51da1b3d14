package model

import (
	"errors"
	"fmt"
)

var (
	// ErrRootNotFound is returned when a project root passed on the command line does not exist.
	ErrRootNotFound = errors.New("root path error")
	// ErrCoverageDataMissing is returned when no coverage data file exists at the resolved path.
	ErrCoverageDataMissing = errors.New("coverage data file not found")
	// ErrNoWorkDir is returned when the tox work directory has not been created yet.
	ErrNoWorkDir = errors.New("no tox work directory")
	// ErrInvalidMode is returned for modes other than pkg and req.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidMapping is returned for malformed comma-separated mappings.
	ErrInvalidMapping = errors.New("invalid mapping item")
)

// ExitError reports that a wrapped tool exited with a non-zero status.
type ExitError struct {
	Tool string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}
