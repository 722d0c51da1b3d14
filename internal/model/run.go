package model

import "time"

// RunRecord describes the last tox invocation made for a work directory.
type RunRecord struct {
	Mode      Mode          `yaml:"mode"`
	ToxConfig Path          `yaml:"tox_config"`
	Extra     string        `yaml:"extra,omitempty"`
	StartedAt time.Time     `yaml:"started_at"`
	Duration  time.Duration `yaml:"duration"`
	ExitCode  int           `yaml:"exit_code"`
}

// Passed reports whether the recorded run succeeded.
func (r RunRecord) Passed() bool {
	return r.ExitCode == 0
}

// CoverageSummary mirrors the summary block of a coverage.py JSON report.
type CoverageSummary struct {
	NumStatements  int     `json:"num_statements"`
	MissingLines   int     `json:"missing_lines"`
	CoveredLines   int     `json:"covered_lines"`
	PercentCovered float64 `json:"percent_covered"`
}

// CoverageFile holds the per-file section of a coverage.py JSON report.
type CoverageFile struct {
	Summary CoverageSummary `json:"summary"`
}

// CoverageReport is the subset of coverage.py's JSON report pyrig renders.
type CoverageReport struct {
	Files  map[string]CoverageFile `json:"files"`
	Totals CoverageSummary         `json:"totals"`
}
