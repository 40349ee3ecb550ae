package domain

import "slices"

// Kind identifies the category of asset being validated.
type Kind string

const (
	KindScript Kind = "script"
	KindMarkup Kind = "markup"
)

// AllKinds lists every kind in reporting order.
var AllKinds = []Kind{KindScript, KindMarkup}

// Severity of a diagnostic. Only errors fail a file.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one reported issue. Line 0 means the location is unknown,
// Column 0 means no column, and an empty RuleID means no rule produced it.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
	Message  string   `json:"message"`
	RuleID   string   `json:"rule_id,omitempty"`
}

// HasLocation reports whether the diagnostic points at a source line.
func (d Diagnostic) HasLocation() bool { return d.Line > 0 }

// FileResult is the outcome of validating a single file.
type FileResult struct {
	File        string       `json:"file"`
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NewFileResult derives validity from the diagnostics.
func NewFileResult(file string, diags []Diagnostic) FileResult {
	errs, _ := CountSeverities(diags)
	return FileResult{File: file, Valid: errs == 0, Diagnostics: diags}
}

// CountSeverities returns the number of error and warning diagnostics.
func CountSeverities(diags []Diagnostic) (errors, warnings int) {
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return
}

// RunSummary aggregates one kind's validation sweep.
type RunSummary struct {
	Kind         Kind         `json:"kind"`
	Root         string       `json:"root"`
	TotalFiles   int          `json:"total_files"`
	ErrorCount   int          `json:"error_count"`
	WarningCount int          `json:"warning_count"`
	Success      bool         `json:"success"`
	Files        []FileResult `json:"files,omitempty"`
	Failure      string       `json:"failure,omitempty"`
}

// Add folds a file result into the summary counts.
func (s *RunSummary) Add(r FileResult) {
	errs, warns := CountSeverities(r.Diagnostics)
	s.TotalFiles++
	s.ErrorCount += errs
	s.WarningCount += warns
	s.Files = append(s.Files, r)
}

// Finalize computes Success. An empty sweep fails: it signals a misconfigured root.
func (s *RunSummary) Finalize() {
	s.Success = s.Failure == "" && s.ErrorCount == 0 && s.TotalFiles > 0
}

// FailedRun builds the summary used when a run could not complete.
func FailedRun(kind Kind, root, failure string) *RunSummary {
	return &RunSummary{Kind: kind, Root: root, Failure: failure}
}

// SuiteVerdict combines the per-kind summaries.
type SuiteVerdict struct {
	PerKind        map[Kind]*RunSummary `json:"per_kind"`
	OverallSuccess bool                 `json:"overall_success"`
	Commit         string               `json:"commit,omitempty"`
}

// NewSuiteVerdict ANDs the success of every run. No runs is not a success.
func NewSuiteVerdict(runs []*RunSummary) *SuiteVerdict {
	v := &SuiteVerdict{PerKind: make(map[Kind]*RunSummary, len(runs))}
	v.OverallSuccess = len(runs) > 0
	for _, r := range runs {
		v.PerKind[r.Kind] = r
		if !r.Success {
			v.OverallSuccess = false
		}
	}
	return v
}

// Totals returns grand totals across kinds.
func (v *SuiteVerdict) Totals() (files, errors, warnings int) {
	for _, r := range v.PerKind {
		files += r.TotalFiles
		errors += r.ErrorCount
		warnings += r.WarningCount
	}
	return
}

// Runs returns the summaries in AllKinds order, followed by any other kinds.
func (v *SuiteVerdict) Runs() []*RunSummary {
	out := make([]*RunSummary, 0, len(v.PerKind))
	seen := make(map[Kind]bool, len(v.PerKind))
	for _, k := range AllKinds {
		if r, ok := v.PerKind[k]; ok {
			out = append(out, r)
			seen[k] = true
		}
	}
	var rest []string
	for k := range v.PerKind {
		if !seen[k] {
			rest = append(rest, string(k))
		}
	}
	slices.Sort(rest)
	for _, k := range rest {
		out = append(out, v.PerKind[Kind(k)])
	}
	return out
}
