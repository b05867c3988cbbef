// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of
// issues (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownStorageKinds lists the backends the binary registers. Unknown kinds
// are warnings for forward compatibility; storage.New still fails fast on a
// kind no backend registered.
var knownStorageKinds = map[string]struct{}{
	"sqlite":   {},
	"postgres": {},
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}

	if strings.TrimSpace(p.Source.RawDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.raw_dir",
			Message:  "source.raw_dir must not be empty",
		})
	}
	if strings.TrimSpace(p.Source.CleanDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.clean_dir",
			Message:  "source.clean_dir is empty; cleaned-batch artifacts will not be written",
		})
	}
	if p.Source.FirstYear != 0 && p.Source.LastYear != 0 && p.Source.LastYear < p.Source.FirstYear {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.last_year",
			Message: fmt.Sprintf("year range %d..%d is inverted",
				p.Source.FirstYear, p.Source.LastYear),
		})
	}
	if p.Source.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.workers",
			Message:  "source.workers must not be negative",
		})
	}

	kind := p.Storage.Kind
	if strings.TrimSpace(kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	} else if _, ok := knownStorageKinds[kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage.kind %q", kind),
		})
	}
	if strings.TrimSpace(p.Storage.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  "storage.dsn must not be empty",
		})
	}

	if p.Report.CacheTTLSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "report.cache_ttl_seconds",
			Message:  "report.cache_ttl_seconds must not be negative",
		})
	}
	for i, y := range p.Report.ForecastYears {
		if y < 1900 || y > 3000 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("report.forecast_years[%d]", i),
				Message:  fmt.Sprintf("forecast year %d looks implausible", y),
			})
		}
	}

	return issues
}
