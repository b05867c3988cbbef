// Package config defines the canonical, JSON-serializable configuration
// model for the ingestion pipeline. It is intentionally small, explicit, and
// dependency-free so that runs can be loaded from disk and passed through
// the program without additional glue code.
//
// Decoding is performed by the standard library; no third-party config
// libraries. Field names in Go mirror the JSON structure used in run files
// under configs/*.json.
package config

// Pipeline describes one full ingestion run. It is the top-level object
// decoded from a run file.
type Pipeline struct {
	// Job identifies the run for logging and metrics labeling.
	Job string `json:"job"`

	// Source describes where raw yearly extracts live and which years to
	// look for.
	Source Source `json:"source"`

	// Cleaning configures the record cleaner.
	Cleaning Cleaning `json:"cleaning"`

	// Storage describes the store the star schema is materialized into.
	Storage Storage `json:"storage"`

	// Report configures the read-side query service.
	Report Report `json:"report"`
}

// Source locates the raw extracts.
type Source struct {
	// RawDir is the directory holding amazon_india_<year>.csv files plus the
	// optional product catalog.
	RawDir string `json:"raw_dir"`

	// CleanDir receives the cleaned-batch CSV artifacts.
	CleanDir string `json:"clean_dir"`

	// FirstYear and LastYear bound the candidate year range, inclusive.
	// Zero values fall back to the built-in defaults.
	FirstYear int `json:"first_year"`
	LastYear  int `json:"last_year"`

	// Workers bounds concurrent per-year file loads. Zero picks a default.
	Workers int `json:"workers"`
}

// Cleaning configures the record cleaner.
type Cleaning struct {
	// KeepFirst keeps the earliest duplicate of a business key instead of
	// the default most-recent survivor.
	KeepFirst bool `json:"keep_first"`
}

// Storage selects the persisted store.
type Storage struct {
	// Kind selects the registered backend: "sqlite" (default) or "postgres".
	Kind string `json:"kind"`

	// DSN is the backend connection string: a file path for SQLite, a
	// postgresql:// URL for Postgres.
	DSN string `json:"dsn"`
}

// Report configures the read-side query service.
type Report struct {
	// CacheTTLSeconds bounds how long cached aggregates may be served.
	// Zero picks the service default.
	CacheTTLSeconds int `json:"cache_ttl_seconds"`

	// ForecastYears lists the future years the revenue forecast extrapolates
	// to.
	ForecastYears []int `json:"forecast_years"`
}
