package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "drift-slr/0.1"). Per prd001-identification R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScreeningConfig holds thresholds for the relevance classifier.
// Defaults reproduce the review protocol; per prd003-screening R1.1-R1.3.
type ScreeningConfig struct {
	// MinScore is the inclusion threshold for the keyword score (default 3.0).
	MinScore float64 `json:"min_score" yaml:"min_score"`

	// YearMin is the first publication year inside the temporal window (default 2019).
	YearMin int `json:"year_min" yaml:"year_min"`

	// YearMax is the last publication year inside the temporal window (default 2025).
	YearMax int `json:"year_max" yaml:"year_max"`

	// Workers is the number of concurrent screening workers (default NumCPU).
	Workers int `json:"workers" yaml:"workers"`
}

// DedupConfig holds similarity thresholds for corpus deduplication.
// Per prd002-deduplication R2.1-R2.4.
type DedupConfig struct {
	// TitleSimilarity is the minimum normalized-title similarity for a
	// title+author duplicate match (default 0.85).
	TitleSimilarity float64 `json:"title_similarity" yaml:"title_similarity"`

	// AuthorOverlap is the minimum fraction of the smaller author set that
	// must appear in both papers (default 0.5).
	AuthorOverlap float64 `json:"author_overlap" yaml:"author_overlap"`

	// TitleOnlySimilarity is the stricter threshold used when either paper
	// lists no authors (default 0.95).
	TitleOnlySimilarity float64 `json:"title_only_similarity" yaml:"title_only_similarity"`
}

// SearchConfig holds settings for the identification stage.
// Per prd001-identification R1.2, R5.1-R5.5.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of merged results to return (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// EnableArxiv controls whether the arXiv backend is used.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnableCrossref controls whether the Crossref backend is used.
	EnableCrossref bool `json:"enable_crossref" yaml:"enable_crossref"`

	// CrossrefMailto is the contact email sent to Crossref for polite-pool
	// access. Optional but recommended.
	CrossrefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty"`

	// FromYear and ToYear bound the publication date filter passed to
	// backends that support one. Zero means unbounded.
	FromYear int `json:"from_year" yaml:"from_year"`
	ToYear   int `json:"to_year" yaml:"to_year"`

	// InterBackendDelay is the delay between API calls to different backends (default 1s).
	InterBackendDelay time.Duration `json:"inter_backend_delay" yaml:"inter_backend_delay"`
}

// StoreConfig holds settings for the screening database.
// Per prd004-paper-store R1.1, R6.2.
type StoreConfig struct {
	// DBPath is the SQLite database file path (default "data/review.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// ExportDir is the directory for CSV/JSON/YAML exports (default "data/exports").
	ExportDir string `json:"export_dir" yaml:"export_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// VerifyConfig holds parameters for the manual verification worklist.
// Per prd004-paper-store R5.1: borderline band plus top-scoring papers.
type VerifyConfig struct {
	// BorderlineLow and BorderlineHigh bound the score band queued for
	// manual review (defaults 2.5 and 3.5).
	BorderlineLow  float64 `json:"borderline_low" yaml:"borderline_low"`
	BorderlineHigh float64 `json:"borderline_high" yaml:"borderline_high"`

	// TopN is the number of highest-scoring papers always queued (default 20).
	TopN int `json:"top_n" yaml:"top_n"`
}

// FetchConfig holds settings for full-text PDF acquisition.
// Per prd006-fulltext R1.2, R3.1.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PapersDir is the base directory for papers (contains raw/).
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`
}

// ReportConfig holds settings for PRISMA flow reporting.
// Per prd005-reporting R2.2.
type ReportConfig struct {
	// DedupStatsPath is the path to the deduplication statistics JSON
	// written by the dedup stage; optional.
	DedupStatsPath string `json:"dedup_stats_path" yaml:"dedup_stats_path"`

	// StatsOut is the output path for the machine-readable stats document.
	StatsOut string `json:"stats_out" yaml:"stats_out"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Dedup     DedupConfig     `json:"dedup" yaml:"dedup"`
	Screening ScreeningConfig `json:"screening" yaml:"screening"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Verify    VerifyConfig    `json:"verify" yaml:"verify"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Report    ReportConfig    `json:"report" yaml:"report"`
}

// DefaultConfig returns the pipeline configuration with the review
// protocol's defaults.
func DefaultConfig() PipelineConfig {
	http := HTTPConfig{Timeout: 60 * time.Second, UserAgent: "drift-slr/0.1"}
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig:        http,
			MaxResults:        50,
			EnableArxiv:       true,
			EnableCrossref:    true,
			FromYear:          2019,
			ToYear:            2025,
			InterBackendDelay: time.Second,
		},
		Dedup: DedupConfig{
			TitleSimilarity:     0.85,
			AuthorOverlap:       0.5,
			TitleOnlySimilarity: 0.95,
		},
		Screening: ScreeningConfig{MinScore: 3.0, YearMin: 2019, YearMax: 2025},
		Store:     StoreConfig{DBPath: "data/review.db", ExportDir: "data/exports", MaxResults: 50},
		Verify:    VerifyConfig{BorderlineLow: 2.5, BorderlineHigh: 3.5, TopN: 20},
		Fetch: FetchConfig{
			HTTPConfig:    http,
			PapersDir:     "papers",
			DownloadDelay: time.Second,
		},
	}
}
