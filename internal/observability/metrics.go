package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scalametrics_parse_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"dialect"})

	FilesAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scalametrics_files_analyzed_total",
		Help: "Total number of source files analyzed.",
	})

	FilesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scalametrics_files_skipped_total",
		Help: "Total number of source files skipped due to parse failures.",
	})

	DeclarationsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scalametrics_declarations_analyzed_total",
		Help: "Total number of declarations measured.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scalametrics_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scalametrics_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scalametrics_rescans_total",
		Help: "Total number of rescans triggered by watch mode.",
	})

	SnapshotWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scalametrics_snapshot_write_errors_total",
		Help: "Total number of history snapshot writes that failed.",
	})

	ProjectComplexityMax = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scalametrics_project_complexity_max",
		Help: "Highest declaration complexity observed in the last scan.",
	})

	ProjectDocCoverage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scalametrics_project_doc_coverage_pct",
		Help: "Documentation coverage of the last scan, in percent.",
	})
)
