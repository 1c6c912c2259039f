package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dataset metrics
var (
	// PartitionLoadsTotal tracks dataset loads by scope ("year" or "all") and status
	PartitionLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clima_partition_loads_total",
			Help: "Total number of dataset loads",
		},
		[]string{"scope", "status"},
	)

	// PartitionLoadDuration tracks how long a full read of the requested partitions takes
	PartitionLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clima_partition_load_duration_seconds",
			Help:    "Duration of dataset loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scope"},
	)

	// RecordsLoaded tracks the rows produced by the most recent load per scope
	RecordsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clima_records_loaded",
			Help: "Number of records returned by the last load",
		},
		[]string{"scope"},
	)

	// RowsRejectedTotal tracks rows dropped because their date did not parse
	RowsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clima_rows_rejected_total",
			Help: "Total number of rows rejected for an unparseable date",
		},
	)

	// CacheHitsTotal tracks partition cache lookups
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clima_cache_lookups_total",
			Help: "Partition cache lookups by result",
		},
		[]string{"result"},
	)
)

// Question metrics
var (
	// QuestionsTotal tracks answered questions by intent, mode and outcome
	QuestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clima_questions_total",
			Help: "Total number of questions answered",
		},
		[]string{"intent", "mode", "outcome"},
	)

	// AnswerDuration tracks the time to answer a question
	AnswerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clima_answer_duration_seconds",
			Help:    "Duration of answering a question in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
)

// Database metrics
var (
	// DBQueriesTotal tracks the total number of database queries
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries executed",
		},
		[]string{"query_type", "table", "status"},
	)

	// DBQueryDuration tracks the duration of database queries
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type", "table"},
	)

	// DBConnectionsOpen tracks the number of open database connections
	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of established connections both in use and idle",
		},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of connections currently in use",
		},
	)

	// AppStartTime records when the application started
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clima_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppStartTime.SetToCurrentTime()
}

// RecordLoad records one dataset load
func RecordLoad(scope string, duration time.Duration, records int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	PartitionLoadsTotal.WithLabelValues(scope, status).Inc()
	PartitionLoadDuration.WithLabelValues(scope).Observe(duration.Seconds())
	if err == nil {
		RecordsLoaded.WithLabelValues(scope).Set(float64(records))
	}
}

// RecordRejectedRows adds n rejected rows
func RecordRejectedRows(n int) {
	RowsRejectedTotal.Add(float64(n))
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheHitsTotal.WithLabelValues(result).Inc()
}

// RecordQuestion records one answered question. outcome is "answered",
// "missing_params", "unrecognized" or "error".
func RecordQuestion(intent, mode, outcome string, duration time.Duration) {
	QuestionsTotal.WithLabelValues(intent, mode, outcome).Inc()
	AnswerDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordDBQuery records a database query execution
func RecordDBQuery(queryType, table string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DBQueriesTotal.WithLabelValues(queryType, table, status).Inc()
	DBQueryDuration.WithLabelValues(queryType, table).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(open, inUse int) {
	DBConnectionsOpen.Set(float64(open))
	DBConnectionsInUse.Set(float64(inUse))
}
