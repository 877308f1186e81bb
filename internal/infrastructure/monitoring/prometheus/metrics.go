package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
)

// Run status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Element label values.
const (
	ElementHelix = "helix"
	ElementSheet = "sheet"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// Synthesis
	RunsTotal          CounterVec
	RunDuration        HistogramVec
	BondsTotal         CounterVec
	BondsExcludedTotal CounterVec
	BondLength         HistogramVec
	DiagnosticsTotal   CounterVec

	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultRunDurationBuckets  = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30}

	// BondLengthBuckets spans the H...O and N...O ranges in Ångström.
	BondLengthBuckets = []float64{1.5, 1.75, 2.0, 2.25, 2.5, 2.75, 3.0, 3.25, 3.5, 4.0, 5.0}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.RunsTotal = collector.RegisterCounter("runs_total", "Synthesis runs by outcome", "status")
	m.RunDuration = collector.RegisterHistogram("run_duration_seconds", "Synthesis run duration", DefaultRunDurationBuckets)
	m.BondsTotal = collector.RegisterCounter("bonds_total", "Hydrogen bonds defined", "element")
	m.BondsExcludedTotal = collector.RegisterCounter("bonds_excluded_total", "Hydrogen bonds excluded as outliers")
	m.BondLength = collector.RegisterHistogram("bond_length_angstrom", "Measured donor-acceptor distance", BondLengthBuckets)
	m.DiagnosticsTotal = collector.RegisterCounter("diagnostics_total", "Recoverable synthesis conditions", "kind")

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests")

	// zero series show up on the first scrape
	for _, k := range hbond.AllKinds {
		m.DiagnosticsTotal.WithLabelValues(string(k)).Add(0)
	}
	m.RunsTotal.WithLabelValues(StatusOK).Add(0)
	m.RunsTotal.WithLabelValues(StatusError).Add(0)
	return m
}

// NewNopAppMetrics returns metrics that record nothing.
func NewNopAppMetrics() *AppMetrics {
	return &AppMetrics{
		RunsTotal:           noopCounterVec{},
		RunDuration:         noopHistogramVec{},
		BondsTotal:          noopCounterVec{},
		BondsExcludedTotal:  noopCounterVec{},
		BondLength:          noopHistogramVec{},
		DiagnosticsTotal:    noopCounterVec{},
		HTTPRequestsTotal:   noopCounterVec{},
		HTTPRequestDuration: noopHistogramVec{},
		HTTPActiveRequests:  noopGaugeVec{},
	}
}

// Helpers

// RecordRun records one synthesis call.  res is ignored when err is set.
func RecordRun(metrics *AppMetrics, res *hbond.Result, err error, duration time.Duration) {
	metrics.RunDuration.WithLabelValues().Observe(duration.Seconds())
	if err != nil || res == nil {
		metrics.RunsTotal.WithLabelValues(StatusError).Inc()
		return
	}
	metrics.RunsTotal.WithLabelValues(StatusOK).Inc()
	metrics.BondsTotal.WithLabelValues(ElementHelix).Add(float64(res.HelixBonds))
	metrics.BondsTotal.WithLabelValues(ElementSheet).Add(float64(res.SheetBonds))
	metrics.BondsExcludedTotal.WithLabelValues().Add(float64(res.Summary().Excluded))
	lengths := metrics.BondLength.WithLabelValues()
	for _, l := range res.Table.Lengths {
		lengths.Observe(l)
	}
	for kind, n := range hbond.CountByKind(res.Diagnostics) {
		metrics.DiagnosticsTotal.WithLabelValues(string(kind)).Add(float64(n))
	}
}

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
