package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for settlement report creation and
// movement intake.
type Metrics struct {
	ReportsCreated       prometheus.Counter
	ReportFailures       *prometheus.CounterVec
	WiresPerReport       prometheus.Histogram
	WireVolume           prometheus.Counter
	MembersPerReport     prometheus.Histogram
	CreateReportDuration prometheus.Histogram
	MovementsRecorded    prometheus.Counter
	MovementsRejected    *prometheus.CounterVec
}

// New creates a Metrics instance registered with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ReportsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "consortium_settlement_reports_created_total",
			Help: "Total number of settlement reports persisted",
		}),
		ReportFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "consortium_settlement_report_failures_total",
			Help: "Settlement report creations that failed, by error code",
		}, []string{"code"}),
		WiresPerReport: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "consortium_settlement_wires_per_report",
			Help:    "Number of wire instructions emitted per report",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		WireVolume: f.NewCounter(prometheus.CounterOpts{
			Name: "consortium_settlement_wire_volume_coins_total",
			Help: "Sum of wire amounts emitted, in coin minor units",
		}),
		MembersPerReport: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "consortium_settlement_members_per_report",
			Help:    "Number of members with a net entry per report",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		CreateReportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "consortium_settlement_create_report_duration_seconds",
			Help:    "Duration of CreateReport including lock, fetch, netting and persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		MovementsRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "consortium_ledger_movements_recorded_total",
			Help: "Coin movements accepted for settlement",
		}),
		MovementsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "consortium_ledger_movements_rejected_total",
			Help: "Coin movements rejected at intake, by reason",
		}, []string{"reason"}),
	}
}

// ObserveReport records a persisted report's shape.
func (m *Metrics) ObserveReport(wires, members int, volume int64) {
	if m == nil {
		return
	}
	m.ReportsCreated.Inc()
	m.WiresPerReport.Observe(float64(wires))
	m.MembersPerReport.Observe(float64(members))
	m.WireVolume.Add(float64(volume))
}

func (m *Metrics) IncrementReportFailure(code string) {
	if m == nil {
		return
	}
	m.ReportFailures.WithLabelValues(code).Inc()
}

// ObserveCreateReport records the duration of a CreateReport call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreateReport(start time.Time) {
	if m == nil {
		return
	}
	m.CreateReportDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementMovementRecorded() {
	if m == nil {
		return
	}
	m.MovementsRecorded.Inc()
}

func (m *Metrics) IncrementMovementRejected(reason string) {
	if m == nil {
		return
	}
	m.MovementsRejected.WithLabelValues(reason).Inc()
}
