package metrics

import (
	"errors"
	"openrate/core"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics ledger transition metrics
type LedgerMetrics struct {
	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// AuditMetrics vault audit metrics
type AuditMetrics struct {
	discrepancy *prometheus.GaugeVec
	runs        *prometheus.CounterVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics

	auditOnce     sync.Once
	auditRegistry *AuditMetrics
)

// Ledger process wide ledger metrics
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "openrate_ledger_transitions_total",
				Help: "Ledger transitions by action and result.",
			}, []string{"action", "result"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "openrate_ledger_transition_seconds",
				Help:    "Ledger transition latency by action.",
				Buckets: prometheus.DefBuckets,
			}, []string{"action"}),
		}
		prometheus.MustRegister(ledgerRegistry.transitions, ledgerRegistry.duration)
	})
	return ledgerRegistry
}

// ObserveTransition count a committed or aborted transition
func (m *LedgerMetrics) ObserveTransition(action string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.transitions.WithLabelValues(action, resultOf(err)).Inc()
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

func resultOf(err error) string {
	if err == nil {
		return "ok"
	}

	var code core.ErrorCode
	if errors.As(err, &code) {
		return code.String()
	}

	return "internal"
}

// Audit process wide audit metrics
func Audit() *AuditMetrics {
	auditOnce.Do(func() {
		auditRegistry = &AuditMetrics{
			discrepancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "openrate_vault_discrepancy",
				Help: "Vault balance minus expected liquidity per market, zero when healthy.",
			}, []string{"market"}),
			runs: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "openrate_vault_audits_total",
				Help: "Vault audits by result.",
			}, []string{"result"}),
		}
		prometheus.MustRegister(auditRegistry.discrepancy, auditRegistry.runs)
	})
	return auditRegistry
}

// ObserveReport export the report of one market
func (m *AuditMetrics) ObserveReport(report *core.AuditReport) {
	if m == nil {
		return
	}

	diff := float64(report.Balance) - float64(report.Expected)
	m.discrepancy.WithLabelValues(report.MarketID).Set(diff)

	result := "healthy"
	if !report.Healthy() {
		result = "unhealthy"
	}

	m.runs.WithLabelValues(result).Inc()
}

// ObserveFailure count an audit that could not complete
func (m *AuditMetrics) ObserveFailure() {
	if m == nil {
		return
	}

	m.runs.WithLabelValues("failed").Inc()
}
