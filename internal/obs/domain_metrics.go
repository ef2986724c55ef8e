package obs

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// InvoiceRenderTotal counts render attempts by outcome.
	InvoiceRenderTotal *prometheus.CounterVec
	// InvoiceRenderDuration records render latency in milliseconds.
	InvoiceRenderDuration *prometheus.HistogramVec
	// InvoicePages records the page count of rendered invoices.
	InvoicePages prometheus.Histogram
	// InvoiceViolationsTotal counts validation findings by kind and severity.
	InvoiceViolationsTotal *prometheus.CounterVec
	// RenderCacheTotal counts render cache lookups by result.
	RenderCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers invoice Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		m := newDomainMetrics(namespace)
		InvoiceRenderTotal = m.renderTotal
		InvoiceRenderDuration = m.renderDuration
		InvoicePages = m.pages
		InvoiceViolationsTotal = m.violationsTotal
		RenderCacheTotal = m.renderCacheTotal

		mustRegisterCollector(reg, InvoiceRenderTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				InvoiceRenderTotal = v
			}
		})
		mustRegisterCollector(reg, InvoiceRenderDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				InvoiceRenderDuration = v
			}
		})
		mustRegisterCollector(reg, InvoicePages, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				InvoicePages = v
			}
		})
		mustRegisterCollector(reg, InvoiceViolationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				InvoiceViolationsTotal = v
			}
		})
		mustRegisterCollector(reg, RenderCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				RenderCacheTotal = v
			}
		})
	})
}

type domainMetrics struct {
	renderTotal      *prometheus.CounterVec
	renderDuration   *prometheus.HistogramVec
	pages            prometheus.Histogram
	violationsTotal  *prometheus.CounterVec
	renderCacheTotal *prometheus.CounterVec
}

// newDomainMetrics builds the collectors. Names carry no prefix of their own;
// the namespace supplies it.
func newDomainMetrics(namespace string) domainMetrics {
	return domainMetrics{
		renderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_total",
			Help:      "Count of invoice render outcomes.",
		}, []string{"source", "result"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_ms",
			Help:      "Latency for invoice renders in milliseconds.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}, []string{"source"}),
		pages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pages",
			Help:      "Number of pages per rendered invoice.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		violationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Count of invoice validation findings.",
		}, []string{"kind", "severity"}),
		renderCacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_total",
			Help:      "Count of render cache lookups.",
		}, []string{"result"}),
	}
}

// ObserveRender records one render outcome. It is a no-op until the domain metrics are registered.
func ObserveRender(source, result string, elapsed time.Duration, pages int) {
	if InvoiceRenderTotal == nil {
		return
	}
	InvoiceRenderTotal.WithLabelValues(source, result).Inc()
	InvoiceRenderDuration.WithLabelValues(source).Observe(float64(elapsed.Microseconds()) / 1000)
	if pages > 0 {
		InvoicePages.Observe(float64(pages))
	}
}

// ObserveViolation counts one validation finding.
func ObserveViolation(kind, severity string) {
	if InvoiceViolationsTotal == nil {
		return
	}
	InvoiceViolationsTotal.WithLabelValues(kind, severity).Inc()
}

// ObserveRenderCache counts a cache lookup as "hit", "miss" or "error".
func ObserveRenderCache(result string) {
	if RenderCacheTotal == nil {
		return
	}
	RenderCacheTotal.WithLabelValues(result).Inc()
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
