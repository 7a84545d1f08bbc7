// Package metrics expone los contadores del servicio de inventario en formato Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

const namespace = "almacen"

// Prometheus implementa inventory.Metrics sobre un registro propio.
type Prometheus struct {
	registry *prometheus.Registry

	recorded     *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	rebuilds     prometheus.Counter
	skipped      prometheus.Counter
	items        prometheus.Gauge
	lastRebuilds prometheus.Gauge
}

// NewPrometheus registra los colectores del servicio y los del proceso Go.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		recorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_recorded_total",
			Help:      "Operaciones anexadas al log, por tipo.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_rejected_total",
			Help:      "Operaciones rechazadas, por código de error.",
		}, []string{"code"}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Reconstrucciones de la proyección desde el log.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuild_skipped_operations_total",
			Help:      "Operaciones históricas omitidas al reconstruir.",
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_items",
			Help:      "Artículos con stock.",
		}),
		lastRebuilds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_rebuild_applied_operations",
			Help:      "Operaciones aplicadas en la última reconstrucción.",
		}),
	}
	reg.MustRegister(
		p.recorded, p.rejected, p.rebuilds, p.skipped, p.items, p.lastRebuilds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, k := range entity.Kinds() {
		p.recorded.WithLabelValues(string(k))
	}
	return p
}

func (p *Prometheus) OperationRecorded(kind entity.OperationKind) {
	p.recorded.WithLabelValues(string(kind)).Inc()
}

func (p *Prometheus) OperationRejected(code string) {
	p.rejected.WithLabelValues(code).Inc()
}

func (p *Prometheus) RebuildCompleted(applied, skipped int) {
	p.rebuilds.Inc()
	p.skipped.Add(float64(skipped))
	p.lastRebuilds.Set(float64(applied))
}

func (p *Prometheus) InventorySize(items int) {
	p.items.Set(float64(items))
}

// Registry registro subyacente (tests).
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler handler HTTP de /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
