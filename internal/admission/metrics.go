// Метрики admission-контроля, отдаются через /metrics.
package admission

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "admission_decisions_total",
	Help: "Количество решений admission-контроля по категориям и ролям.",
}, []string{"kind", "role"})

// ObserveDecision учитывает принятое решение в метриках.
func ObserveDecision(kind Kind, role string) {
	decisionsTotal.WithLabelValues(kind.String(), role).Inc()
}
