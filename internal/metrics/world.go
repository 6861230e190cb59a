package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/manikin/internal/core"
)

// WorldCollector reports the World returned by current each time it is
// scraped. current is called on the scraping goroutine, so it must be safe
// to call concurrently with sends.
type WorldCollector struct {
	current     func() core.World
	identifiers *prometheus.Desc
}

// NewWorldCollector creates a collector labelled with store, such as
// "mutable" or "snapshot".
func NewWorldCollector(store string, current func() core.World) *WorldCollector {
	return &WorldCollector{
		current: current,
		identifiers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "world", "identifiers"),
			"Identifiers holding committed state.",
			nil, prometheus.Labels{"store": store},
		),
	}
}

// Describe implements prometheus.Collector.
func (c *WorldCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.identifiers
}

// Collect implements prometheus.Collector.
func (c *WorldCollector) Collect(ch chan<- prometheus.Metric) {
	w := c.current()
	if w == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.identifiers, prometheus.GaugeValue, float64(len(w.IDs())))
}
