package redis

import (
	"github.com/prometheus/client_golang/prometheus"
)

// poolCollector exports go-redis connection pool statistics.
type poolCollector struct {
	client *Client

	hits     *prometheus.Desc
	misses   *prometheus.Desc
	timeouts *prometheus.Desc
	total    *prometheus.Desc
	idle     *prometheus.Desc
}

// NewPoolCollector returns a collector for c's pool stats.
func NewPoolCollector(c *Client) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("redis_pool_"+name, help, nil, nil)
	}
	return &poolCollector{
		client:   c,
		hits:     desc("hits_total", "Times a free connection was found in the pool."),
		misses:   desc("misses_total", "Times a free connection was not found in the pool."),
		timeouts: desc("timeouts_total", "Times a wait for a connection timed out."),
		total:    desc("connections", "Connections currently in the pool."),
		idle:     desc("idle_connections", "Idle connections currently in the pool."),
	}
}

func (p *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.hits
	ch <- p.misses
	ch <- p.timeouts
	ch <- p.total
	ch <- p.idle
}

func (p *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := p.client.PoolStats()
	ch <- prometheus.MustNewConstMetric(p.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(p.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(p.timeouts, prometheus.CounterValue, float64(s.Timeouts))
	ch <- prometheus.MustNewConstMetric(p.total, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(p.idle, prometheus.GaugeValue, float64(s.IdleConns))
}
