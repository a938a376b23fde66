package metric

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/syncx-go/internal/syncutil"
)

// Sized is anything with a current length: cmap.Map, cmap.Set, queue.Queue.
type Sized interface {
	Len() int
}

// target identifies a tracked container; a map and a queue may share a
// name.
type target struct {
	kind, name string
}

// SizeCollector reports the length of every tracked container when scraped.
type SizeCollector struct {
	desc *prometheus.Desc

	mu      syncutil.Mutex
	targets map[target]Sized
}

// NewSizeCollector creates an empty collector.
func NewSizeCollector() *SizeCollector {
	return &SizeCollector{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "container", "size"),
			"Current number of entries in a tracked container",
			[]string{"kind", "name"}, nil,
		),
		targets: make(map[target]Sized),
	}
}

// Track starts reporting s under kind and name. Tracking the same kind
// and name again replaces the earlier container.
func (c *SizeCollector) Track(kind, name string, s Sized) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targets[target{kind, name}] = s
}

// Untrack stops reporting the container tracked under kind and name.
func (c *SizeCollector) Untrack(kind, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.targets, target{kind, name})
}

// Describe implements prometheus.Collector.
func (c *SizeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *SizeCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	keys := make([]target, 0, len(c.targets))
	for t := range c.targets {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		return keys[i].name < keys[j].name
	})
	sized := make([]Sized, len(keys))
	for i, t := range keys {
		sized[i] = c.targets[t]
	}
	c.mu.Unlock()

	// Len takes shard locks, so it runs outside mu.
	for i, t := range keys {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(sized[i].Len()), t.kind, t.name)
	}
}
