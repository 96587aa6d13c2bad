package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"stively/internal/db"
)

var (
	slugLookupDesc = prometheus.NewDesc(
		"stively_slug_lookups_total",
		"Total public article slug lookup count by outcome",
		[]string{"slug", "outcome"},
		nil,
	)
)

// SlugCollector is a custom Prometheus collector that reads slug lookup
// counts from the database on each scrape.
type SlugCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *SlugCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- slugLookupDesc
}

// Collect queries the database for all slug lookups and emits them as counters.
func (c *SlugCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.db.GetAllSlugLookups(context.Background())
	if err != nil {
		slog.Error("failed to collect slug lookup metrics", "error", err)
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			slugLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Slug,
			l.Outcome,
		)
	}
}

// Recorder provides async slug lookup recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the recorder.
// Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&SlugCollector{db: database})
	})
}

// RecordSlugLookup asynchronously records a slug lookup outcome.
func RecordSlugLookup(slug, outcome string) {
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementSlugLookup(context.Background(), slug, outcome); err != nil {
			slog.Error("failed to record slug lookup", "slug", slug, "outcome", outcome, "error", err)
		}
	}()
}
