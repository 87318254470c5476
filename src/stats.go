package rsfec

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Stats counts decoded blocks per profile.  Each Stats has its own
// registry so several can live in one process.
type Stats struct {
	registry *prometheus.Registry

	blocks    *prometheus.CounterVec
	failed    *prometheus.CounterVec
	corrected *prometheus.CounterVec
	tagErrors prometheus.Counter
	perBlock  prometheus.Histogram
}

func NewStats() *Stats {
	var s = &Stats{
		registry: prometheus.NewRegistry(),
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rsfec",
			Name:      "blocks_total",
			Help:      "Blocks received.",
		}, []string{"profile"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rsfec",
			Name:      "blocks_failed_total",
			Help:      "Blocks that could not be corrected.",
		}, []string{"profile"}),
		corrected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rsfec",
			Name:      "symbols_corrected_total",
			Help:      "Symbols repaired by the decoder.",
		}, []string{"profile"}),
		tagErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rsfec",
			Name:      "tag_bit_errors_total",
			Help:      "Bit errors in matched correlation tags.",
		}),
		perBlock: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rsfec",
			Name:      "corrections_per_block",
			Help:      "Symbols corrected in each decoded block.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}

	s.registry.MustRegister(s.blocks, s.failed, s.corrected, s.tagErrors, s.perBlock)

	return s
}

// Observe records one decode result.  Safe for concurrent use.
func (s *Stats) Observe(r BlockResult) {
	var name = r.Profile.Name

	s.blocks.WithLabelValues(name).Inc()
	s.tagErrors.Add(float64(r.TagErrors))

	if r.Err != nil {
		s.failed.WithLabelValues(name).Inc()
		return
	}

	s.corrected.WithLabelValues(name).Add(float64(r.Corrected))
	s.perBlock.Observe(float64(r.Corrected))
}

func (s *Stats) Registry() *prometheus.Registry {
	return s.registry
}

// WriteTextfile writes the counters in the text exposition format, for
// the node exporter textfile collector.
func (s *Stats) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}
