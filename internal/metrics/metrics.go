// Package metrics counts mining events and exports them in the Prometheus
// text format for a node-exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentic-research/rdfmine/internal/ingest"
)

const namespace = "rdfmine"

// Recorder implements ingest.Observer on a private registry.
type Recorder struct {
	reg *prometheus.Registry

	datasetsMined   prometheus.Counter
	datasetsSkipped prometheus.Counter
	filesMined      prometheus.Counter
	fileErrors      *prometheus.CounterVec
	triples         prometheus.Counter
	duration        prometheus.Gauge
}

var _ ingest.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		datasetsMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datasets_mined_total",
			Help:      "Datasets whose snapshot and metadata were written.",
		}),
		datasetsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datasets_skipped_total",
			Help:      "Datasets skipped because a previous run mined them.",
		}),
		filesMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_mined_total",
			Help:      "RDF files read to the end without error.",
		}),
		fileErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_errors_total",
			Help:      "Failures recorded in the error log, by reason.",
		}, []string{"reason"}),
		triples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_total",
			Help:      "Triples read from successfully mined files.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last batch run.",
		}),
	}
	r.reg.MustRegister(r.datasetsMined, r.datasetsSkipped, r.filesMined, r.fileErrors, r.triples, r.duration)
	return r
}

func (r *Recorder) FileMined(_, _ string, triples int) {
	r.filesMined.Inc()
	r.triples.Add(float64(triples))
}

func (r *Recorder) FileFailed(_, _, reason string) {
	r.fileErrors.WithLabelValues(reason).Inc()
}

func (r *Recorder) DatasetMined(string) { r.datasetsMined.Inc() }

func (r *Recorder) DatasetSkipped(string) { r.datasetsSkipped.Inc() }

// ObserveRun records the duration of a finished run.
func (r *Recorder) ObserveRun(d time.Duration) {
	r.duration.Set(d.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// WriteTextfile writes every metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
