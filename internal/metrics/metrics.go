package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Recorder collects pipeline measurements for one process. Nothing is
// served; WriteTextfile dumps the registry for a textfile collector.
type Recorder struct {
	registry             *prometheus.Registry
	runsTotal            *prometheus.CounterVec
	runDuration          *prometheus.HistogramVec
	stepsTotal           *prometheus.CounterVec
	stepDuration         *prometheus.HistogramVec
	pixelsProcessedTotal prometheus.Counter
	outputBytesTotal     prometheus.Counter
}

func New() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Recorder{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixelcraft_runs_total",
			Help: "Total pipeline runs by final status.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pixelcraft_run_duration_seconds",
			Help:    "Wall time of each pipeline run, decode to write.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixelcraft_steps_total",
			Help: "Total transformation steps executed by step and status.",
		}, []string{"step", "status"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pixelcraft_step_duration_seconds",
			Help:    "Duration of each transformation step.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"step"}),
		pixelsProcessedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pixelcraft_pixels_processed_total",
			Help: "Total source pixels processed across successful runs.",
		}),
		outputBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pixelcraft_output_bytes_total",
			Help: "Total encoded output bytes written across successful runs.",
		}),
	}

	registry.MustRegister(
		m.runsTotal,
		m.runDuration,
		m.stepsTotal,
		m.stepDuration,
		m.pixelsProcessedTotal,
		m.outputBytesTotal,
	)
	return m
}

func (m *Recorder) ObserveStep(step string, elapsed time.Duration, err error) {
	status := "succeeded"
	if err != nil {
		status = "failed"
	}
	m.stepsTotal.WithLabelValues(step, status).Inc()
	m.stepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
}

func (m *Recorder) ObserveRun(status string, elapsed time.Duration, pixels int64, outputBytes int) {
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	if pixels > 0 {
		m.pixelsProcessedTotal.Add(float64(pixels))
	}
	if outputBytes > 0 {
		m.outputBytesTotal.Add(float64(outputBytes))
	}
}

func (m *Recorder) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the registry in text exposition format. The file is
// replaced atomically.
func (m *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
