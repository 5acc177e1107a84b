package sinks

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"partnerscout/internal/progress"
)

// PrometheusSink exports pipeline progress metrics. It owns all collectors
// for subject and batch accounting.
type PrometheusSink struct {
	subjectsTotal   *prometheus.CounterVec
	batchesTotal    prometheus.Counter
	subjectDuration prometheus.Histogram
	pendingSubjects prometheus.Gauge
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		subjectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "partnerscout_subjects_total",
			Help: "Subjects processed, partitioned by result.",
		}, []string{"result"}),
		batchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "partnerscout_batches_total",
			Help: "Discovery batches completed.",
		}),
		subjectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "partnerscout_subject_duration_seconds",
			Help:    "Wall time per completed subject pipeline.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		}),
		pendingSubjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "partnerscout_pending_subjects",
			Help: "Subjects still awaiting discovery, sampled per batch.",
		}),
	}
	for _, collector := range []prometheus.Collector{
		s.subjectsTotal,
		s.batchesTotal,
		s.subjectDuration,
		s.pendingSubjects,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors for one event. Safe for concurrent use.
func (s *PrometheusSink) Consume(evt progress.Event) {
	switch evt.Stage {
	case progress.StageSubjectDone:
		s.subjectsTotal.WithLabelValues("success").Inc()
		s.subjectDuration.Observe(evt.Dur.Seconds())
	case progress.StageSubjectError:
		s.subjectsTotal.WithLabelValues("failure").Inc()
		s.subjectDuration.Observe(evt.Dur.Seconds())
	case progress.StageBatchDone:
		s.batchesTotal.Inc()
	case progress.StagePause:
		// Pause events carry the remaining pending count in Summary.Total.
		s.pendingSubjects.Set(float64(evt.Summary.Total))
	}
}
