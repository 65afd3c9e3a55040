package metrics

import "github.com/prometheus/client_golang/prometheus"

// TriageMetrics exposes counters/histograms for the dialogue and predictor.
type TriageMetrics struct {
	transitionsTotal *prometheus.CounterVec
	rejectedTotal    *prometheus.CounterVec
	analysesTotal    *prometheus.CounterVec
	predictionSize   prometheus.Histogram
	feedbackTotal    *prometheus.CounterVec
}

func NewTriageMetrics(reg prometheus.Registerer) *TriageMetrics {
	m := &TriageMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "dialogue",
			Name:      "transitions_total",
			Help:      "Stage transitions taken by the dialogue engine",
		}, []string{"from", "to"}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "dialogue",
			Name:      "rejected_inputs_total",
			Help:      "User inputs ignored without a transition",
		}, []string{"stage", "reason"}),
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "prediction",
			Name:      "analyses_total",
			Help:      "Completed symptom analyses",
		}, []string{"outcome"}),
		predictionSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "triage",
			Subsystem: "prediction",
			Name:      "results",
			Help:      "Number of conditions returned per analysis",
			Buckets:   []float64{0, 1, 2, 3},
		}),
		feedbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "feedback",
			Name:      "submitted_total",
			Help:      "Feedback ratings submitted on results",
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitionsTotal, m.rejectedTotal, m.analysesTotal, m.predictionSize, m.feedbackTotal)
	return m
}

func (m *TriageMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *TriageMetrics) ObserveRejected(stage, reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(stage, reason).Inc()
}

// ObserveAnalysis records one analysis and how many conditions it ranked.
func (m *TriageMetrics) ObserveAnalysis(results int) {
	if m == nil {
		return
	}
	outcome := "matched"
	if results == 0 {
		outcome = "insufficient_data"
	}
	m.analysesTotal.WithLabelValues(outcome).Inc()
	m.predictionSize.Observe(float64(results))
}

func (m *TriageMetrics) ObserveFeedback(kind string) {
	if m == nil {
		return
	}
	m.feedbackTotal.WithLabelValues(kind).Inc()
}
