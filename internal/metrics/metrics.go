package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "wordlebot"

// Metrics counts submission outcomes and downstream calls
type Metrics struct {
	submissions        *prometheus.CounterVec
	downstreamFailures *prometheus.CounterVec
	awards             *prometheus.CounterVec
	reminders          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submitted messages by outcome.",
		}, []string{"status"}),
		downstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downstream_failures_total",
			Help:      "Failed answer lookups and award deliveries.",
		}, []string{"stage"}),
		awards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "awards_total",
			Help:      "Award attempts by delivery result.",
		}, []string{"delivery"}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_total",
			Help:      "Daily reminders by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.submissions, m.downstreamFailures, m.awards, m.reminders)

	return m
}

// Submission counts one processed submission
func (m *Metrics) Submission(status string) {
	m.submissions.WithLabelValues(status).Inc()
}

// DownstreamFailure counts a failed answer lookup ("answer") or award ("award")
func (m *Metrics) DownstreamFailure(stage string) {
	m.downstreamFailures.WithLabelValues(stage).Inc()
}

// Award counts an award attempt
func (m *Metrics) Award(delivery string) {
	m.awards.WithLabelValues(delivery).Inc()
}

// Reminder counts a reminder send ("sent" or "failed")
func (m *Metrics) Reminder(result string) {
	m.reminders.WithLabelValues(result).Inc()
}
