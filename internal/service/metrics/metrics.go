package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry   *prometheus.Registry
	Signups    *prometheus.CounterVec
	Logins     *prometheus.CounterVec
	Rehashes   prometheus.Counter
	Guesses    *prometheus.CounterVec
	RoundScore prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ninernav",
			Name:      "signups_total",
			Help:      "Signup attempts by outcome.",
		}, []string{"outcome"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ninernav",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		Rehashes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ninernav",
			Name:      "password_rehashes_total",
			Help:      "Password hashes upgraded on login.",
		}),
		Guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ninernav",
			Name:      "guesses_total",
			Help:      "Scored guesses, split by whether they were recorded on the leaderboard.",
		}, []string{"recorded"}),
		RoundScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ninernav",
			Name:      "round_score",
			Help:      "Distribution of round scores.",
			Buckets:   []float64{0, 1, 10, 25, 50, 75, 90, 99, 100},
		}),
	}
	m.registry.MustRegister(m.Signups, m.Logins, m.Rehashes, m.Guesses, m.RoundScore)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
