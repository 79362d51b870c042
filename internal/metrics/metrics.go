package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Hand resolution results
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

// Metrics holds the application's Prometheus collectors
type Metrics struct {
	SessionsCreated prometheus.Counter
	SessionsActive  prometheus.Gauge
	HandsResolved   *prometheus.CounterVec
	GamesEnded      prometheus.Counter
	Commands        *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	PanicsRecovered *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "setgame_sessions_created_total",
			Help: "Total game sessions created",
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "setgame_sessions_active",
			Help: "Game sessions currently held in memory",
		}),
		HandsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setgame_hands_resolved_total",
				Help: "Three-card hands resolved, by result",
			},
			[]string{"result"},
		),
		GamesEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "setgame_games_ended_total",
			Help: "Games that reached their end",
		}),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setgame_commands_total",
				Help: "Player commands handled, by command",
			},
			[]string{"command"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setgame_http_requests_total",
				Help: "HTTP requests served, by method and status",
			},
			[]string{"method", "status"},
		),
		PanicsRecovered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setgame_panics_recovered_total",
				Help: "Handler panics turned into 500s, by surface",
			},
			[]string{"surface"},
		),
	}

	reg.MustRegister(
		m.SessionsCreated,
		m.SessionsActive,
		m.HandsResolved,
		m.GamesEnded,
		m.Commands,
		m.HTTPRequests,
		m.PanicsRecovered,
	)
	return m
}

// HandResolved counts a resolved hand
func (m *Metrics) HandResolved(valid bool) {
	result := ResultInvalid
	if valid {
		result = ResultValid
	}
	m.HandsResolved.WithLabelValues(result).Inc()
}

// Command counts a player command
func (m *Metrics) Command(name string) {
	m.Commands.WithLabelValues(name).Inc()
}
