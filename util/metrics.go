package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	roundStartedCounter    prometheus.Counter
	roundEndedCounter      prometheus.Counter
	cardsDealtCounter      prometheus.Counter
	dealSkippedCounter     prometheus.Counter
	activeTablesCountGauge prometheus.Gauge
}

func (m *metrics) RoundStarted() {
	m.roundStartedCounter.Inc()
}

func (m *metrics) RoundEnded() {
	m.roundEndedCounter.Inc()
}

func (m *metrics) CardsDealt(n int) {
	m.cardsDealtCounter.Add(float64(n))
}

func (m *metrics) DealSkipped() {
	m.dealSkippedCounter.Inc()
}

func (m *metrics) SetActiveTablesCount(count int) {
	m.activeTablesCountGauge.Set(float64(count))
}

var Metrics = &metrics{
	roundStartedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "rounds_started_total",
		Help: "Total number of rounds started",
	}),
	roundEndedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "rounds_ended_total",
		Help: "Total number of rounds settled at showdown",
	}),
	cardsDealtCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "cards_dealt_total",
		Help: "Total number of cards moved from a deck to a hand",
	}),
	dealSkippedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "deals_skipped_total",
		Help: "Total number of deals skipped because too few players were seated",
	}),
	activeTablesCountGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_tables_count",
		Help: "Count of the tables registered in the table manager",
	}),
}
