package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	commandsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "akvabot",
			Name:      "commands_processed_total",
			Help:      "Count of processed commands by name.",
		},
		[]string{"command"},
	)

	errorsLogged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "akvabot",
			Name:      "errors_logged_total",
			Help:      "Count of errors written to the error log by component.",
		},
		[]string{"component"},
	)

	pollRestarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "akvabot",
			Name:      "longpoll_restarts_total",
			Help:      "Count of long-poll descriptor re-acquisitions.",
		},
	)

	pollFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "akvabot",
			Name:      "longpoll_failures_total",
			Help:      "Count of transient long-poll request failures.",
		},
	)

	sendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "akvabot",
			Name:      "send_failures_total",
			Help:      "Count of outbound messages that failed to send.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(commandsProcessed, errorsLogged, pollRestarts, pollFailures, sendFailures)
	})
}

func IncCommand(command string) {
	commandsProcessed.WithLabelValues(command).Inc()
}

func IncError(component string) {
	if component == "" {
		component = "unknown"
	}
	errorsLogged.WithLabelValues(component).Inc()
}

func IncPollRestart() {
	pollRestarts.Inc()
}

func IncPollFailure() {
	pollFailures.Inc()
}

func IncSendFailure() {
	sendFailures.Inc()
}
