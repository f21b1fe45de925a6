package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// requestsTotal counts IPC requests.
// Labels: action
var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "synonymy",
	Subsystem: "server",
	Name:      "requests_total",
	Help:      "Total IPC requests by action",
}, []string{"action"})
