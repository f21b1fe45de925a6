package synonyms

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// lookupsTotal counts remote lookups.
	// Labels: result (ok, error, partial)
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "synonymy",
		Subsystem: "synonyms",
		Name:      "lookups_total",
		Help:      "Total batched synonym lookups by result",
	}, []string{"result"})

	// wordsServed counts overused words given synonyms, by source.
	// Labels: source (cache, remote)
	wordsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "synonymy",
		Subsystem: "synonyms",
		Name:      "words_total",
		Help:      "Overused words enriched with synonyms by source",
	}, []string{"source"})

	lookupsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "synonymy",
		Subsystem: "synonyms",
		Name:      "lookups_skipped_total",
		Help:      "Enrichments fully served from cache without a remote lookup",
	})
)
