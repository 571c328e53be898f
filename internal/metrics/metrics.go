package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matcher_scoring_duration_seconds",
			Help:    "Duration of scoring one candidate against one vacancy.",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 5, 15, 30, 60},
		},
		[]string{"backend"},
	)
	ScorerFallbacksCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matcher_scorer_fallbacks_total",
			Help: "Total number of external scorer failures answered by the local scorer.",
		},
	)
	StoreCacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_store_cache_total",
			Help: "Match result lookups by outcome.",
		},
		[]string{"result"},
	)
	RankingDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "matcher_ranking_duration_seconds",
			Help:       "Duration of ranking the candidates of one vacancy.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"forced"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(ScoringDuration)
		prometheus.MustRegister(ScorerFallbacksCounter)
		prometheus.MustRegister(StoreCacheCounter)
		prometheus.MustRegister(RankingDuration)
	})
}

func StartMetricsServer(address string) *http.Server {

	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: address, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()
	return server
}
