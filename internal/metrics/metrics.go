package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var renderBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000}

var (
	SubmitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "povertymap_submits_total",
		Help: "Total number of filter submissions",
	})
	SelectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "povertymap_selects_total",
		Help: "Total number of zipcode selections",
	})
	EmptyResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "povertymap_empty_results_total",
		Help: "Total number of submissions matching no zipcode",
	})
	UnmatchedZipsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "povertymap_unmatched_zips_total",
		Help: "Total filtered rows dropped for lack of a boundary polygon",
	})
	FigureCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "povertymap_figure_cache_hits_total",
		Help: "Total redis figure cache hits",
	})
	FigureCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "povertymap_figure_cache_misses_total",
		Help: "Total redis figure cache misses",
	})
	RenderDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "povertymap_render_duration_ms",
		Help:    "Figure render duration in milliseconds",
		Buckets: renderBuckets,
	}, []string{"figure"})
	BoundaryLoadMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "povertymap_boundary_load_ms",
		Help:    "Boundary GeoJSON load duration in milliseconds",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 30000},
	})
	RecordsLoaded = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "povertymap_records_loaded",
		Help: "Rows loaded per table at startup",
	}, []string{"table"})
)

func init() {
	prometheus.MustRegister(SubmitsTotal)
	prometheus.MustRegister(SelectsTotal)
	prometheus.MustRegister(EmptyResultsTotal)
	prometheus.MustRegister(UnmatchedZipsTotal)
	prometheus.MustRegister(FigureCacheHitsTotal)
	prometheus.MustRegister(FigureCacheMissesTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(BoundaryLoadMs)
	prometheus.MustRegister(RecordsLoaded)
}

// 文档注释：返回 Prometheus 指标处理器，由主入口挂载到 API 前缀下的 /metrics
func Handler() http.Handler { return promhttp.Handler() }
