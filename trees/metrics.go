package trees

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	categoryLabel = "category"
	shapeLabel    = "shape"

	cacheShapePos      = "pos"
	cacheShapeViewport = "viewport"
)

var (
	cacheHitCountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quadindex_cache_hit_count_total",
		Help: "The total number of query cache hits.",
	}, []string{categoryLabel, shapeLabel})

	cacheMissCountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quadindex_cache_miss_count_total",
		Help: "The total number of query cache recomputations.",
	}, []string{categoryLabel, shapeLabel})
)

func instrumentCacheHit(category, shape string) {
	cacheHitCountTotal.
		With(prometheus.Labels{categoryLabel: category, shapeLabel: shape}).
		Inc()
}

func instrumentCacheMiss(category, shape string) {
	cacheMissCountTotal.
		With(prometheus.Labels{categoryLabel: category, shapeLabel: shape}).
		Inc()
}
