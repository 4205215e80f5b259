package quadtree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const treeLabel = "tree"

var (
	quadtreeSplitCountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quadindex_split_count_total",
		Help: "The total number of node splits.",
	}, []string{treeLabel})

	quadtreeCollapseCountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quadindex_collapse_count_total",
		Help: "The total number of subnode collapses.",
	}, []string{treeLabel})

	quadtreeNodeCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "quadindex_node_count",
		Help: "The number of live nodes in the arena.",
	}, []string{treeLabel})

	quadtreeEntityCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "quadindex_entity_count",
		Help: "The number of indexed entities.",
	}, []string{treeLabel})
)

func instrumentSplit(tree string) {
	quadtreeSplitCountTotal.
		With(prometheus.Labels{treeLabel: tree}).
		Inc()
}

func instrumentCollapse(tree string) {
	quadtreeCollapseCountTotal.
		With(prometheus.Labels{treeLabel: tree}).
		Inc()
}

func instrumentNodeCount(tree string, count int) {
	quadtreeNodeCount.
		With(prometheus.Labels{treeLabel: tree}).
		Set(float64(count))
}

func instrumentEntityCount(tree string, count int) {
	quadtreeEntityCount.
		With(prometheus.Labels{treeLabel: tree}).
		Set(float64(count))
}
