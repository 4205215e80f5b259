package http

import (
	"net/http"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/ivoryduke/quadindex/trees"
	"github.com/segmentio/encoding/json"
)

// HandleStats serves the per-category entity counts of the index. The
// stats function is called on every request and must be safe to call
// from the server goroutine.
func HandleStats(stats func() trees.Stats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := json.Marshal(stats())
		if err != nil {
			logs.Error(errors.New("encoding index stats failed").Wrap(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}
