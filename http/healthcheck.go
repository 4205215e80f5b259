package http

import (
	"net/http"
)

// HandleHealthCheck reports the process as alive.
func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
