package handlers

import (
	"fmt"
	"net/http"

	"github.com/mauv0809/team-planner/internal/metrics"
)

func StatsHandler(usage metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := usage.GetAll(r.Context())
		if err != nil {
			writeError(w, fmt.Errorf("failed to get usage counters: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, counters)
	}
}
