package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/roster"
)

func ListPlayersHandler(store roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := r.URL.Query().Get("active") == "true"
		players, err := store.GetPlayers(r.Context(), activeOnly)
		if err != nil {
			writeError(w, fmt.Errorf("failed to get players: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func AddPlayerHandler(store roster.RosterStore, usage metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Role == "" {
			req.Role = roster.RolePlayer
		}
		player, err := store.AddPlayer(r.Context(), req.Name, req.Role)
		if err != nil {
			writeError(w, err)
			return
		}
		usage.Increment(r.Context(), metrics.KeyPlayersAdded)
		log.Info("Added player", "id", player.ID, "name", player.Name)
		writeJSON(w, http.StatusCreated, player)
	}
}

func UpdatePlayerHandler(store roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := store.UpdatePlayer(r.Context(), r.PathValue("id"), req.Name, req.Role); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func SetActiveHandler(store roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ActiveRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := store.SetActive(r.Context(), r.PathValue("id"), req.Active); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeletePlayerHandler(store roster.RosterStore, usage metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := store.DeletePlayer(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		usage.Increment(r.Context(), metrics.KeyPlayersDeleted)
		log.Info("Deleted player", "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func ReorderPlayersHandler(store roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrderRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := store.Reorder(r.Context(), req.IDs); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
