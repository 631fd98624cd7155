package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/calendar"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/opportunity"
	"github.com/mauv0809/team-planner/internal/pubsub"
	"github.com/mauv0809/team-planner/internal/roster"
)

func WindowHandler(store availability.AvailabilityStore, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := now()
		dates := calendar.CurrentWindow(t)
		days, err := store.GetAvailabilityForDates(r.Context(), dates)
		if err != nil {
			writeError(w, err)
			return
		}
		resp := WindowResponse{
			Dates:   make([]WindowDay, 0, len(dates)),
			Current: calendar.IndexOf(dates, t),
		}
		for _, d := range dates {
			resp.Dates = append(resp.Dates, WindowDay{
				Date:    d,
				Label:   calendar.Display(d),
				Windows: len(opportunity.FindInMatrix(days[d])),
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func GetDayHandler(store availability.AvailabilityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := store.GetAvailabilityForDate(r.Context(), r.PathValue("date"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, data)
	}
}

func UpdateCellHandler(players roster.RosterStore, store availability.AvailabilityStore, m metrics.Metrics, ps pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		date, playerID := r.PathValue("date"), r.PathValue("id")
		if _, err := players.GetPlayer(r.Context(), playerID); err != nil {
			writeError(w, err)
			return
		}
		if err := store.UpdateIndividualStatus(r.Context(), playerID, date, r.PathValue("hour"), req.Status); err != nil {
			m.IncWriteFailures(metrics.WriteIndividual)
			writeError(w, err)
			return
		}
		m.IncWrites(metrics.WriteIndividual)
		publishChanged(r.Context(), ps, date, metrics.WriteIndividual, playerID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func UpdatePlayerDayHandler(players roster.RosterStore, store availability.AvailabilityStore, m metrics.Metrics, ps pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req HoursStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		date, playerID := r.PathValue("date"), r.PathValue("id")
		if _, err := players.GetPlayer(r.Context(), playerID); err != nil {
			writeError(w, err)
			return
		}
		if err := store.UpdateBulkStatus(r.Context(), playerID, date, req.Hours, req.Status); err != nil {
			m.IncWriteFailures(metrics.WriteBulk)
			writeError(w, err)
			return
		}
		m.IncWrites(metrics.WriteBulk)
		publishChanged(r.Context(), ps, date, metrics.WriteBulk, playerID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// SetDayStatusHandler sets the hours of every active player. Without hours
// the default evening is used.
func SetDayStatusHandler(store availability.AvailabilityStore, m metrics.Metrics, ps pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req HoursStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if len(req.Hours) == 0 {
			req.Hours = availability.DefaultHours
		}
		date := r.PathValue("date")
		if err := store.SetDayStatus(r.Context(), date, req.Hours, req.Status); err != nil {
			m.IncWriteFailures(metrics.WriteDay)
			writeError(w, err)
			return
		}
		m.IncWrites(metrics.WriteDay)
		publishChanged(r.Context(), ps, date, metrics.WriteDay, "")
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteDayHandler(store availability.AvailabilityStore, m metrics.Metrics, ps pubsub.PubSubClient, usage metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.PathValue("date")
		removed, err := store.DeleteDay(r.Context(), date)
		if err != nil {
			m.IncWriteFailures(metrics.WriteDelete)
			writeError(w, err)
			return
		}
		m.IncWrites(metrics.WriteDelete)
		usage.Increment(r.Context(), metrics.KeyDaysDeleted)
		log.Info("Deleted day", "date", date, "rows", removed)

		event := pubsub.DayDeleted{Date: date, Removed: removed, At: time.Now().UTC()}
		if err := ps.SendMessage(r.Context(), pubsub.EventDayDeleted, event); err != nil {
			log.Error("Failed to publish day deleted event", "error", err, "date", date)
		}
		writeJSON(w, http.StatusOK, DeleteDayResponse{Date: date, Deleted: removed})
	}
}

func OpportunitiesHandler(store availability.AvailabilityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.PathValue("date")
		data, err := store.GetAvailabilityForDate(r.Context(), date)
		if err != nil {
			writeError(w, err)
			return
		}
		opps := opportunity.FindInMatrix(data)
		resp := OpportunitiesResponse{Date: date, Opportunities: make([]OpportunityResponse, 0, len(opps))}
		for _, o := range opps {
			resp.Opportunities = append(resp.Opportunities, OpportunityResponse{Opportunity: o, Label: o.Label()})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// publishChanged never fails the write it reports on.
func publishChanged(ctx context.Context, ps pubsub.PubSubClient, date string, kind metrics.WriteKind, playerID string) {
	event := pubsub.AvailabilityChanged{Date: date, Kind: string(kind), PlayerID: playerID, At: time.Now().UTC()}
	if err := ps.SendMessage(ctx, pubsub.EventAvailabilityChanged, event); err != nil {
		log.Error("Failed to publish availability changed event", "error", err, "date", date)
	}
}
