package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/processor"
	"github.com/mauv0809/team-planner/internal/pubsub"
)

func AvailabilityChangedHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event pubsub.AvailabilityChanged
		if !decodePush(w, r, pubsubClient, &event) {
			return
		}
		outcome, err := proc.HandleAvailabilityChanged(r.Context(), event.Date, IsDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to handle availability change", "error", err, "date", event.Date)
			http.Error(w, "Failed to handle availability change", pushStatus(err))
			return
		}
		log.Debug("Handled availability change", "date", event.Date, "outcome", outcome)
		w.Write([]byte("OK"))
	}
}

func DayDeletedHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event pubsub.DayDeleted
		if !decodePush(w, r, pubsubClient, &event) {
			return
		}
		if err := proc.HandleDayDeleted(r.Context(), event.Date, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to handle day deletion", "error", err, "date", event.Date)
			http.Error(w, "Failed to handle day deletion", pushStatus(err))
			return
		}
		w.Write([]byte("OK"))
	}
}

// pushStatus acknowledges events that can never succeed with 400 and lets
// Pub/Sub retry everything else.
func pushStatus(err error) int {
	if errors.Is(err, availability.ErrInvalidDate) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodePush unwraps a push request into v. Malformed messages are answered
// with 400 so Pub/Sub does not redeliver them forever.
func decodePush(w http.ResponseWriter, r *http.Request, pubsubClient pubsub.PubSubClient, v any) bool {
	bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return false
	}
	log.Debug("Received push message", "path", r.URL.Path, "body", string(bodyBytes))

	rawData, err := pubsub.UnwrapPush(bodyBytes)
	if err != nil {
		log.Error("Failed to unwrap push message", "error", err)
		http.Error(w, "Invalid push message", http.StatusBadRequest)
		return false
	}
	if err := pubsubClient.ProcessMessage(rawData, v); err != nil {
		http.Error(w, "Invalid message data", http.StatusBadRequest)
		return false
	}
	return true
}
