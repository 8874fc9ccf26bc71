package offline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"navippon/models"
	"navippon/utils"
)

// Handler exposes the offline snapshot store over HTTP. Every failure is
// reported as a single JSON error; nothing here is fatal to the process.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// GET /api/offline/itineraries/:id
func (h *Handler) Status(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	snap, found, err := h.store.CheckStatus(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read offline status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"enabled": found, "snapshot": snap})
}

type saveRequest struct {
	Itinerary models.Itinerary `json:"itinerary"`
	Boards    []models.Board   `json:"boards"`
	StartDate *string          `json:"startDate"`
}

// POST /api/offline/itineraries/:id
func (h *Handler) Save(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	itineraryID := ps.ByName("id")
	if req.Itinerary.ItineraryID == "" {
		req.Itinerary.ItineraryID = itineraryID
	}
	if req.Itinerary.ItineraryID != itineraryID {
		utils.RespondWithError(w, http.StatusBadRequest, "Itinerary id mismatch")
		return
	}

	snap, err := h.store.Save(ctx, &req.Itinerary, req.Boards, req.StartDate)
	if errors.Is(err, ErrOperationInProgress) {
		utils.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save itinerary for offline use")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, snap)
}

// DELETE /api/offline/itineraries/:id
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := h.store.Remove(ctx, ps.ByName("id"))
	if errors.Is(err, ErrOperationInProgress) {
		utils.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove offline data")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// DELETE /api/offline/itineraries
func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := h.store.ClearAll(ctx); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear offline data")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// GET /api/offline/usage
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	kb, err := h.store.Usage(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute offline usage")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"kb": kb})
}
