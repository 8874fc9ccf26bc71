package exportpdf

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"navippon/db"
	"navippon/globals"
	"navippon/models"
	"navippon/offline"
	"navippon/utils"
)

// Handler serves itinerary PDF downloads. It reads cached images through
// the same key-value store the offline feature writes, but export works
// whether or not offline mode is enabled.
type Handler struct {
	kv offline.KeyValueStore
}

func NewHandler(kv offline.KeyValueStore) *Handler {
	return &Handler{kv: kv}
}

// GET /api/itineraries/:id/export
func (h *Handler) ExportItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	itineraryID := ps.ByName("id")

	var it models.Itinerary
	err := db.ItineraryCollection.FindOne(ctx, bson.M{"itineraryid": itineraryID}).Decode(&it)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if !it.CanView(userID) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	link := baseURL() + "/itineraries/" + itineraryID
	doc := BuildDocument(&it, it.Boards, it.StartDate, link, time.Now())

	images := make(map[string]string)
	for _, board := range it.Boards {
		for _, fav := range board.Favorites {
			if fav.Experience == nil {
				continue
			}
			encoded, found, err := h.kv.Get(ctx, offline.ImageKey(fav.Experience.ExperienceID))
			if err == nil && found {
				images[fav.Experience.ExperienceID] = encoded
			}
		}
	}

	pdfBytes, err := Render(doc, images)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	filename := Filename(it.Name, time.Now())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func baseURL() string {
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		return v
	}
	return "https://navippon.app"
}
