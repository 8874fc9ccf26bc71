package itinerary

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"navippon/db"
	"navippon/globals"
	"navippon/models"
	"navippon/mq"
	"navippon/utils"
)

// POST /api/itineraries/:id/travelers
func AddTraveler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	itineraryID := ps.ByName("id")

	var body models.Traveler
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Role != "editor" {
		body.Role = "viewer"
	}

	var it models.Itinerary
	if err := db.ItineraryCollection.FindOne(ctx, bson.M{"itineraryid": itineraryID}).Decode(&it); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}
	if it.Creator != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Only the creator can invite travelers")
		return
	}
	for _, t := range it.Travelers {
		if t.UserID == body.UserID {
			utils.RespondWithError(w, http.StatusConflict, "Traveler already added")
			return
		}
	}

	update := bson.M{
		"$push": bson.M{"travelers": body},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	if _, err := db.ItineraryCollection.UpdateOne(ctx, bson.M{"itineraryid": itineraryID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error adding traveler")
		return
	}

	mq.Emit(ctx, mq.Event{
		UserID:  body.UserID,
		Type:    "itinerary_invite",
		Message: "You were added to the trip \"" + it.Name + "\"",
		Link:    "/itineraries/" + itineraryID,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// DELETE /api/itineraries/:id/travelers/:userid
func RemoveTraveler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	itineraryID := ps.ByName("id")
	target := ps.ByName("userid")

	var it models.Itinerary
	if err := db.ItineraryCollection.FindOne(ctx, bson.M{"itineraryid": itineraryID}).Decode(&it); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}
	// travelers may remove themselves; only the creator removes others
	if it.Creator != userID && target != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	update := bson.M{
		"$pull": bson.M{"travelers": bson.M{"user_id": target}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	if _, err := db.ItineraryCollection.UpdateOne(ctx, bson.M{"itineraryid": itineraryID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error removing traveler")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
