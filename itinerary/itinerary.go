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
	"navippon/utils"
)

// POST /api/itineraries
func CreateItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var it models.Itinerary
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if it.Name == "" || it.TravelDays < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and at least one travel day are required")
		return
	}

	it.ItineraryID = utils.GenerateRandomString(13)
	it.Creator = userID
	it.CreatedAt = time.Now()
	it.UpdatedAt = it.CreatedAt
	if it.Travelers == nil {
		it.Travelers = []models.Traveler{}
	}

	// one board per travel day, day 1 first
	if len(it.Boards) != it.TravelDays {
		boards := make([]models.Board, it.TravelDays)
		for i := range boards {
			boards[i] = models.Board{
				BoardID:   utils.GenerateRandomString(13),
				Favorites: []models.Favorite{},
			}
		}
		it.Boards = boards
	}

	if _, err := db.ItineraryCollection.InsertOne(ctx, it); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating itinerary")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, it)
}

// GET /api/itineraries
func GetMyItineraries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	filter := bson.M{"$or": []bson.M{
		{"creator": userID},
		{"travelers.user_id": userID},
	}}

	itineraries, err := utils.FindAndDecode[models.Itinerary](ctx, db.ItineraryCollection, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching itineraries")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, itineraries)
}

// GET /api/itineraries/:id
func GetItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var it models.Itinerary
	err := db.ItineraryCollection.FindOne(ctx, bson.M{"itineraryid": ps.ByName("id")}).Decode(&it)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if !it.CanView(userID) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, it)
}

// PUT /api/itineraries/:id
func UpdateItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	itineraryID := ps.ByName("id")

	var existing models.Itinerary
	if err := db.ItineraryCollection.FindOne(ctx, bson.M{"itineraryid": itineraryID}).Decode(&existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}
	if !existing.CanEdit(userID) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var updated models.Itinerary
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{"$set": bson.M{
		"name":         updated.Name,
		"description":  updated.Description,
		"total_budget": updated.TotalBudget,
		"travel_days":  updated.TravelDays,
		"start_date":   updated.StartDate,
		"is_private":   updated.IsPrivate,
		"boards":       updated.Boards,
		"updated_at":   time.Now(),
	}}

	if _, err := db.ItineraryCollection.UpdateOne(ctx, bson.M{"itineraryid": itineraryID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating itinerary")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Itinerary updated successfully"})
}

// DELETE /api/itineraries/:id
func DeleteItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	itineraryID := ps.ByName("id")

	var it models.Itinerary
	if err := db.ItineraryCollection.FindOne(ctx, bson.M{"itineraryid": itineraryID}).Decode(&it); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}
	if it.Creator != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if _, err := db.ItineraryCollection.DeleteOne(ctx, bson.M{"itineraryid": itineraryID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting itinerary")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Itinerary deleted successfully"})
}
