package experiences

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"navippon/db"
	"navippon/globals"
	"navippon/models"
	"navippon/utils"
)

// GET /api/experiences
func GetExperiences(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	filter := bson.M{}
	if prefecture := q.Get("prefecture"); prefecture != "" {
		filter["prefecture"] = prefecture
	}
	if category := q.Get("category"); category != "" {
		filter["categories"] = bson.M{"$in": []string{category}}
	}
	if expType := q.Get("type"); expType != "" {
		filter["type"] = expType
	}
	if search := q.Get("search"); search != "" {
		filter["title"] = bson.M{"$regex": search, "$options": "i"}
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	sort := utils.ParseSort(q.Get("sort"), bson.D{{Key: "rating", Value: -1}}, map[string]bson.D{
		"price_asc":  {{Key: "price", Value: 1}},
		"price_desc": {{Key: "price", Value: -1}},
		"newest":     {{Key: "created_at", Value: -1}},
	})
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(sort)

	experiences, err := utils.FindAndDecode[models.Experience](ctx, db.ExperiencesCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching experiences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, experiences)
}

// GET /api/experiences/:id
func GetExperience(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var exp models.Experience
	err := db.ExperiencesCollection.FindOne(ctx, bson.M{"experienceid": ps.ByName("id")}).Decode(&exp)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Experience not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, exp)
}

// POST /api/experiences
func CreateExperience(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	var exp models.Experience
	if err := json.NewDecoder(r.Body).Decode(&exp); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if exp.Title == "" || exp.Type == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title and type are required")
		return
	}

	exp.ExperienceID = utils.GenerateRandomString(13)
	exp.CreatedBy = userID
	if exp.Source == "" {
		exp.Source = "manual"
	}
	exp.CreatedAt = time.Now()
	exp.UpdatedAt = exp.CreatedAt

	if _, err := db.ExperiencesCollection.InsertOne(ctx, exp); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating experience")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, exp)
}

// PUT /api/experiences/:id
func UpdateExperience(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	experienceID := ps.ByName("id")

	var updated models.Experience
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{"$set": bson.M{
		"title":         updated.Title,
		"description":   updated.Description,
		"type":          updated.Type,
		"price":         updated.Price,
		"prefecture":    updated.Prefecture,
		"categories":    updated.Categories,
		"location":      updated.Location,
		"address":       updated.Address,
		"phone":         updated.Phone,
		"website":       updated.Website,
		"opening_hours": updated.OpeningHours,
		"updated_at":    time.Now(),
	}}

	res, err := db.ExperiencesCollection.UpdateOne(ctx, bson.M{"experienceid": experienceID}, update)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating experience")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Experience not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Experience updated successfully"})
}

// DELETE /api/experiences/:id
func DeleteExperience(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExperiencesCollection.DeleteOne(ctx, bson.M{"experienceid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting experience")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Experience not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Experience deleted successfully"})
}
