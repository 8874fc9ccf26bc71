package reviews

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"navippon/db"
	"navippon/globals"
	"navippon/models"
	"navippon/mq"
	"navippon/utils"
)

// GET /api/experiences/:id/reviews
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	experienceID := ps.ByName("id")

	skip, limit := utils.ParsePagination(r, 10, 100)
	sort := utils.ParseSort(r.URL.Query().Get("sort"), bson.D{{Key: "createdAt", Value: -1}}, nil)

	filter := bson.M{"experience_id": experienceID}
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(sort)

	reviews, err := utils.FindAndDecode[models.Review](ctx, db.ReviewsCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "reviews": reviews})
}

// POST /api/experiences/:id/reviews
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	experienceID := ps.ByName("id")

	var exp models.Experience
	if err := db.ExperiencesCollection.FindOne(ctx, bson.M{"experienceid": experienceID}).Decode(&exp); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Experience not found")
		return
	}

	count, err := db.ReviewsCollection.CountDocuments(ctx, bson.M{"userid": userID, "experience_id": experienceID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add review")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this experience")
		return
	}

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if review.Rating < 1 || review.Rating > 5 || strings.TrimSpace(review.Content) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating (1-5) and content are required")
		return
	}

	review.ReviewID = utils.GenerateRandomString(13)
	review.ExperienceID = experienceID
	review.UserID = userID
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add review")
		return
	}

	if err := recomputeRating(ctx, experienceID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update rating")
		return
	}

	if exp.CreatedBy != "" && exp.CreatedBy != userID {
		mq.Emit(ctx, mq.Event{
			UserID:  exp.CreatedBy,
			Type:    "review",
			Message: "New review on \"" + exp.Title + "\"",
			Link:    "/experiences/" + experienceID,
		})
	}

	utils.RespondWithJSON(w, http.StatusCreated, review)
}

// PUT /api/experiences/:id/reviews/:reviewid
func UpdateReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	reviewID := ps.ByName("reviewid")

	var existing models.Review
	if err := db.ReviewsCollection.FindOne(ctx, bson.M{"reviewid": reviewID}).Decode(&existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	if existing.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var updated models.Review
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if updated.Rating < 1 || updated.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be 1-5")
		return
	}

	update := bson.M{"$set": bson.M{
		"rating":    updated.Rating,
		"title":     updated.Title,
		"content":   updated.Content,
		"updatedAt": time.Now(),
	}}
	if _, err := db.ReviewsCollection.UpdateOne(ctx, bson.M{"reviewid": reviewID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update review")
		return
	}

	if err := recomputeRating(ctx, existing.ExperienceID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update rating")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// DELETE /api/experiences/:id/reviews/:reviewid
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	reviewID := ps.ByName("reviewid")

	var existing models.Review
	if err := db.ReviewsCollection.FindOne(ctx, bson.M{"reviewid": reviewID}).Decode(&existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	if existing.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if _, err := db.ReviewsCollection.DeleteOne(ctx, bson.M{"reviewid": reviewID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	if err := recomputeRating(ctx, existing.ExperienceID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update rating")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// recomputeRating refreshes the aggregate rating stored on the experience.
func recomputeRating(ctx context.Context, experienceID string) error {
	cursor, err := db.ReviewsCollection.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"experience_id": experienceID}},
		{"$group": bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}},
	})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	avg, count := 0.0, 0
	if cursor.Next(ctx) {
		var agg struct {
			Avg   float64 `bson:"avg"`
			Count int     `bson:"count"`
		}
		if err := cursor.Decode(&agg); err == nil {
			avg, count = agg.Avg, agg.Count
		}
	}

	_, err = db.ExperiencesCollection.UpdateOne(ctx,
		bson.M{"experienceid": experienceID},
		bson.M{"$set": bson.M{"rating": avg, "num_reviews": count}},
	)
	return err
}
