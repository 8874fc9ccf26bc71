package comments

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
	"navippon/utils"
)

// POST /api/comments/:entitytype/:entityid
func CreateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entityType := ps.ByName("entitytype")
	entityID := ps.ByName("entityid")
	if entityType != "post" && entityType != "experience" {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown entity type")
		return
	}

	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Comment cannot be empty")
		return
	}

	comment := models.Comment{
		CommentID:  utils.GenerateRandomString(13),
		EntityType: entityType,
		EntityID:   entityID,
		CreatedBy:  userID,
		Content:    body.Content,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if _, err := db.CommentsCollection.InsertOne(ctx, comment); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "DB insert failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, comment)
}

// GET /api/comments/:entitytype/:entityid
func GetComments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 20, 100)
	filter := bson.M{"entity_type": ps.ByName("entitytype"), "entity_id": ps.ByName("entityid")}
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	comments, err := utils.FindAndDecode[models.Comment](ctx, db.CommentsCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve comments")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, comments)
}

// PUT /api/comments/:entitytype/:entityid/:commentid
func UpdateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	commentID := ps.ByName("commentid")

	var existing models.Comment
	if err := db.CommentsCollection.FindOne(ctx, bson.M{"commentid": commentID}).Decode(&existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if existing.CreatedBy != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Comment cannot be empty")
		return
	}

	update := bson.M{"$set": bson.M{"content": body.Content, "updatedAt": time.Now()}}
	if _, err := db.CommentsCollection.UpdateOne(ctx, bson.M{"commentid": commentID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update comment")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// DELETE /api/comments/:entitytype/:entityid/:commentid
func DeleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	commentID := ps.ByName("commentid")

	var existing models.Comment
	if err := db.CommentsCollection.FindOne(ctx, bson.M{"commentid": commentID}).Decode(&existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if existing.CreatedBy != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if _, err := db.CommentsCollection.DeleteOne(ctx, bson.M{"commentid": commentID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
