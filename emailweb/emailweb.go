package emailweb

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
	"navippon/models"
	"navippon/utils"
)

// POST /api/emailweb
// Public contact form; rate limited at the route level.
func SubmitContactForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var msg models.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(msg.Email) == "" || strings.TrimSpace(msg.Body) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and message body are required")
		return
	}

	msg.MessageID = utils.GenerateRandomString(13)
	msg.CreatedAt = time.Now()

	if _, err := db.ContactCollection.InsertOne(ctx, msg); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit message")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true})
}

// GET /api/emailweb
func ListMessages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	messages, err := utils.FindAndDecode[models.ContactMessage](ctx, db.ContactCollection, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching messages")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}

// GET /api/emailweb/:id
func GetMessage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var msg models.ContactMessage
	if err := db.ContactCollection.FindOne(ctx, bson.M{"messageid": ps.ByName("id")}).Decode(&msg); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Message not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, msg)
}

// DELETE /api/emailweb/:id
func DeleteMessage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ContactCollection.DeleteOne(ctx, bson.M{"messageid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting message")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Message not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
