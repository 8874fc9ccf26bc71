package experiences

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"navippon/db"
	"navippon/filemgr"
	"navippon/utils"
)

// POST /api/experiences/:id/photo
func UploadPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	experienceID := ps.ByName("id")

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing photo file")
		return
	}

	filename, err := filemgr.SaveExperiencePhoto(file, header)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	photoURL := "/static/experiencepic/" + filename
	update := bson.M{"$set": bson.M{"photo": photoURL, "updated_at": time.Now()}}
	res, err := db.ExperiencesCollection.UpdateOne(ctx, bson.M{"experienceid": experienceID}, update)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving photo reference")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Experience not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"photo": photoURL})
}
