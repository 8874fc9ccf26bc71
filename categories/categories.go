package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"navippon/db"
	"navippon/models"
	"navippon/utils"
)

// GET /api/categories
func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	categories, err := utils.FindAndDecode[models.Category](ctx, db.CategoriesCollection, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching categories")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, categories)
}

// POST /api/categories
func CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil || strings.TrimSpace(category.Name) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	count, err := db.CategoriesCollection.CountDocuments(ctx, bson.M{"name": category.Name})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating category")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Category already exists")
		return
	}

	category.CategoryID = utils.GenerateRandomString(13)
	if _, err := db.CategoriesCollection.InsertOne(ctx, category); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating category")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, category)
}

// PUT /api/categories/:id
func UpdateCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil || strings.TrimSpace(category.Name) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	update := bson.M{"$set": bson.M{"name": category.Name, "icon": category.Icon}}
	res, err := db.CategoriesCollection.UpdateOne(ctx, bson.M{"categoryid": ps.ByName("id")}, update)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating category")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// DELETE /api/categories/:id
func DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.CategoriesCollection.DeleteOne(ctx, bson.M{"categoryid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting category")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
