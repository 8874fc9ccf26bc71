package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"navippon/db"
	"navippon/models"
	"navippon/utils"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// ExternalResult is a normalized search hit from either provider.
type ExternalResult struct {
	ExternalID string   `json:"external_id"`
	Source     string   `json:"source"` // google_places / osm
	Title      string   `json:"title"`
	Address    string   `json:"address"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Rating     float64  `json:"rating,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// GET /api/import/stats
func Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.ExperiencesCollection.Aggregate(ctx, []bson.M{
		{"$group": bson.M{"_id": "$source", "count": bson.M{"$sum": 1}}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error computing import stats")
		return
	}
	defer cursor.Close(ctx)

	bySource := map[string]int64{}
	var total int64
	for cursor.Next(ctx) {
		var row struct {
			Source string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		if row.Source == "" {
			row.Source = "manual"
		}
		bySource[row.Source] += row.Count
		total += row.Count
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"total": total, "by_source": bySource})
}

// GET /api/import/search-external?q=...&provider=google|osm
func SearchExternal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	query := r.URL.Query().Get("q")
	if query == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing q parameter")
		return
	}

	provider := r.URL.Query().Get("provider")
	if provider == "" {
		provider = "osm"
	}

	var (
		results []ExternalResult
		err     error
	)
	switch provider {
	case "google":
		results, err = searchGooglePlaces(ctx, query)
	case "osm":
		results, err = searchNominatim(ctx, query)
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown provider")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "External search failed: "+err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"provider": provider, "results": results})
}

type importRequest struct {
	Type       string           `json:"type"` // hotel / restaurant / attraction
	Categories []string         `json:"categories"`
	Results    []ExternalResult `json:"results"`
}

// POST /api/import/import
// Persists selected external hits as experiences, skipping ones already
// imported (same source + external id).
func Import(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Results) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Type == "" {
		req.Type = "attraction"
	}

	imported, skipped := 0, 0
	for _, res := range req.Results {
		if res.ExternalID == "" || res.Title == "" {
			skipped++
			continue
		}

		count, err := db.ExperiencesCollection.CountDocuments(ctx, bson.M{
			"source": res.Source, "external_id": res.ExternalID,
		})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Import failed")
			return
		}
		if count > 0 {
			skipped++
			continue
		}

		exp := models.Experience{
			ExperienceID: utils.GenerateRandomString(13),
			Title:        res.Title,
			Type:         req.Type,
			Categories:   req.Categories,
			Address:      res.Address,
			Rating:       res.Rating,
			Source:       res.Source,
			ExternalID:   res.ExternalID,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if res.Lat != 0 || res.Lng != 0 {
			exp.Location = &models.GeoPoint{Type: "Point", Coordinates: []float64{res.Lng, res.Lat}}
		}

		if _, err := db.ExperiencesCollection.InsertOne(ctx, exp); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Import failed")
			return
		}
		imported++
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"imported": imported, "skipped": skipped})
}

func searchGooglePlaces(ctx context.Context, query string) ([]ExternalResult, error) {
	key := os.Getenv("GOOGLE_PLACES_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("GOOGLE_PLACES_API_KEY is not set")
	}

	endpoint := "https://maps.googleapis.com/maps/api/place/textsearch/json?query=" +
		url.QueryEscape(query) + "&region=jp&key=" + key

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api status %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			PlaceID          string   `json:"place_id"`
			Name             string   `json:"name"`
			FormattedAddress string   `json:"formatted_address"`
			Rating           float64  `json:"rating"`
			Types            []string `json:"types"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]ExternalResult, 0, len(payload.Results))
	for _, hit := range payload.Results {
		results = append(results, ExternalResult{
			ExternalID: hit.PlaceID,
			Source:     "google_places",
			Title:      hit.Name,
			Address:    hit.FormattedAddress,
			Lat:        hit.Geometry.Location.Lat,
			Lng:        hit.Geometry.Location.Lng,
			Rating:     hit.Rating,
			Tags:       hit.Types,
		})
	}
	return results, nil
}

func searchNominatim(ctx context.Context, query string) ([]ExternalResult, error) {
	endpoint := "https://nominatim.openstreetmap.org/search?format=json&countrycodes=jp&limit=10&q=" +
		url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// Nominatim requires an identifying user agent
	req.Header.Set("User-Agent", "navippon-importer/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var payload []struct {
		OsmID       int64  `json:"osm_id"`
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		Class       string `json:"class"`
		Type        string `json:"type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]ExternalResult, 0, len(payload))
	for _, hit := range payload {
		lat, _ := strconv.ParseFloat(hit.Lat, 64)
		lng, _ := strconv.ParseFloat(hit.Lon, 64)
		results = append(results, ExternalResult{
			ExternalID: strconv.FormatInt(hit.OsmID, 10),
			Source:     "osm",
			Title:      hit.DisplayName,
			Address:    hit.DisplayName,
			Lat:        lat,
			Lng:        lng,
			Tags:       []string{hit.Class, hit.Type},
		})
	}
	return results, nil
}
