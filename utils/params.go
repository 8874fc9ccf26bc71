package utils

import (
	"context"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ParsePagination reads page/limit query params and returns skip and limit
// values clamped to maxLimit.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int64) (int64, int64) {
	q := r.URL.Query()

	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return (page - 1) * limit, limit
}

// ParseSort maps a sort query value to a mongo sort document, falling back
// to def when the value is unknown.
func ParseSort(value string, def bson.D, allowed map[string]bson.D) bson.D {
	if allowed != nil {
		if d, ok := allowed[value]; ok {
			return d
		}
	}
	return def
}

// FindAndDecode runs a Find and decodes every document into a slice of T.
// Always returns a non-nil slice so handlers encode [] instead of null.
func FindAndDecode[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			continue
		}
		results = append(results, item)
	}
	return results, cursor.Err()
}
